package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/craftdeck/craftdeck/internal/backup"
	"github.com/craftdeck/craftdeck/internal/console"
)

// Schedule is one recurring action against the server.
type Schedule struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CronExpr  string `json:"cron_expr"`
	Action    string `json:"action"` // start, stop, restart, backup, command
	Command   string `json:"command,omitempty"`
	Enabled   bool   `json:"enabled"`
	LastRun   string `json:"last_run,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Controller is the server lifecycle surface the scheduler drives.
type Controller interface {
	Start(cfg console.LaunchConfig) error
	Stop()
	Restart()
	SendCommand(command string)
}

// LaunchSource supplies the launch configuration for start actions.
type LaunchSource interface {
	LaunchConfig() (console.LaunchConfig, error)
}

// Archiver creates backups for backup actions.
type Archiver interface {
	Create() (*backup.Backup, error)
}

type Scheduler struct {
	db      *sql.DB
	ctrl    Controller
	launch  LaunchSource
	archive Archiver
	cancel  context.CancelFunc
}

func New(db *sql.DB, ctrl Controller, launch LaunchSource, archive Archiver) *Scheduler {
	return &Scheduler{db: db, ctrl: ctrl, launch: launch, archive: archive}
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		// Check every 60 seconds, aligned to the minute
		for {
			now := time.Now()
			nextMinute := now.Truncate(time.Minute).Add(time.Minute)

			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Until(nextMinute)):
				s.tick(time.Now())
			}
		}
	}()

	log.Println("Scheduler started")
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// List returns all schedules, newest first.
func (s *Scheduler) List() ([]*Schedule, error) {
	rows, err := s.db.Query(
		`SELECT id, name, cron_expr, action, command, enabled, COALESCE(last_run, ''), created_at FROM schedules ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []*Schedule{}
	for rows.Next() {
		var sch Schedule
		if err := rows.Scan(&sch.ID, &sch.Name, &sch.CronExpr, &sch.Action, &sch.Command, &sch.Enabled, &sch.LastRun, &sch.CreatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, &sch)
	}
	return schedules, rows.Err()
}

// Create validates and stores a new schedule.
func (s *Scheduler) Create(name, cronExpr, action, command string) (*Schedule, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if _, err := ParseCron(cronExpr); err != nil {
		return nil, err
	}
	switch action {
	case "start", "stop", "restart", "backup":
	case "command":
		if command == "" {
			return nil, fmt.Errorf("command action requires a command")
		}
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}

	sch := &Schedule{
		ID:        uuid.New().String()[:8],
		Name:      name,
		CronExpr:  cronExpr,
		Action:    action,
		Command:   command,
		Enabled:   true,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	_, err := s.db.Exec(
		`INSERT INTO schedules (id, name, cron_expr, action, command, enabled, created_at) VALUES (?, ?, ?, ?, ?, 1, ?)`,
		sch.ID, sch.Name, sch.CronExpr, sch.Action, sch.Command, sch.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}
	return sch, nil
}

// SetEnabled toggles a schedule.
func (s *Scheduler) SetEnabled(id string, enabled bool) error {
	res, err := s.db.Exec("UPDATE schedules SET enabled = ? WHERE id = ?", enabled, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a schedule.
func (s *Scheduler) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Scheduler) tick(now time.Time) {
	schedules, err := s.List()
	if err != nil {
		log.Printf("scheduler: query: %v", err)
		return
	}

	for _, sch := range schedules {
		if !sch.Enabled {
			continue
		}
		cron, err := ParseCron(sch.CronExpr)
		if err != nil {
			log.Printf("scheduler: invalid cron %q for schedule %s: %v", sch.CronExpr, sch.ID, err)
			continue
		}
		if !cron.Matches(now) {
			continue
		}

		log.Printf("scheduler: running %s (schedule %s)", sch.Action, sch.ID)
		s.execute(sch)
		if _, err := s.db.Exec("UPDATE schedules SET last_run = ? WHERE id = ?", now.UTC().Format(time.RFC3339), sch.ID); err != nil {
			log.Printf("scheduler: record last_run for %s: %v", sch.ID, err)
		}
	}
}

func (s *Scheduler) execute(sch *Schedule) {
	switch sch.Action {
	case "start":
		cfg, err := s.launch.LaunchConfig()
		if err != nil {
			log.Printf("scheduler: start: %v", err)
			return
		}
		if err := s.ctrl.Start(cfg); err != nil {
			log.Printf("scheduler: start failed: %v", err)
		}
	case "stop":
		s.ctrl.Stop()
	case "restart":
		s.ctrl.Restart()
	case "backup":
		if _, err := s.archive.Create(); err != nil {
			log.Printf("scheduler: backup failed: %v", err)
		}
	case "command":
		s.ctrl.SendCommand(sch.Command)
	default:
		log.Printf("scheduler: unknown action %q", sch.Action)
	}
}
