// Package console supervises the game server process and turns its raw
// output into a filtered, classified, batched console stream.
package console

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/craftdeck/craftdeck/internal/metrics"
)

// DefaultWatchInterval is the liveness poll period of the watcher.
const DefaultWatchInterval = time.Second

// State is the lifecycle state of the supervised process.
type State int

const (
	NoProcess State = iota
	Starting
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "no_process"
	}
}

// LaunchConfig describes how to launch the server process. It is consumed
// once per Start call and not revalidated afterwards.
type LaunchConfig struct {
	JavaPath  string
	MinMemory string
	MaxMemory string
	ServerDir string
	JarPath   string
}

func (c LaunchConfig) validate() error {
	if c.JavaPath == "" {
		return errors.New("launch config: java path is required")
	}
	if c.JarPath == "" {
		return errors.New("launch config: server jar path is required")
	}
	return nil
}

// commandLine builds the exact argument vector the server expects.
func (c LaunchConfig) commandLine() []string {
	return []string{
		c.JavaPath,
		"-Xms" + c.MinMemory,
		"-Xmx" + c.MaxMemory,
		"-jar",
		c.JarPath,
		"nogui",
	}
}

// Supervisor owns the server process: its lifecycle state, the reader
// draining its merged stdout/stderr into the aggregator, and the watcher
// reconciling state when the process exits on its own. All child-process
// failures are absorbed here and surfaced as classified lines in the
// console stream; only invalid launch configuration is returned as an
// error.
type Supervisor struct {
	mu        sync.Mutex
	state     State
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	agg       *Aggregator
	exited    chan struct{}
	restart   bool
	pid       int
	startedAt time.Time

	sink          FlushFunc
	flushInterval time.Duration
	watchInterval time.Duration

	// newCommand builds the child process command; replaced in tests.
	newCommand func(name string, arg ...string) *exec.Cmd
}

// New creates a supervisor in the NoProcess state. Flush batches are
// delivered to sink.
func New(sink FlushFunc) *Supervisor {
	return &Supervisor{
		sink:          sink,
		flushInterval: DefaultFlushInterval,
		watchInterval: DefaultWatchInterval,
		newCommand:    exec.Command,
	}
}

// State returns the current lifecycle state. Non-blocking; intended for
// UI polling.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pid returns the process id of the current child, or 0.
func (s *Supervisor) Pid() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running || s.state == Stopping {
		return s.pid
	}
	return 0
}

// Uptime returns how long the current process has been running.
func (s *Supervisor) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running || s.state == Stopping {
		return time.Since(s.startedAt)
	}
	return 0
}

// RestartPending reports whether Restart was requested for the current or
// just-ended session. The flag is an intent signal for the caller; the
// supervisor does not relaunch on its own. It is cleared by the next
// Start.
func (s *Supervisor) RestartPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restart
}

// Start launches the server process. It is a no-op while a process is
// starting, running, or still shutting down, so a stop that the child
// has not honored yet cannot race a second launch into the same server
// directory. Launch failures (missing executable, unreadable jar) are
// reported in the console stream and leave the supervisor in NoProcess;
// only an invalid config is returned as an error.
func (s *Supervisor) Start(cfg LaunchConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == Starting || s.state == Running || s.state == Stopping {
		s.mu.Unlock()
		return nil
	}
	s.setStateLocked(Starting)
	s.restart = false
	agg := NewAggregator()
	agg.Start(s.flushInterval, s.sink)
	s.agg = agg
	s.mu.Unlock()

	argv := cfg.commandLine()
	s.log(agg, "Starting server with command: "+strings.Join(argv, " "))

	cmd := s.newCommand(argv[0], argv[1:]...)
	cmd.Dir = cfg.ServerDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		s.abortStart(agg, err)
		return nil
	}

	// Merge stdout and stderr into one pipe we own, so Wait cannot close
	// it out from under the reader and trailing output survives exit.
	outR, outW, err := os.Pipe()
	if err != nil {
		stdin.Close()
		s.abortStart(agg, err)
		return nil
	}
	cmd.Stdout = outW
	cmd.Stderr = outW

	if err := cmd.Start(); err != nil {
		stdin.Close()
		outR.Close()
		outW.Close()
		s.abortStart(agg, err)
		return nil
	}
	outW.Close()

	exited := make(chan struct{})
	s.mu.Lock()
	s.cmd = cmd
	s.stdin = stdin
	s.exited = exited
	s.pid = cmd.Process.Pid
	s.startedAt = time.Now()
	s.setStateLocked(Running)
	s.mu.Unlock()

	go s.readOutput(outR, agg)
	go func() {
		// Sole Wait call for this process; the watcher and Stop observe
		// the recorded fact through the channel.
		cmd.Wait()
		close(exited)
	}()
	go s.watch(exited, agg)
	return nil
}

func (s *Supervisor) abortStart(agg *Aggregator, err error) {
	s.log(agg, "Error starting server: "+err.Error())
	agg.Stop()
	s.mu.Lock()
	s.agg = nil
	s.setStateLocked(NoProcess)
	s.mu.Unlock()
}

// SendCommand writes one operator command to the server's stdin, echoing
// it into the console stream as "> command". Failures never propagate to
// the caller; they become error lines in the same transcript.
func (s *Supervisor) SendCommand(command string) {
	s.mu.Lock()
	if s.stdin == nil || (s.state != Running && s.state != Stopping) {
		agg := s.agg
		s.mu.Unlock()
		s.log(agg, "Error sending command: no server process")
		return
	}
	s.sendLocked(command)
	s.mu.Unlock()
}

func (s *Supervisor) sendLocked(command string) {
	s.log(s.agg, "> "+command)
	if _, err := io.WriteString(s.stdin, command+"\n"); err != nil {
		s.log(s.agg, "Error sending command: "+err.Error())
		return
	}
	metrics.CommandsSent.Inc()
}

// Stop requests a cooperative shutdown by sending the "stop" command and
// blocks until the process has exited. There is no timeout and no kill
// escalation: a child that ignores "stop" blocks Stop indefinitely. No-op
// when no process is live.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if s.cmd == nil || (s.state != Running && s.state != Stopping) {
		s.mu.Unlock()
		return
	}
	s.setStateLocked(Stopping)
	agg := s.agg
	exited := s.exited
	s.sendLocked("stop")
	s.mu.Unlock()

	<-exited
	s.finalize(agg, "Server stopped.")
}

// Restart records restart intent and requests a cooperative stop. The
// supervisor does not relaunch by itself; the caller observes the intent
// via RestartPending and issues the follow-up Start. Only meaningful
// while Running.
func (s *Supervisor) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return
	}
	s.restart = true
	s.sendLocked("stop")
}

// readOutput drains the merged output stream until it ends. Read errors
// on an exited process are a natural termination signal, not a fault; the
// watcher reconciles state.
func (s *Supervisor) readOutput(r io.ReadCloser, agg *Aggregator) {
	defer r.Close()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		cl, ok := Classify(line)
		if !ok {
			metrics.FilteredLines.Inc()
			continue
		}
		metrics.ConsoleLines.WithLabelValues(cl.Severity.String()).Inc()
		agg.Append(cl)
	}
}

// watch polls process liveness and flips state to Stopped when the child
// exits without a cooperative stop (crash, external kill, or a "stop" the
// child honored by itself).
func (s *Supervisor) watch(exited chan struct{}, agg *Aggregator) {
	ticker := time.NewTicker(s.watchInterval)
	defer ticker.Stop()
	for range ticker.C {
		select {
		case <-exited:
			s.finalize(agg, "Server process terminated.")
			return
		default:
		}
		if st := s.State(); st != Running && st != Stopping {
			return
		}
	}
}

// finalize performs the single authoritative transition to Stopped for
// one session. The watcher and Stop both call it; whichever arrives first
// emits the termination line and drains the aggregator.
func (s *Supervisor) finalize(agg *Aggregator, message string) {
	s.mu.Lock()
	if s.agg != agg || s.state == Stopped {
		s.mu.Unlock()
		return
	}
	s.setStateLocked(Stopped)
	s.cmd = nil
	s.stdin = nil
	s.agg = nil
	s.mu.Unlock()

	s.log(agg, message)
	agg.Stop()
}

// log routes a supervisor message through the same classification and
// aggregation path as child output, so operational context and process
// output share one timeline. With no active session the message falls
// back to the application log.
func (s *Supervisor) log(agg *Aggregator, message string) {
	cl, ok := Classify(message)
	if !ok {
		return
	}
	if agg == nil {
		log.Printf("console: %s", message)
		return
	}
	agg.Append(cl)
}

func (s *Supervisor) setStateLocked(st State) {
	s.state = st
	metrics.ServerState.Set(float64(st))
}
