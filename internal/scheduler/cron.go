package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CronExpr is a parsed 5-field cron expression (minute, hour,
// day-of-month, month, day-of-week). Each field is a bitmask of the
// allowed values.
type CronExpr struct {
	minutes uint64
	hours   uint64
	doms    uint64
	months  uint64
	dows    uint64
}

// ParseCron parses a standard 5-field cron expression. Fields support
// *, */n, single values, ranges, ranges with steps, and comma lists.
func ParseCron(expr string) (*CronExpr, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron expression must have 5 fields, got %d", len(fields))
	}

	var c CronExpr
	var err error
	if c.minutes, err = parseField(fields[0], 0, 59); err != nil {
		return nil, fmt.Errorf("minute field: %w", err)
	}
	if c.hours, err = parseField(fields[1], 0, 23); err != nil {
		return nil, fmt.Errorf("hour field: %w", err)
	}
	if c.doms, err = parseField(fields[2], 1, 31); err != nil {
		return nil, fmt.Errorf("day-of-month field: %w", err)
	}
	if c.months, err = parseField(fields[3], 1, 12); err != nil {
		return nil, fmt.Errorf("month field: %w", err)
	}
	if c.dows, err = parseField(fields[4], 0, 6); err != nil {
		return nil, fmt.Errorf("day-of-week field: %w", err)
	}
	return &c, nil
}

// Matches reports whether t satisfies the expression.
func (c *CronExpr) Matches(t time.Time) bool {
	return c.minutes&bit(t.Minute()) != 0 &&
		c.hours&bit(t.Hour()) != 0 &&
		c.doms&bit(t.Day()) != 0 &&
		c.months&bit(int(t.Month())) != 0 &&
		c.dows&bit(int(t.Weekday())) != 0
}

func bit(v int) uint64 { return 1 << uint(v) }

func parseField(field string, min, max int) (uint64, error) {
	var mask uint64
	for _, part := range strings.Split(field, ",") {
		m, err := parsePart(part, min, max)
		if err != nil {
			return 0, err
		}
		mask |= m
	}
	return mask, nil
}

func parsePart(part string, min, max int) (uint64, error) {
	lo, hi, step := min, max, 1

	body, stepStr, hasStep := strings.Cut(part, "/")
	if hasStep {
		n, err := strconv.Atoi(stepStr)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid step: %s", part)
		}
		step = n
	}

	switch {
	case body == "*":
		// full range
	case strings.Contains(body, "-"):
		loStr, hiStr, _ := strings.Cut(body, "-")
		var err error
		if lo, err = strconv.Atoi(loStr); err != nil {
			return 0, fmt.Errorf("invalid range start: %s", loStr)
		}
		if hi, err = strconv.Atoi(hiStr); err != nil {
			return 0, fmt.Errorf("invalid range end: %s", hiStr)
		}
		if lo > hi {
			return 0, fmt.Errorf("invalid range: %s", body)
		}
	default:
		v, err := strconv.Atoi(body)
		if err != nil {
			return 0, fmt.Errorf("invalid value: %s", body)
		}
		lo, hi = v, v
	}

	if lo < min || hi > max {
		return 0, fmt.Errorf("value out of range %d-%d: %s", min, max, part)
	}

	var mask uint64
	for i := lo; i <= hi; i += step {
		mask |= bit(i)
	}
	return mask, nil
}
