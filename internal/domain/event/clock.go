package event

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	// ActiveWindow is how long an event stays joinable after an occurrence.
	ActiveWindow = 120 * time.Second

	// lookbackBound and probeStep parameterize the backward scan in
	// MostRecent. 120 probes of one minute each cover two hours.
	lookbackBound = 2 * time.Hour
	probeStep     = time.Minute
)

// Clock computes occurrences of cron-style recurrence rules in UTC.
// It wraps a 5-field cron parser for schedule-only usage; it never runs jobs.
type Clock struct {
	parser cron.Parser
}

func NewClock() *Clock {
	return &Clock{
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}
}

// Validate reports whether the rule's expression parses as a 5-field cron line.
func (c *Clock) Validate(rule Rule) error {
	if _, err := c.parser.Parse(rule.Spec); err != nil {
		return fmt.Errorf("invalid recurrence expression %q for event %q: %w", rule.Spec, rule.Name, err)
	}
	return nil
}

// NextFuture returns the smallest occurrence strictly after now. The zero
// time is returned only when the expression admits no future match, which
// cannot happen for a valid fixed-field rule.
func (c *Clock) NextFuture(rule Rule, now time.Time) (time.Time, error) {
	schedule, err := c.parser.Parse(rule.Spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing recurrence expression for event %q: %w", rule.Name, err)
	}
	return schedule.Next(now.UTC()), nil
}

// MostRecent returns the largest occurrence at or before now within the
// two-hour lookback bound, and false when there is none.
//
// This is a bounded linear probe, not a closed-form inverse of the cron
// expression: it steps back one minute at a time (120 probes total) and asks
// for the next occurrence after each probe point. Rules whose true period
// exceeds the lookback bound therefore report "never fired" here and will
// never be classified as active. Parse failures also report false; callers
// must treat a false result as "not recently active".
func (c *Clock) MostRecent(rule Rule, now time.Time) (time.Time, bool) {
	schedule, err := c.parser.Parse(rule.Spec)
	if err != nil {
		return time.Time{}, false
	}
	now = now.UTC()
	for back := probeStep; back <= lookbackBound; back += probeStep {
		candidate := schedule.Next(now.Add(-back))
		if candidate.IsZero() || candidate.After(now) {
			continue
		}
		if now.Sub(candidate) <= lookbackBound {
			return candidate, true
		}
	}
	return time.Time{}, false
}
