package event

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Status tags a classified event as inside its join window or not yet fired.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusUpcoming Status = "UPCOMING"
)

// Classified is one event annotated with its occurrence times relative to a
// single reference instant. Instances are built fresh every classification
// pass and never mutated afterwards.
type Classified struct {
	Name   string
	Next   time.Time
	Prev   time.Time // zero when no recent occurrence was found
	Status Status

	// Remaining is the time until the join window closes; set only for
	// StatusActive, clamped to >= 0.
	Remaining time.Duration

	// Until is the time until the next occurrence; set only for StatusUpcoming.
	Until time.Duration
}

// Classifier partitions a rule set into active and upcoming events.
type Classifier struct {
	clock  *Clock
	logger logrus.FieldLogger
}

func NewClassifier(clock *Clock, logger logrus.FieldLogger) *Classifier {
	return &Classifier{clock: clock, logger: logger}
}

// Classify computes both occurrence queries for every rule and splits the
// results into the active and upcoming groups. Rules with no computable next
// occurrence are logged and dropped from this pass only; they are retried on
// the next one. Active events are sorted by ascending remaining window time,
// upcoming events by ascending next occurrence.
func (c *Classifier) Classify(rules []Rule, now time.Time) (active, upcoming []Classified) {
	now = now.UTC()
	for _, rule := range rules {
		next, err := c.clock.NextFuture(rule, now)
		if err != nil || next.IsZero() {
			c.logger.WithField("event", rule.Name).WithError(err).Warn("no future occurrence computable, dropping event from this pass")
			continue
		}

		prev, ok := c.clock.MostRecent(rule, now)
		if ok {
			elapsed := now.Sub(prev)
			if elapsed >= 0 && elapsed <= ActiveWindow {
				remaining := ActiveWindow - elapsed
				if remaining < 0 {
					remaining = 0
				}
				active = append(active, Classified{
					Name:      rule.Name,
					Next:      next,
					Prev:      prev,
					Status:    StatusActive,
					Remaining: remaining,
				})
				continue
			}
		}

		upcoming = append(upcoming, Classified{
			Name:   rule.Name,
			Next:   next,
			Prev:   prev,
			Status: StatusUpcoming,
			Until:  next.Sub(now),
		})
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Remaining < active[j].Remaining
	})
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Next.Before(upcoming[j].Next)
	})
	return active, upcoming
}
