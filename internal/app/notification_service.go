package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"dungeon_schedule_bot/internal/domain/event"
	"dungeon_schedule_bot/internal/domain/sink"
)

// NotificationService is what the per-rule timers call when an occurrence
// starts.
type NotificationService interface {
	NotifyEventStart(ctx context.Context, rule event.Rule, fireTime time.Time) error
}

// EventNotificationService sends the one-shot start ping for an occurrence
// and hands the sent message to the janitor for deferred deletion.
type EventNotificationService struct {
	sink    sink.Sink
	janitor *PingJanitor
	roleID  string
	logger  logrus.FieldLogger
}

func NewEventNotificationService(s sink.Sink, janitor *PingJanitor, roleID string, logger logrus.FieldLogger) *EventNotificationService {
	return &EventNotificationService{sink: s, janitor: janitor, roleID: roleID, logger: logger}
}

// NotifyEventStart sends the notification for one occurrence. A send failure
// is logged and the occurrence's notification is simply lost: no retry, no
// pending ping.
func (s *EventNotificationService) NotifyEventStart(ctx context.Context, rule event.Rule, fireTime time.Time) error {
	text := fmt.Sprintf("<@&%s> **%s** has started! Join now!", s.roleID, rule.Name)

	ref, err := s.sink.Send(ctx, text)
	if err != nil {
		if errors.Is(err, sink.ErrForbidden) {
			s.logger.WithField("event", rule.Name).Error("Bot lacks permission to send the start notification.")
		} else {
			s.logger.WithField("event", rule.Name).WithError(err).Error("Failed to send start notification.")
		}
		return fmt.Errorf("failed to send start notification for %q: %w", rule.Name, err)
	}

	s.logger.WithField("event", rule.Name).Info("Sent start notification.")
	s.janitor.Track(ctx, rule.Name, ref, fireTime.Add(event.ActiveWindow))
	return nil
}

var _ NotificationService = (*EventNotificationService)(nil)
