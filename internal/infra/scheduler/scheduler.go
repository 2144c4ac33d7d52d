package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"dungeon_schedule_bot/internal/app"
	"dungeon_schedule_bot/internal/domain/event"
)

// fireTimeout bounds the work done for one notification fire.
const fireTimeout = 30 * time.Second

// NotificationScheduler registers one durable cron job per recurrence rule.
// Each job trusts the cron engine's own evaluation of the rule's expression;
// it does not recompute fire times through the recurrence clock.
type NotificationScheduler struct {
	cronEngine   *cron.Cron
	notifService app.NotificationService
	rules        []event.Rule
	logger       logrus.FieldLogger
}

func NewNotificationScheduler(notifService app.NotificationService, rules []event.Rule, logger logrus.FieldLogger) *NotificationScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &NotificationScheduler{
		cronEngine:   cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC)),
		notifService: notifService,
		rules:        rules,
		logger:       logger,
	}
}

// Start adds one job per rule and starts the engine. Registration failure is
// a startup error: the rule set is static, so a bad expression here means a
// bad build, not a runtime condition.
func (s *NotificationScheduler) Start() error {
	for _, rule := range s.rules {
		rule := rule
		_, err := s.cronEngine.AddFunc(rule.Spec, func() {
			fireTime := time.Now().UTC()
			s.logger.WithField("event", rule.Name).Info("Cron job fired for event start.")
			ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
			defer cancel()
			// Failures are already logged by the service; the occurrence's
			// notification is lost and the next fire proceeds normally.
			_ = s.notifService.NotifyEventStart(ctx, rule, fireTime)
		})
		if err != nil {
			return fmt.Errorf("could not register notification job for event %q: %w", rule.Name, err)
		}
	}

	s.cronEngine.Start()
	s.logger.Infof("Notification scheduler started, monitoring %d event(s).", len(s.rules))
	return nil
}

// Stop halts the engine and waits for in-flight jobs to finish.
func (s *NotificationScheduler) Stop() {
	s.logger.Info("Stopping notification scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Notification scheduler stopped.")
}
