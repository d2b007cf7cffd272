package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/events"
)

// NotificationService surfaces compliance events to the operations log.
// Delivery beyond structured logging (email, webhook) stays stubbed.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventServiceLocked, n.handleServiceLocked)
	n.dispatcher.Subscribe(events.EventServiceCleared, n.handleServiceCleared)
	n.dispatcher.Subscribe(events.EventStaffCertified, n.handleStaffCertified)
	n.dispatcher.Subscribe(events.EventJourneyReset, n.handleJourneyReset)
	n.dispatcher.Subscribe(events.EventScoreRecomputed, n.handleScoreRecomputed)
	n.dispatcher.Subscribe(events.EventModeSwitched, n.handleModeSwitched)
}

func (n *NotificationService) handleServiceLocked(_ context.Context, event events.Event) error {
	n.logger.Warn("ServiceLocked", zap.String("actor", event.ActorEmail), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleServiceCleared(_ context.Context, event events.Event) error {
	n.logger.Info("ServiceCleared", zap.String("actor", event.ActorEmail), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleStaffCertified(_ context.Context, event events.Event) error {
	n.logger.Info("StaffCertified", zap.String("actor", event.ActorEmail), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleJourneyReset(_ context.Context, event events.Event) error {
	n.logger.Warn("JourneyReset", zap.String("actor", event.ActorEmail), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleScoreRecomputed(_ context.Context, event events.Event) error {
	n.logger.Info("SafetyScoreRecomputed", zap.String("actor", event.ActorEmail), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleModeSwitched(_ context.Context, event events.Event) error {
	n.logger.Info("ModeSwitched", zap.String("actor", event.ActorEmail), zap.Any("payload", event.Payload))
	return nil
}
