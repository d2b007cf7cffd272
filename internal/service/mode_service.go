package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// ModeService holds the per-session operating mode in Redis. The mode is
// session state only: it defaults to operate, changes only through an
// explicit switch, and expires with the session.
type ModeService struct {
	client     *redis.Client
	ttl        time.Duration
	dispatcher events.Dispatcher
}

// NewModeService builds the service.
func NewModeService(client *redis.Client, ttl time.Duration, dispatcher events.Dispatcher) *ModeService {
	return &ModeService{client: client, ttl: ttl, dispatcher: dispatcher}
}

func modeKey(sessionKey string) string {
	return "mode:" + sessionKey
}

// Get returns the session's current mode, defaulting to operate.
func (s *ModeService) Get(ctx context.Context, sessionKey string) (domain.OperatingMode, error) {
	if s.client == nil {
		return domain.ModeOperate, nil
	}
	val, err := s.client.Get(ctx, modeKey(sessionKey)).Result()
	if err == redis.Nil {
		return domain.ModeOperate, nil
	}
	if err != nil {
		return domain.ModeOperate, err
	}
	mode := domain.OperatingMode(val)
	if !domain.ValidMode(mode) {
		return domain.ModeOperate, nil
	}
	return mode, nil
}

// Switch changes the session's mode.
func (s *ModeService) Switch(ctx context.Context, sessionKey, actorEmail string, mode domain.OperatingMode) error {
	if !domain.ValidMode(mode) {
		return apperrors.NewValidationError("unknown operating mode", map[string]any{"mode": mode})
	}
	old, err := s.Get(ctx, sessionKey)
	if err != nil {
		return err
	}
	if s.client != nil {
		if err := s.client.Set(ctx, modeKey(sessionKey), string(mode), s.ttl).Err(); err != nil {
			return err
		}
	}
	if s.dispatcher != nil && old != mode {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventModeSwitched,
			ActorEmail: actorEmail,
			Timestamp:  time.Now(),
			Payload:    events.ModeSwitchedPayload{OldMode: old, NewMode: mode},
		})
	}
	return nil
}
