package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuizState is the persisted in-progress quiz for one staff member and
// module. It has a single load/save boundary here; nothing else reads or
// writes the underlying keys.
type QuizState struct {
	Module        string         `json:"module"`
	QuestionIndex int            `json:"question_index"`
	Answers       map[string]int `json:"answers"`
	StartedAt     time.Time      `json:"started_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// QuizStore keeps quiz state in Redis with a sliding TTL.
type QuizStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuizStore builds the store.
func NewQuizStore(client *redis.Client, ttl time.Duration) *QuizStore {
	return &QuizStore{client: client, ttl: ttl}
}

func quizKey(staffEmail, module string) string {
	return "quiz:" + staffEmail + ":" + module
}

// Load returns the saved state or nil when none exists.
func (s *QuizStore) Load(ctx context.Context, staffEmail, module string) (*QuizState, error) {
	if s.client == nil {
		return nil, nil
	}
	raw, err := s.client.Get(ctx, quizKey(staffEmail, module)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state QuizState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save overwrites the state and refreshes the TTL.
func (s *QuizStore) Save(ctx context.Context, staffEmail string, state *QuizState) error {
	if s.client == nil {
		return nil
	}
	state.UpdatedAt = time.Now()
	if state.StartedAt.IsZero() {
		state.StartedAt = state.UpdatedAt
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, quizKey(staffEmail, state.Module), raw, s.ttl).Err()
}

// Clear drops the state, typically after quiz submission.
func (s *QuizStore) Clear(ctx context.Context, staffEmail, module string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, quizKey(staffEmail, module)).Err()
}
