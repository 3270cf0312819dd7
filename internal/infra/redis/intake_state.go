package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telegram-homework-agent/internal/domain"
	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/repository"
)

// Ensure the adapter implements the port interface.
var _ repository.IntakeStateRepository = (*IntakeStateRepo)(nil)

// IntakeStateRepo stores intake sessions in Redis between Telegram turns.
// The TTL gives users a window to complete the flow; abandoned sessions
// simply expire.
type IntakeStateRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewIntakeStateRepo(client RedisClient, ttl time.Duration) *IntakeStateRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &IntakeStateRepo{client: client, ttl: ttl}
}

func (s *IntakeStateRepo) stateKey(tgID int64) string {
	return fmt.Sprintf("intake_state:%d", tgID)
}

func (s *IntakeStateRepo) Set(ctx context.Context, tgID int64, sess *model.IntakeSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(tgID), data, s.ttl)
}

func (s *IntakeStateRepo) Get(ctx context.Context, tgID int64) (*model.IntakeSession, error) {
	data, err := s.client.Get(ctx, s.stateKey(tgID))
	if err != nil {
		if IsNil(err) {
			return nil, domain.ErrNoIntakeSession
		}
		return nil, err
	}

	var sess model.IntakeSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *IntakeStateRepo) Clear(ctx context.Context, tgID int64) error {
	return s.client.Del(ctx, s.stateKey(tgID))
}
