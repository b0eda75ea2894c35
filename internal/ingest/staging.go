package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ordertrack/ordertrack-backend/pkg/config"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
	"github.com/ordertrack/ordertrack-backend/pkg/redis"
)

// StagingStore is the slice of the redis client the staging flow needs.
type StagingStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	StagingKey(kind, token string) string
}

// Staging is the redis-backed pending-ingestion store between the preview and
// commit requests. Entries expire after the configured TTL; expiry is the
// discard rule for abandoned previews.
type Staging struct {
	store StagingStore
	ttl   time.Duration
}

func NewStaging(store StagingStore, cfg config.IngestConfig) *Staging {
	return &Staging{store: store, ttl: cfg.StagingTTL}
}

// Stage persists the payload under a fresh token and returns the token.
func (s *Staging) Stage(ctx context.Context, kind string, payload any) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode staged payload")
	}
	token := uuid.NewString()
	key := s.store.StagingKey(kind, token)
	if err := s.store.Set(ctx, key, encoded, s.ttl); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store staged payload")
	}
	return token, nil
}

// Load decodes the staged payload into dest. A missing or expired token
// yields a CodeExpired error.
func (s *Staging) Load(ctx context.Context, kind, token string, dest any) error {
	key := s.store.StagingKey(kind, token)
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return pkgerrors.New(pkgerrors.CodeExpired, "staged upload not found or expired")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staged payload")
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode staged payload")
	}
	return nil
}

// Discard removes the staged payload; discarding an unknown token is a no-op.
func (s *Staging) Discard(ctx context.Context, kind, token string) error {
	return s.store.Del(ctx, s.store.StagingKey(kind, token))
}
