package main

import (
	"context"
	"errors"
	"io"
	"testing"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ordertrack/ordertrack-backend/pkg/config"
	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	"github.com/ordertrack/ordertrack-backend/pkg/enums"
	"github.com/ordertrack/ordertrack-backend/pkg/logger"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    map[uuid.UUID]string
}

func (r *fakeRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if len(r.events) > limit {
		return r.events[:limit], nil
	}
	return r.events, nil
}

func (r *fakeRepo) MarkPublished(id uuid.UUID) error {
	r.published = append(r.published, id)
	return nil
}

func (r *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	if r.failed == nil {
		r.failed = map[uuid.UUID]string{}
	}
	r.failed[id] = err.Error()
	return nil
}

type fakeResult struct {
	err error
}

func (r *fakeResult) Get(context.Context) (string, error) { return "server-id", r.err }

type fakePublisher struct {
	messages []*gcppubsub.Message
	errFor   map[string]error
}

func (p *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	if err, ok := p.errFor[msg.Attributes["aggregate_id"]]; ok {
		return &fakeResult{err: err}
	}
	return &fakeResult{}
}

func newTestService(t *testing.T, repo *fakeRepo, pub *fakePublisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:     &config.Config{},
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repository: repo,
		Publisher:  pub,
	})
	require.NoError(t, err)
	return svc
}

func auditEvent(aggregateID string) models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.AuditActionCreated,
		AggregateType: enums.AuditAggregateConfirmation,
		AggregateID:   aggregateID,
		Payload:       []byte(`{"version":1}`),
	}
}

func TestProcessBatchPublishesPendingEvents(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{auditEvent("AB400"), auditEvent("AB401")}}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)

	require.Len(t, pub.messages, 2)
	require.Equal(t, "AB400", pub.messages[0].Attributes["aggregate_id"])
	require.Equal(t, string(enums.AuditActionCreated), pub.messages[0].Attributes["event_type"])
	require.Len(t, repo.published, 2)
	require.Empty(t, repo.failed)
}

func TestProcessBatchMarksFailureAndContinues(t *testing.T) {
	broken := auditEvent("AB400")
	healthy := auditEvent("AB401")
	repo := &fakeRepo{events: []models.OutboxEvent{broken, healthy}}
	pub := &fakePublisher{errFor: map[string]error{"AB400": errors.New("topic unavailable")}}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)

	require.Equal(t, []uuid.UUID{healthy.ID}, repo.published)
	require.Contains(t, repo.failed[broken.ID], "topic unavailable")
}

func TestProcessBatchIdleWhenQueueEmpty(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, &fakePublisher{})

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.False(t, processed)
}
