package ingest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ordertrack/ordertrack-backend/pkg/config"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
	"github.com/ordertrack/ordertrack-backend/pkg/redis"
)

type fakeStagingStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeStagingStore() *fakeStagingStore {
	return &fakeStagingStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStagingStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStagingStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeStagingStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeStagingStore) StagingKey(kind, token string) string {
	return strings.Join([]string{"ot", "staging", kind, token}, ":")
}

func TestStagingRoundTrip(t *testing.T) {
	store := newFakeStagingStore()
	staging := NewStaging(store, config.IngestConfig{StagingTTL: 30 * time.Minute})
	ctx := context.Background()

	payload := StagedOrder{
		OrderID:    "ORD1-C01B02",
		SupplierID: "T00016",
		Rows:       []OrderRow{{Product: "111_B02", Client: "C01", Quantity: 4}},
	}
	token, err := staging.Stage(ctx, KindOrder, payload)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, 30*time.Minute, store.ttls[store.StagingKey(KindOrder, token)])

	var loaded StagedOrder
	require.NoError(t, staging.Load(ctx, KindOrder, token, &loaded))
	require.Equal(t, payload, loaded)

	require.NoError(t, staging.Discard(ctx, KindOrder, token))
	err = staging.Load(ctx, KindOrder, token, &loaded)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeExpired, appErr.Code())
}

func TestStagingLoadUnknownToken(t *testing.T) {
	staging := NewStaging(newFakeStagingStore(), config.IngestConfig{StagingTTL: time.Minute})

	var dest StagedConfirmation
	err := staging.Load(context.Background(), KindConfirmation, "missing", &dest)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeExpired, appErr.Code())
}
