package cron

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	"github.com/ordertrack/ordertrack-backend/pkg/logger"
)

func TestSnapshotJobDumpsDomainTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	require.NoError(t, db.Create(&models.Client{ID: "C01", Name: "Client One"}).Error)
	require.NoError(t, db.Create(&models.Supplier{ID: "T00016", Name: "Supplier"}).Error)
	require.NoError(t, db.Create(&models.Order{
		ID:         "ORD1",
		Name:       "Order 1",
		OrderDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		SupplierID: "T00016",
	}).Error)

	dir := t.TempDir()
	job, err := NewSnapshotJob(SnapshotJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		DB:     db,
		Dir:    dir,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))

	files, err := filepath.Glob(filepath.Join(dir, "ordertrack-*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var dump map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &dump))
	require.Contains(t, dump, "clients")
	require.Contains(t, dump, "orders")
	require.Contains(t, dump, "confirmation_items")

	var clients []models.Client
	require.NoError(t, json.Unmarshal(dump["clients"], &clients))
	require.Len(t, clients, 1)
	require.Equal(t, "C01", clients[0].ID)
}
