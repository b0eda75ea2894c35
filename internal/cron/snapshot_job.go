package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	"github.com/ordertrack/ordertrack-backend/pkg/logger"
)

const snapshotTimestampLayout = "2006-01-02-15-04"

// SnapshotJobParams configure the database snapshot job.
type SnapshotJobParams struct {
	Logger *logger.Logger
	DB     *gorm.DB
	Dir    string
}

// NewSnapshotJob builds the job that dumps the domain tables to a
// timestamped JSON file under the configured directory.
func NewSnapshotJob(params SnapshotJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db required")
	}
	if params.Dir == "" {
		return nil, fmt.Errorf("snapshot directory required")
	}
	return &snapshotJob{
		logg: params.Logger,
		db:   params.DB,
		dir:  params.Dir,
		now:  time.Now,
	}, nil
}

type snapshotJob struct {
	logg *logger.Logger
	db   *gorm.DB
	dir  string
	now  func() time.Time
}

func (j *snapshotJob) Name() string { return "database-snapshot" }

func (j *snapshotJob) Run(ctx context.Context) error {
	dump := map[string]any{}

	var clients []models.Client
	var brands []models.Brand
	var suppliers []models.Supplier
	var products []models.Product
	var priceLists []models.PriceList
	var productDetails []models.ProductDetail
	var orders []models.Order
	var orderItems []models.OrderItem
	var confirmations []models.Confirmation
	var confirmationItems []models.ConfirmationItem
	var deliveries []models.ConfirmationDelivery
	var invoices []models.Invoice
	var invoiceItems []models.InvoiceItem

	tables := []struct {
		name string
		dest any
	}{
		{"clients", &clients},
		{"brands", &brands},
		{"suppliers", &suppliers},
		{"products", &products},
		{"price_lists", &priceLists},
		{"product_details", &productDetails},
		{"orders", &orders},
		{"order_items", &orderItems},
		{"confirmations", &confirmations},
		{"confirmation_items", &confirmationItems},
		{"confirmation_deliveries", &deliveries},
		{"invoices", &invoices},
		{"invoice_items", &invoiceItems},
	}
	for _, table := range tables {
		if err := j.db.WithContext(ctx).Find(table.dest).Error; err != nil {
			return fmt.Errorf("dump %s: %w", table.name, err)
		}
		dump[table.name] = table.dest
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	filename := filepath.Join(j.dir,
		fmt.Sprintf("ordertrack-%s.json", j.now().UTC().Format(snapshotTimestampLayout)))

	encoded, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(filename, encoded, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	j.logg.Info(j.logg.WithField(ctx, "file", filename), "database snapshot written")
	return nil
}
