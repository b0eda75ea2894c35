package confirmations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/internal/ingest"
	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
	"github.com/ordertrack/ordertrack-backend/pkg/outbox"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

type fakeStaging struct {
	payloads map[string][]byte
	next     int
}

func newFakeStaging() *fakeStaging {
	return &fakeStaging{payloads: map[string][]byte{}}
}

func (f *fakeStaging) Stage(_ context.Context, kind string, payload any) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	f.next++
	token := fmt.Sprintf("%s-token-%d", kind, f.next)
	f.payloads[token] = encoded
	return token, nil
}

func (f *fakeStaging) Load(_ context.Context, _, token string, dest any) error {
	encoded, ok := f.payloads[token]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeExpired, "staged upload not found or expired")
	}
	return json.Unmarshal(encoded, dest)
}

func (f *fakeStaging) Discard(_ context.Context, _, token string) error {
	delete(f.payloads, token)
	return nil
}

type stubBrands struct{}

func (stubBrands) FindBrandIDByName(_ context.Context, _ string) (string, error) {
	return "B07", nil
}

func setupConfirmationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedConfirmationDirectory(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Supplier{ID: "T00016", Name: "Supplier"}).Error)
	require.NoError(t, db.Create(&models.Brand{ID: "B07", Name: "Brand Seven"}).Error)
	require.NoError(t, db.Create(&models.Client{ID: "CX", Name: "Client X"}).Error)
	require.NoError(t, db.Create(&models.Client{ID: "CY", Name: "Client Y"}).Error)
	require.NoError(t, db.Create(&models.Client{ID: "CZ", Name: "Client Z"}).Error)
}

func seedOrder(t *testing.T, db *gorm.DB, orderID string, items []models.OrderItem) {
	t.Helper()
	order := models.Order{
		ID:         orderID,
		Name:       orderID,
		OrderDate:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		SupplierID: "T00016",
	}
	require.NoError(t, db.Create(&order).Error)
	for i := range items {
		items[i].OrderID = orderID
	}
	if len(items) > 0 {
		require.NoError(t, db.Create(&items).Error)
	}
}

// seedPriorConfirmation inserts a confirmation with fixed items directly,
// bypassing reconciliation, to model already-recorded history.
func seedPriorConfirmation(t *testing.T, db *gorm.DB, code string, orderIDs []string, items []models.ConfirmationItem) {
	t.Helper()
	confirmation := models.Confirmation{
		ID:               code,
		Name:             "Prior " + code,
		ConfirmationCode: code,
		ConfirmationDate: time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC),
		SupplierID:       "T00016",
	}
	require.NoError(t, db.Create(&confirmation).Error)
	for _, orderID := range orderIDs {
		require.NoError(t, db.Exec(
			"INSERT INTO confirmation_orders (confirmation_id, order_id) VALUES (?, ?)",
			code, orderID).Error)
	}
	for i := range items {
		items[i].ConfirmationID = code
	}
	if len(items) > 0 {
		require.NoError(t, db.Create(&items).Error)
	}
}

func newConfirmationsService(t *testing.T, db *gorm.DB) (Service, *fakeStaging) {
	t.Helper()
	staging := newFakeStaging()
	emitter := outbox.NewService(outbox.NewRepository(db), nil)
	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, staging, emitter, stubBrands{}, nil)
	require.NoError(t, err)
	return svc, staging
}

func stageConfirmation(t *testing.T, staging *fakeStaging, code string, rows []ingest.ConfirmationRow) string {
	t.Helper()
	token, err := staging.Stage(context.Background(), ingest.KindConfirmation, ingest.StagedConfirmation{
		ConfirmationCode: code,
		Name:             "Bestellung " + code + ".xlsx",
		SupplierID:       "T00016",
		Rows:             rows,
	})
	require.NoError(t, err)
	return token
}

func createConfirmation(t *testing.T, svc Service, staging *fakeStaging, code string, orderIDs []string, rows []ingest.ConfirmationRow) *ConfirmationDetail {
	t.Helper()
	detail, err := svc.Create(context.Background(), CreateConfirmationInput{
		Name:             "Confirmation " + code,
		ConfirmationDate: pastDate(t),
		SupplierID:       "T00016",
		OrderIDs:         orderIDs,
		StagingToken:     stageConfirmation(t, staging, code, rows),
	})
	require.NoError(t, err)
	return detail
}

func itemQuantity(t *testing.T, detail *ConfirmationDetail, clientID, productID string) int {
	t.Helper()
	for _, item := range detail.Items {
		if item.ClientID == clientID && item.ProductID == productID {
			return item.Quantity
		}
	}
	t.Fatalf("no item for client %s product %s", clientID, productID)
	return 0
}

func pastDate(t *testing.T) string {
	t.Helper()
	return time.Now().AddDate(0, 0, -1).Format("2006-01-02")
}

func TestCreateConfirmationValidations(t *testing.T) {
	db := setupConfirmationsTestDB(t)
	seedConfirmationDirectory(t, db)
	seedOrder(t, db, "ORD1", []models.OrderItem{{ClientID: "CX", ProductID: "1000_B07", Quantity: 10}})
	svc, staging := newConfirmationsService(t, db)
	ctx := context.Background()

	rows := []ingest.ConfirmationRow{
		{Product: "1000_B07", ProductName: "Part 1000", Quantity: 10, Price: decimal.NewFromFloat(1.50)},
	}

	future := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	_, err := svc.Create(ctx, CreateConfirmationInput{
		Name: "Conf A", ConfirmationDate: future, SupplierID: "T00016",
		OrderIDs: []string{"ORD1"}, StagingToken: stageConfirmation(t, staging, "AB100", rows),
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.Create(ctx, CreateConfirmationInput{
		Name: "Conf A", ConfirmationDate: pastDate(t), SupplierID: "T00016",
		OrderIDs: []string{"ORD1", "ORD404"}, StagingToken: stageConfirmation(t, staging, "AB100", rows),
	})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	createConfirmation(t, svc, staging, "AB100", []string{"ORD1"}, rows)

	// same name, different code
	_, err = svc.Create(ctx, CreateConfirmationInput{
		Name: "Confirmation AB100", ConfirmationDate: pastDate(t), SupplierID: "T00016",
		OrderIDs: []string{"ORD1"}, StagingToken: stageConfirmation(t, staging, "AB101", rows),
	})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	// same code, different name
	_, err = svc.Create(ctx, CreateConfirmationInput{
		Name: "Conf B", ConfirmationDate: pastDate(t), SupplierID: "T00016",
		OrderIDs: []string{"ORD1"}, StagingToken: stageConfirmation(t, staging, "AB100", rows),
	})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestCreateConfirmationRejectsSupplierMismatch(t *testing.T) {
	db := setupConfirmationsTestDB(t)
	seedConfirmationDirectory(t, db)
	require.NoError(t, db.Create(&models.Supplier{ID: "T00017", Name: "Other supplier"}).Error)
	seedOrder(t, db, "ORD1", []models.OrderItem{{ClientID: "CX", ProductID: "1000_B07", Quantity: 10}})
	svc, staging := newConfirmationsService(t, db)

	rows := []ingest.ConfirmationRow{
		{Product: "1000_B07", ProductName: "Part 1000", Quantity: 10, Price: decimal.NewFromFloat(1.50)},
	}

	// staged under T00016, committed as T00017
	_, err := svc.Create(context.Background(), CreateConfirmationInput{
		Name: "Conf M", ConfirmationDate: pastDate(t), SupplierID: "T00017",
		OrderIDs: []string{"ORD1"}, StagingToken: stageConfirmation(t, staging, "AB110", rows),
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	require.Contains(t, appErr.Message(), "different supplier")

	var count int64
	require.NoError(t, db.Model(&models.Confirmation{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestUpdateConfirmationRebuildsItemsOnOrderChange(t *testing.T) {
	db := setupConfirmationsTestDB(t)
	seedConfirmationDirectory(t, db)
	seedOrder(t, db, "ORD1", []models.OrderItem{
		{ClientID: "CX", ProductID: "1000_B07", Quantity: 10},
		{ClientID: "CY", ProductID: "1000_B07", Quantity: 20},
	})
	seedOrder(t, db, "ORD2", []models.OrderItem{
		{ClientID: "CZ", ProductID: "1000_B07", Quantity: 5},
	})
	svc, staging := newConfirmationsService(t, db)
	ctx := context.Background()

	detail := createConfirmation(t, svc, staging, "AB200", []string{"ORD1"}, []ingest.ConfirmationRow{
		{Product: "1000_B07", ProductName: "Part 1000", Quantity: 30, Price: decimal.NewFromFloat(2.50)},
	})
	require.Len(t, detail.Items, 2)

	// comment edits leave the reconciled items alone
	comment := "checked against packing list"
	detail, err := svc.Update(ctx, detail.ID, UpdateConfirmationInput{Comment: &comment})
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)
	require.NotNil(t, detail.Comment)
	require.Equal(t, comment, *detail.Comment)

	// relinking to another order set reallocates against its clients
	orders := []string{"ORD2"}
	detail, err = svc.Update(ctx, detail.ID, UpdateConfirmationInput{OrderIDs: &orders})
	require.NoError(t, err)
	require.Len(t, detail.Orders, 1)
	require.Equal(t, "ORD2", detail.Orders[0].ID)
	require.Len(t, detail.Items, 1)
	require.Equal(t, "CZ", detail.Items[0].ClientID)
	require.Equal(t, 5, detail.Items[0].Quantity)
	require.True(t, detail.Items[0].Price.Equal(decimal.NewFromFloat(2.50)))
}

func TestDeleteConfirmationCascades(t *testing.T) {
	db := setupConfirmationsTestDB(t)
	seedConfirmationDirectory(t, db)
	seedOrder(t, db, "ORD1", []models.OrderItem{{ClientID: "CX", ProductID: "1000_B07", Quantity: 10}})
	svc, staging := newConfirmationsService(t, db)
	ctx := context.Background()

	detail := createConfirmation(t, svc, staging, "AB300", []string{"ORD1"}, []ingest.ConfirmationRow{
		{Product: "1000_B07", ProductName: "Part 1000", Quantity: 10, Price: decimal.NewFromFloat(1.00), DeliveryRaw: "1767312000000"},
	})
	require.NoError(t, svc.Delete(ctx, detail.ID))

	_, err := svc.Get(ctx, detail.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	var count int64
	require.NoError(t, db.Model(&models.ConfirmationItem{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.ConfirmationDelivery{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Table("confirmation_orders").Count(&count).Error)
	require.Zero(t, count)

	// the linked order survives
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestListConfirmationsPaginatesByDateDesc(t *testing.T) {
	db := setupConfirmationsTestDB(t)
	seedConfirmationDirectory(t, db)
	svc, _ := newConfirmationsService(t, db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		code := fmt.Sprintf("AB40%d", i)
		seedPriorConfirmation(t, db, code, nil, []models.ConfirmationItem{
			{ClientID: "CX", ProductID: "1000_B07", Quantity: 2, Price: decimal.NewFromFloat(3.00)},
		})
		require.NoError(t, db.Model(&models.Confirmation{}).
			Where("id = ?", code).
			Update("confirmation_date", time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC)).Error)
	}

	page, err := svc.List(ctx, ListParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Confirmations, 2)
	require.Equal(t, "AB402", page.Confirmations[0].ID)
	require.Equal(t, "AB401", page.Confirmations[1].ID)
	require.True(t, page.Confirmations[0].TotalAmount.Equal(decimal.NewFromFloat(6.00)))
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.List(ctx, ListParams{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Confirmations, 1)
	require.Equal(t, "AB400", rest.Confirmations[0].ID)
	require.Empty(t, rest.NextCursor)
}

func TestExportConfirmationWorkbook(t *testing.T) {
	db := setupConfirmationsTestDB(t)
	seedConfirmationDirectory(t, db)
	seedOrder(t, db, "ORD1", []models.OrderItem{
		{ClientID: "CX", ProductID: "1000_B07", Quantity: 10},
		{ClientID: "CY", ProductID: "1000_B07", Quantity: 20},
	})
	svc, staging := newConfirmationsService(t, db)
	ctx := context.Background()

	detail := createConfirmation(t, svc, staging, "AB500", []string{"ORD1"}, []ingest.ConfirmationRow{
		{Product: "1000_B07", ProductName: "Part 1000", Quantity: 30, Price: decimal.NewFromFloat(2.00)},
	})

	result, err := svc.Export(ctx, detail.ID)
	require.NoError(t, err)
	require.Equal(t, "confirmation_AB500.xlsx", result.Filename)

	workbook, err := excelize.OpenReader(bytes.NewReader(result.Content))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows(workbook.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, []string{"Client", "Product", "Quantity", "Price", "Amount"}, rows[0])
	require.Equal(t, "CY", rows[1][0])
	require.Equal(t, "CX", rows[2][0])
	require.Equal(t, "Total", rows[3][0])
	require.Equal(t, "30", rows[3][2])
	require.Equal(t, "60.00", rows[3][4])

	// nothing to export without items
	seedPriorConfirmation(t, db, "AB501", nil, nil)
	_, err = svc.Export(ctx, "AB501")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
