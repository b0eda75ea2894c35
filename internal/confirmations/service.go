package confirmations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/internal/ingest"
	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	"github.com/ordertrack/ordertrack-backend/pkg/enums"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
	"github.com/ordertrack/ordertrack-backend/pkg/logger"
	"github.com/ordertrack/ordertrack-backend/pkg/outbox"
	"github.com/ordertrack/ordertrack-backend/pkg/pagination"
)

const confirmationDateLayout = "2006-01-02"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type stagingStore interface {
	Stage(ctx context.Context, kind string, payload any) (string, error)
	Load(ctx context.Context, kind, token string, dest any) error
	Discard(ctx context.Context, kind, token string) error
}

type service struct {
	repo    Repository
	tx      txRunner
	staging stagingStore
	outbox  outboxEmitter
	brands  ingest.BrandResolver
	logg    *logger.Logger
}

// ConfirmationAuditEvent is the payload recorded for confirmation mutations.
type ConfirmationAuditEvent struct {
	ConfirmationID   string   `json:"confirmation_id"`
	Name             string   `json:"name"`
	ConfirmationCode string   `json:"confirmation_code"`
	SupplierID       string   `json:"supplier_id"`
	ConfirmationDate string   `json:"confirmation_date"`
	OrderIDs         []string `json:"order_ids,omitempty"`
	Comment          *string  `json:"comment,omitempty"`
}

// NewService builds the confirmation service with the required dependencies.
func NewService(repo Repository, tx txRunner, staging stagingStore, emitter outboxEmitter, brands ingest.BrandResolver, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("confirmations repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if staging == nil {
		return nil, fmt.Errorf("staging store required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if brands == nil {
		return nil, fmt.Errorf("brand resolver required")
	}
	return &service{repo: repo, tx: tx, staging: staging, outbox: emitter, brands: brands, logg: logg}, nil
}

// Preview parses the uploaded workbook, stages the normalized rows, and
// returns them for operator review. Nothing is persisted.
func (s *service) Preview(ctx context.Context, input PreviewInput) (*PreviewResult, error) {
	if input.Filename == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename required")
	}
	ok, err := s.repo.SupplierExists(ctx, input.SupplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check supplier")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier not found")
	}

	code, rows, err := ingest.ParseConfirmationWorkbook(ctx, input.File, input.Filename, input.SupplierID, s.brands)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check confirmation")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("a confirmation with code %q already exists", code))
	}

	token, err := s.staging.Stage(ctx, ingest.KindConfirmation, ingest.StagedConfirmation{
		ConfirmationCode: code,
		Name:             input.Filename,
		SupplierID:       input.SupplierID,
		Rows:             rows,
	})
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Token: token, ConfirmationCode: code, Rows: rows}, nil
}

// Create commits a staged confirmation upload: the confirmation row, its
// order links, the reconciled items, and the delivery schedule, all in one
// transaction.
func (s *service) Create(ctx context.Context, input CreateConfirmationInput) (*ConfirmationDetail, error) {
	confirmationDate, err := time.Parse(confirmationDateLayout, input.ConfirmationDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "confirmation date must be formatted YYYY-MM-DD")
	}
	if confirmationDate.After(endOfToday()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "confirmation date should be past")
	}

	ok, err := s.repo.SupplierExists(ctx, input.SupplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check supplier")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier not found")
	}

	taken, err := s.repo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check confirmation name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "there is a confirmation with such name")
	}

	var staged ingest.StagedConfirmation
	if err := s.staging.Load(ctx, ingest.KindConfirmation, input.StagingToken, &staged); err != nil {
		return nil, err
	}
	if staged.ConfirmationCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staged upload carries no confirmation code")
	}
	if staged.SupplierID != input.SupplierID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staged upload belongs to a different supplier")
	}

	exists, err := s.repo.Exists(ctx, staged.ConfirmationCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check confirmation")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "there is a confirmation with such code")
	}

	if missing, err := s.repo.MissingOrders(ctx, input.OrderIDs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check orders")
	} else if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("orders %v are not registered", missing))
	}

	confirmation := &models.Confirmation{
		ID:               staged.ConfirmationCode,
		Name:             input.Name,
		ConfirmationCode: staged.ConfirmationCode,
		ConfirmationDate: confirmationDate,
		SupplierID:       input.SupplierID,
		Comment:          input.Comment,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, confirmation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create confirmation")
		}
		if err := repo.ReplaceOrders(ctx, confirmation, input.OrderIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link orders")
		}
		if err := s.applyConfirmationItems(ctx, repo, confirmation.ID, input.OrderIDs, staged.Rows); err != nil {
			return err
		}
		if err := s.applyConfirmationDeliveries(ctx, repo, confirmation.ID, staged.Rows); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.AuditActionCreated,
			AggregateType: enums.AuditAggregateConfirmation,
			AggregateID:   confirmation.ID,
			Data: ConfirmationAuditEvent{
				ConfirmationID:   confirmation.ID,
				Name:             confirmation.Name,
				ConfirmationCode: confirmation.ConfirmationCode,
				SupplierID:       confirmation.SupplierID,
				ConfirmationDate: confirmation.ConfirmationDate.Format(confirmationDateLayout),
				OrderIDs:         input.OrderIDs,
				Comment:          confirmation.Comment,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.staging.Discard(ctx, ingest.KindConfirmation, input.StagingToken); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to discard staged confirmation: "+err.Error())
	}
	return s.Get(ctx, confirmation.ID)
}

func (s *service) List(ctx context.Context, params ListParams) (*ConfirmationList, error) {
	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	rows, next, err := s.repo.List(ctx, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list confirmations")
	}

	summaries := make([]ConfirmationSummary, 0, len(rows))
	for _, confirmation := range rows {
		summaries = append(summaries, ConfirmationSummary{
			ID:               confirmation.ID,
			Name:             confirmation.Name,
			ConfirmationCode: confirmation.ConfirmationCode,
			ConfirmationDate: confirmation.ConfirmationDate,
			SupplierID:       confirmation.SupplierID,
			Comment:          confirmation.Comment,
			TotalAmount:      confirmation.TotalAmount(),
		})
	}
	list := &ConfirmationList{Confirmations: summaries}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id string) (*ConfirmationDetail, error) {
	confirmation, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	detail := &ConfirmationDetail{Confirmation: *confirmation}
	for _, item := range confirmation.Items {
		if item.ClientID == models.UnknownClientID {
			detail.UnknownProducts = append(detail.UnknownProducts, item.ProductID)
		}
	}
	return detail, nil
}

// Update edits confirmation metadata. When the linked order set changes the
// items are rebuilt against the new orders: the existing items are re-read
// as confirmed rows, deleted, and reconciled again in the same transaction.
func (s *service) Update(ctx context.Context, id string, input UpdateConfirmationInput) (*ConfirmationDetail, error) {
	confirmation, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}

	var newOrderIDs []string
	rebuild := false
	if input.OrderIDs != nil {
		newOrderIDs = *input.OrderIDs
		if missing, err := s.repo.MissingOrders(ctx, newOrderIDs); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check orders")
		} else if len(missing) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("orders %v are not registered", missing))
		}
		rebuild = orderSetChanged(confirmation.Orders, newOrderIDs)
	}

	var rows []ingest.ConfirmationRow
	if rebuild {
		rows, err = s.rowsFromItems(ctx, confirmation.Items)
		if err != nil {
			return nil, err
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.Comment != nil {
			if err := repo.Update(ctx, id, map[string]any{"comment": input.Comment}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update confirmation")
			}
		}
		if rebuild {
			if err := repo.ReplaceOrders(ctx, &models.Confirmation{ID: id}, newOrderIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "relink orders")
			}
			if err := repo.DeleteItems(ctx, id); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear confirmation items")
			}
			if err := s.applyConfirmationItems(ctx, repo, id, newOrderIDs, rows); err != nil {
				return err
			}
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.AuditActionUpdated,
			AggregateType: enums.AuditAggregateConfirmation,
			AggregateID:   id,
			Data: ConfirmationAuditEvent{
				ConfirmationID: id,
				OrderIDs:       newOrderIDs,
				Comment:        input.Comment,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a confirmation with its items, deliveries and order links.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return mapLookupErr(err)
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete confirmation")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.AuditActionDeleted,
			AggregateType: enums.AuditAggregateConfirmation,
			AggregateID:   id,
			Data:          ConfirmationAuditEvent{ConfirmationID: id},
		})
	})
}

// rowsFromItems turns persisted items back into confirmed rows so the
// reconciliation can be re-run against a changed order set.
func (s *service) rowsFromItems(ctx context.Context, items []models.ConfirmationItem) ([]ingest.ConfirmationRow, error) {
	ids := make([]string, 0, len(items))
	seen := map[string]bool{}
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	names, err := s.repo.ProductNames(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product names")
	}
	rows := make([]ingest.ConfirmationRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, ingest.ConfirmationRow{
			Product:     item.ProductID,
			ProductName: names[item.ProductID],
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return rows, nil
}

func orderSetChanged(current []models.Order, next []string) bool {
	if len(current) != len(next) {
		return true
	}
	existing := make(map[string]bool, len(current))
	for _, order := range current {
		existing[order.ID] = true
	}
	for _, id := range next {
		if !existing[id] {
			return true
		}
	}
	return false
}

func endOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
}

func mapLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "confirmation not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load confirmation")
}
