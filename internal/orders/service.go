package orders

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

const orderDateLayout = "2006-01-02"

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
	logg    *logger.Logger
}

// OrderAuditEvent is the payload recorded for order mutations.
type OrderAuditEvent struct {
	OrderID       string  `json:"order_id"`
	Name          string  `json:"name"`
	SupplierID    string  `json:"supplier_id"`
	OrderDate     string  `json:"order_date"`
	TotalQuantity int     `json:"total_quantity"`
	Comment       *string `json:"comment,omitempty"`
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, tx txRunner, staging stagingStore, emitter outboxEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
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
	return &service{repo: repo, tx: tx, staging: staging, outbox: emitter, logg: logg}, nil
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

	rows, err := ingest.ParseOrderWorkbook(input.File, input.Filename, input.SupplierID)
	if err != nil {
		return nil, err
	}

	orderID := models.OrderNameToID(input.Filename)
	exists, err := s.repo.Exists(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("an order with id %q already exists", orderID))
	}

	token, err := s.staging.Stage(ctx, ingest.KindOrder, ingest.StagedOrder{
		OrderID:    orderID,
		OrderName:  input.Filename,
		SupplierID: input.SupplierID,
		Rows:       rows,
	})
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Token: token, OrderID: orderID, Rows: rows}, nil
}

// Create commits a staged order upload: the order row plus one item per
// normalized line, with unseen products registered on the fly.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDetail, error) {
	orderDate, err := time.Parse(orderDateLayout, input.OrderDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order date must be formatted YYYY-MM-DD")
	}
	if orderDate.After(endOfToday()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order date should be past")
	}

	ok, err := s.repo.SupplierExists(ctx, input.SupplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check supplier")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier not found")
	}

	orderID := models.OrderNameToID(input.Name)
	exists, err := s.repo.Exists(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "there is an order with such name")
	}

	var staged ingest.StagedOrder
	if err := s.staging.Load(ctx, ingest.KindOrder, input.StagingToken, &staged); err != nil {
		return nil, err
	}
	if staged.SupplierID != input.SupplierID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staged upload belongs to a different supplier")
	}

	lines := filterOrderRows(staged.Rows)
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staged upload has no order lines")
	}
	if missing, err := s.missingClients(ctx, lines); err != nil {
		return nil, err
	} else if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("clients %v are not registered", missing))
	}

	order := &models.Order{
		ID:         orderID,
		Name:       input.Name,
		OrderDate:  orderDate,
		SupplierID: input.SupplierID,
		Comment:    input.Comment,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		items := make([]models.OrderItem, 0, len(lines))
		total := 0
		for _, row := range lines {
			secondID := secondIDOrNil(row)
			if err := repo.GetOrCreateProduct(ctx, row.Product, secondID, models.BrandIDFromProductID(row.Product)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register product")
			}
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ClientID:  row.Client,
				ProductID: row.Product,
				Quantity:  row.Quantity,
			})
			total += row.Quantity
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.AuditActionCreated,
			AggregateType: enums.AuditAggregateOrder,
			AggregateID:   order.ID,
			Data: OrderAuditEvent{
				OrderID:       order.ID,
				Name:          order.Name,
				SupplierID:    order.SupplierID,
				OrderDate:     order.OrderDate.Format(orderDateLayout),
				TotalQuantity: total,
				Comment:       order.Comment,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.staging.Discard(ctx, ingest.KindOrder, input.StagingToken); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to discard staged order: "+err.Error())
	}
	return s.Get(ctx, order.ID)
}

func (s *service) List(ctx context.Context, params ListParams) (*OrderList, error) {
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	summaries := make([]OrderSummary, 0, len(rows))
	for _, order := range rows {
		summaries = append(summaries, OrderSummary{
			ID:            order.ID,
			Name:          order.Name,
			OrderDate:     order.OrderDate,
			SupplierID:    order.SupplierID,
			Comment:       order.Comment,
			TotalQuantity: order.TotalQuantity(),
		})
	}
	list := &OrderList{Orders: summaries}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id string) (*OrderDetail, error) {
	order, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	count, err := s.repo.CountConfirmations(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count confirmations")
	}
	return &OrderDetail{Order: *order, HasConfirmations: count > 0}, nil
}

// Update edits order metadata. Items may only be replaced while no
// confirmation references the order.
func (s *service) Update(ctx context.Context, id string, input UpdateOrderInput) (*OrderDetail, error) {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return nil, mapLookupErr(err)
	}

	if input.Items != nil {
		count, err := s.repo.CountConfirmations(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count confirmations")
		}
		if count > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				"order items cannot be edited once confirmations exist")
		}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.Comment != nil {
			if err := repo.Update(ctx, id, map[string]any{"comment": input.Comment}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
			}
		}
		if input.Items != nil {
			if err := repo.DeleteItems(ctx, id); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear order items")
			}
			items := make([]models.OrderItem, 0, len(*input.Items))
			for _, item := range *input.Items {
				items = append(items, models.OrderItem{
					OrderID:   id,
					ClientID:  item.ClientID,
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
				})
			}
			if err := repo.CreateItems(ctx, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order items")
			}
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.AuditActionUpdated,
			AggregateType: enums.AuditAggregateOrder,
			AggregateID:   id,
			Data:          OrderAuditEvent{OrderID: id},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an order unless a confirmation references it.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return mapLookupErr(err)
	}
	count, err := s.repo.CountConfirmations(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count confirmations")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot delete order %s, as it has confirmations", id))
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.AuditActionDeleted,
			AggregateType: enums.AuditAggregateOrder,
			AggregateID:   id,
			Data:          OrderAuditEvent{OrderID: id},
		})
	})
}

func (s *service) missingClients(ctx context.Context, rows []ingest.OrderRow) ([]string, error) {
	seen := map[string]bool{}
	ids := []string{}
	for _, row := range rows {
		if !seen[row.Client] {
			seen[row.Client] = true
			ids = append(ids, row.Client)
		}
	}
	missing, err := s.repo.MissingClients(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check clients")
	}
	return missing, nil
}

// filterOrderRows drops the synthetic total row and any stray blanks.
func filterOrderRows(rows []ingest.OrderRow) []ingest.OrderRow {
	filtered := make([]ingest.OrderRow, 0, len(rows))
	for _, row := range rows {
		if row.Product == "" {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

func secondIDOrNil(row ingest.OrderRow) *string {
	if row.SecondID == "" || row.SecondID == row.Product {
		return nil
	}
	second := row.SecondID
	return &second
}

func endOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
}

func mapLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}
