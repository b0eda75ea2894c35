package directory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	"github.com/ordertrack/ordertrack-backend/pkg/enums"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
)

type service struct {
	repo Repository
}

// NewService builds the directory service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	return clients, nil
}

func (s *service) CreateClient(ctx context.Context, input ClientInput) (*models.Client, error) {
	if err := s.ensureAbsent(ctx, "client", input.ID, func() error {
		_, err := s.repo.FindClient(ctx, input.ID)
		return err
	}); err != nil {
		return nil, err
	}
	client := &models.Client{ID: input.ID, Name: input.Name, Comment: input.Comment}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client")
	}
	return client, nil
}

func (s *service) UpdateClient(ctx context.Context, id string, input UpdateInput) (*models.Client, error) {
	if _, err := s.repo.FindClient(ctx, id); err != nil {
		return nil, mapLookupErr(err, "client")
	}
	updates := simpleUpdates(input)
	if len(updates) > 0 {
		if err := s.repo.UpdateClient(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client")
		}
	}
	client, err := s.repo.FindClient(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "client")
	}
	return client, nil
}

func (s *service) DeleteClient(ctx context.Context, id string) error {
	if id == models.UnknownClientID {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "the sentinel client cannot be deleted")
	}
	if _, err := s.repo.FindClient(ctx, id); err != nil {
		return mapLookupErr(err, "client")
	}
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete client")
	}
	return nil
}

func (s *service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return brands, nil
}

func (s *service) CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error) {
	if err := s.ensureAbsent(ctx, "brand", input.ID, func() error {
		_, err := s.repo.FindBrand(ctx, input.ID)
		return err
	}); err != nil {
		return nil, err
	}
	brand := &models.Brand{ID: input.ID, Name: input.Name, Comment: input.Comment}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create brand")
	}
	return brand, nil
}

func (s *service) UpdateBrand(ctx context.Context, id string, input UpdateInput) (*models.Brand, error) {
	if _, err := s.repo.FindBrand(ctx, id); err != nil {
		return nil, mapLookupErr(err, "brand")
	}
	updates := simpleUpdates(input)
	if len(updates) > 0 {
		if err := s.repo.UpdateBrand(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update brand")
		}
	}
	brand, err := s.repo.FindBrand(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "brand")
	}
	return brand, nil
}

func (s *service) DeleteBrand(ctx context.Context, id string) error {
	if _, err := s.repo.FindBrand(ctx, id); err != nil {
		return mapLookupErr(err, "brand")
	}
	if err := s.repo.DeleteBrand(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete brand")
	}
	return nil
}

func (s *service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}
	return suppliers, nil
}

func (s *service) CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	if err := s.ensureAbsent(ctx, "supplier", input.ID, func() error {
		_, err := s.repo.FindSupplier(ctx, input.ID)
		return err
	}); err != nil {
		return nil, err
	}
	if err := s.ensureBrandsExist(ctx, input.BrandIDs); err != nil {
		return nil, err
	}
	supplier := &models.Supplier{ID: input.ID, Name: input.Name, Comment: input.Comment}
	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
	}
	if len(input.BrandIDs) > 0 {
		if err := s.repo.ReplaceSupplierBrands(ctx, supplier, input.BrandIDs); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link supplier brands")
		}
	}
	return s.repo.FindSupplier(ctx, supplier.ID)
}

func (s *service) UpdateSupplier(ctx context.Context, id string, input SupplierUpdateInput) (*models.Supplier, error) {
	supplier, err := s.repo.FindSupplier(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "supplier")
	}
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Comment != nil {
		updates["comment"] = input.Comment
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateSupplier(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supplier")
		}
	}
	if input.BrandIDs != nil {
		if err := s.ensureBrandsExist(ctx, *input.BrandIDs); err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceSupplierBrands(ctx, supplier, *input.BrandIDs); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link supplier brands")
		}
	}
	return s.repo.FindSupplier(ctx, id)
}

func (s *service) DeleteSupplier(ctx context.Context, id string) error {
	if _, err := s.repo.FindSupplier(ctx, id); err != nil {
		return mapLookupErr(err, "supplier")
	}
	if err := s.repo.DeleteSupplier(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete supplier")
	}
	return nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	prices, err := s.repo.ListCurrentPrices(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product prices")
	}
	summaries := make([]ProductSummary, 0, len(products))
	for _, product := range products {
		summary := ProductSummary{Product: product}
		if price, ok := prices[product.ID]; ok {
			p := price
			summary.CurrentPrice = &p
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := s.ensureAbsent(ctx, "product", input.ID, func() error {
		_, err := s.repo.FindProduct(ctx, input.ID)
		return err
	}); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindBrand(ctx, input.BrandID); err != nil {
		return nil, mapLookupErr(err, "brand")
	}
	state := input.State
	if state == "" {
		state = enums.ProductStateValid
	}
	product := &models.Product{
		ID:          input.ID,
		SecondID:    input.SecondID,
		Name:        input.Name,
		Description: input.Description,
		BrandID:     input.BrandID,
		State:       state,
		Comment:     input.Comment,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, input ProductUpdateInput) (*models.Product, error) {
	if _, err := s.repo.FindProduct(ctx, id); err != nil {
		return nil, mapLookupErr(err, "product")
	}
	updates := map[string]any{}
	if input.SecondID != nil {
		updates["second_id"] = *input.SecondID
	}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = input.Description
	}
	if input.BrandID != nil {
		if _, err := s.repo.FindBrand(ctx, *input.BrandID); err != nil {
			return nil, mapLookupErr(err, "brand")
		}
		updates["brand_id"] = *input.BrandID
	}
	if input.State != nil {
		updates["state"] = *input.State
	}
	if input.Comment != nil {
		updates["comment"] = input.Comment
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
	}
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "product")
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.repo.FindProduct(ctx, id); err != nil {
		return mapLookupErr(err, "product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// ensureAbsent rejects creates whose id already exists.
func (s *service) ensureAbsent(_ context.Context, what, id string, find func() error) error {
	err := find()
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s %q already exists", what, id))
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check "+what)
}

func (s *service) ensureBrandsExist(ctx context.Context, brandIDs []string) error {
	for _, id := range brandIDs {
		if _, err := s.repo.FindBrand(ctx, id); err != nil {
			return mapLookupErr(err, "brand")
		}
	}
	return nil
}

func simpleUpdates(input UpdateInput) map[string]any {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Comment != nil {
		updates["comment"] = input.Comment
	}
	return updates
}

func mapLookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, what+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+what)
}
