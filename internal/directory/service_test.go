package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
)

func newDirectoryService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupDirectoryTestDB(t)))
	require.NoError(t, err)
	return svc
}

func TestCreateClientRejectsDuplicates(t *testing.T) {
	svc := newDirectoryService(t)
	ctx := context.Background()

	created, err := svc.CreateClient(ctx, ClientInput{ID: "C01", Name: "First"})
	require.NoError(t, err)
	require.Equal(t, "C01", created.ID)

	_, err = svc.CreateClient(ctx, ClientInput{ID: "C01", Name: "Again"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestUpdateClientEditsOnlyProvidedFields(t *testing.T) {
	svc := newDirectoryService(t)
	ctx := context.Background()

	_, err := svc.CreateClient(ctx, ClientInput{ID: "C01", Name: "First"})
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.UpdateClient(ctx, "C01", UpdateInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Nil(t, updated.Comment)
}

func TestDeleteClientGuardsSentinel(t *testing.T) {
	svc := newDirectoryService(t)
	ctx := context.Background()

	err := svc.DeleteClient(ctx, models.UnknownClientID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	err = svc.DeleteClient(ctx, "C99")
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestCreateSupplierValidatesBrands(t *testing.T) {
	svc := newDirectoryService(t)
	ctx := context.Background()

	_, err := svc.CreateSupplier(ctx, SupplierInput{ID: "T00016", Name: "Supplier", BrandIDs: []string{"B01"}})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	_, err = svc.CreateBrand(ctx, BrandInput{ID: "B01", Name: "Brand"})
	require.NoError(t, err)

	supplier, err := svc.CreateSupplier(ctx, SupplierInput{ID: "T00016", Name: "Supplier", BrandIDs: []string{"B01"}})
	require.NoError(t, err)
	require.Len(t, supplier.Brands, 1)
}

func TestCreateProductRequiresBrand(t *testing.T) {
	svc := newDirectoryService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, ProductInput{ID: "111_B01", Name: "Widget", BrandID: "B01"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	_, err = svc.CreateBrand(ctx, BrandInput{ID: "B01", Name: "Brand"})
	require.NoError(t, err)

	product, err := svc.CreateProduct(ctx, ProductInput{ID: "111_B01", Name: "Widget", BrandID: "B01"})
	require.NoError(t, err)
	require.Equal(t, "Valid", string(product.State))

	summaries, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Nil(t, summaries[0].CurrentPrice)
}
