package confirmations

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
)

// Export renders the confirmation's items as an xlsx download, one row per
// (client, product) attribution plus a trailing total row.
func (s *service) Export(ctx context.Context, id string) (*ExportResult, error) {
	confirmation, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	if len(confirmation.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "confirmation has no items to export")
	}

	file := excelize.NewFile()
	defer file.Close()
	sheet := file.GetSheetName(0)

	header := []any{"Client", "Product", "Quantity", "Price", "Amount"}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write export header")
	}

	totalQuantity := 0
	totalAmount := decimal.Zero
	for i, item := range confirmation.Items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write export row")
		}
		row := []any{
			item.ClientID,
			item.ProductID,
			item.Quantity,
			item.Price.StringFixed(2),
			item.TotalAmount().StringFixed(2),
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write export row")
		}
		totalQuantity += item.Quantity
		totalAmount = totalAmount.Add(item.TotalAmount())
	}

	cell, err := excelize.CoordinatesToCellName(1, len(confirmation.Items)+2)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write export total")
	}
	total := []any{"Total", "", totalQuantity, "", totalAmount.StringFixed(2)}
	if err := file.SetSheetRow(sheet, cell, &total); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write export total")
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render export workbook")
	}
	return &ExportResult{
		Filename: fmt.Sprintf("confirmation_%s.xlsx", confirmation.ID),
		Content:  buf.Bytes(),
	}, nil
}
