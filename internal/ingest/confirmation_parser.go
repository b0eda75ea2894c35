package ingest

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
)

const confirmationCodeMarker = "Ihre Bestellnummer:"

// BrandResolver looks up a brand id by a (partial) brand name.
type BrandResolver interface {
	FindBrandIDByName(ctx context.Context, name string) (string, error)
}

// ParseConfirmationWorkbook dispatches to the supplier-specific confirmation
// profile. It returns the supplier-issued confirmation code and normalized
// rows plus a trailing total row (empty product id).
func ParseConfirmationWorkbook(ctx context.Context, r io.Reader, filename, supplierID string, brands BrandResolver) (string, []ConfirmationRow, error) {
	switch supplierID {
	case "T00016":
		return parseConfirmationT00016(ctx, r, filename, brands)
	default:
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("no confirmation ingest profile for supplier %q", supplierID))
	}
}

// parseConfirmationT00016 reads the supplier's German-language confirmation
// sheet. The brand name is the second space-separated filename token; the
// item table sits between the "Pos" header row and the first blank line.
func parseConfirmationT00016(ctx context.Context, r io.Reader, filename string, brands BrandResolver) (string, []ConfirmationRow, error) {
	parts := strings.Split(filename, " ")
	if len(parts) < 2 {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("filename %q is missing the brand token", filename))
	}
	brandID, err := brands.FindBrandIDByName(ctx, strings.TrimSpace(parts[1]))
	if err != nil {
		return "", nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open workbook")
	}
	defer f.Close()

	grid, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read sheet")
	}

	code := findNextValue(grid, confirmationCodeMarker)
	if code == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "confirmation code not found in workbook")
	}

	headerIdx := -1
	for i, row := range grid {
		if cellAt(row, 0) == "Pos" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "item table header not found")
	}

	header := grid[headerIdx]
	productIdx := indexOfCell(header, "Teilenummer")
	nameIdx := indexOfCell(header, "Bezeichnung")
	quantityIdx := indexOfCell(header, "Menge")
	priceIdx := indexOfCell(header, "Preise")
	deliveryIdx := indexOfCell(header, "Liefertermin")
	totalIdx := indexOfCell(header, "Betrag")
	if productIdx < 0 || quantityIdx < 0 {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "item table is missing required columns")
	}

	rows := []ConfirmationRow{}
	totalPrice := decimal.Zero
	for _, row := range grid[headerIdx+1:] {
		if cellAt(row, 0) == "" {
			break
		}
		product := cellAt(row, productIdx)
		if product == "" {
			continue
		}
		quantity, err := parseQuantity(cellAt(row, quantityIdx))
		if err != nil {
			return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
				fmt.Sprintf("invalid quantity for product %q", product))
		}
		price := parseAmount(cellAt(row, priceIdx))
		lineTotal := parseAmount(cellAt(row, totalIdx))
		totalPrice = totalPrice.Add(lineTotal)

		rows = append(rows, ConfirmationRow{
			Product:     strings.ReplaceAll(product, ".", "") + "_" + brandID,
			ProductName: cleanCell(cellAt(row, nameIdx)),
			Quantity:    quantity,
			Price:       price,
			DeliveryRaw: normalizeDeliveryDate(cellAt(row, deliveryIdx)),
			TotalPrice:  lineTotal,
		})
	}
	if len(rows) == 0 {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "item table has no rows")
	}

	rows = append(rows, ConfirmationRow{TotalPrice: totalPrice})
	return code, rows, nil
}

// findNextValue scans the grid for the marker cell and returns the cell to
// its right.
func findNextValue(grid [][]string, marker string) string {
	for _, row := range grid {
		for i, cell := range row {
			if strings.Contains(cell, marker) {
				return cellAt(row, i+1)
			}
		}
	}
	return ""
}

var deliveryDateLayouts = []string{
	"02.01.2006",
	"02.01.06",
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
}

// normalizeDeliveryDate converts a formatted sheet date into the
// epoch-millisecond string the reconciliation engine consumes. Cells that do
// not look like dates pass through untouched.
func normalizeDeliveryDate(raw string) string {
	if raw == "" || raw == "None" {
		return raw
	}
	for _, layout := range deliveryDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return strconv.FormatInt(t.UTC().UnixMilli(), 10)
		}
	}
	return raw
}

// parseAmount reads a decimal cell; unreadable or empty cells become zero.
func parseAmount(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer(" ", "", "€", "", ",", ".").Replace(cleanCell(raw))
	if cleaned == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// cleanCell drops the supplier's literal "unknown" placeholder.
func cleanCell(raw string) string {
	if strings.EqualFold(raw, "unknown") {
		return ""
	}
	return raw
}

func indexOfCell(cells []string, name string) int {
	for i, cell := range cells {
		if strings.TrimSpace(cell) == name {
			return i
		}
	}
	return -1
}
