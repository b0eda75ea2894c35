package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
)

const zeroPadWidth = 14

// ParseOrderWorkbook dispatches to the supplier-specific workbook profile and
// returns normalized order rows plus a trailing total row (empty product id).
func ParseOrderWorkbook(r io.Reader, filename, supplierID string) ([]OrderRow, error) {
	switch supplierID {
	case "T00016":
		return parseOrderT00016(r, filename)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("no order ingest profile for supplier %q", supplierID))
	}
}

// parseOrderT00016 reads the supplier's order sheet. The filename carries the
// client and brand as the second and third dash-separated tokens.
func parseOrderT00016(r io.Reader, filename string) ([]OrderRow, error) {
	client, err := filenameToken(filename, "-", 1)
	if err != nil {
		return nil, err
	}
	brand, err := filenameToken(filename, "-", 2)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open workbook")
	}
	defer f.Close()

	grid, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read sheet")
	}
	if len(grid) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no data rows")
	}

	header := make([]string, len(grid[0]))
	for i, cell := range grid[0] {
		header[i] = strings.ToLower(strings.TrimSpace(cell))
	}
	quantityIdx := indexOf(header, "quantity")
	if quantityIdx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity column not found")
	}
	noteIdx := indexOf(header, "note")
	// a third column before quantity is the secondary product id
	secondIDIdx := -1
	if quantityIdx == 2 {
		secondIDIdx = 1
	}

	type groupKey struct {
		product  string
		secondID string
		client   string
	}
	sums := map[groupKey]int{}
	keys := []groupKey{}

	for _, row := range grid[1:] {
		product := cellAt(row, 0)
		quantityRaw := cellAt(row, quantityIdx)
		if product == "" || quantityRaw == "" {
			continue
		}
		rowClient := client
		if noteIdx >= 0 {
			note := cellAt(row, noteIdx)
			if note == "" {
				continue
			}
			rowClient = strings.ToUpper(strings.ReplaceAll(note, ".", ""))
		}
		secondID := ""
		if secondIDIdx >= 0 {
			secondID = cellAt(row, secondIDIdx)
			if secondID == "" {
				continue
			}
		}

		quantity, err := parseQuantity(quantityRaw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
				fmt.Sprintf("invalid quantity %q", quantityRaw))
		}

		productID := strings.ReplaceAll(product, ".", "") + "_" + brand
		if brand == "B05" {
			productID = zeroPad(productID, zeroPadWidth)
		}
		if secondID == "" {
			secondID = productID
		} else {
			secondID = strings.ReplaceAll(secondID, ".", "") + "_" + brand
		}

		key := groupKey{product: productID, secondID: secondID, client: rowClient}
		if _, seen := sums[key]; !seen {
			keys = append(keys, key)
		}
		sums[key] += quantity
	}

	if len(keys) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no usable rows")
	}

	rows := make([]OrderRow, 0, len(keys)+1)
	total := 0
	for _, key := range keys {
		rows = append(rows, OrderRow{
			Product:  key.product,
			SecondID: key.secondID,
			Client:   key.client,
			Quantity: sums[key],
		})
		total += sums[key]
	}
	rows = append(rows, OrderRow{Quantity: total})
	return rows, nil
}

// filenameToken returns the idx-th separator token of the filename with its
// extension dropped, spaces and dots stripped, uppercased.
func filenameToken(filename, sep string, idx int) (string, error) {
	base := filename
	if dot := strings.LastIndex(base, "."); dot >= 0 {
		base = base[:dot]
	}
	parts := strings.Split(base, sep)
	if idx >= len(parts) {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("filename %q is missing token %d", filename, idx))
	}
	token := strings.ReplaceAll(parts[idx], " ", "")
	token = strings.ReplaceAll(token, ".", "")
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("filename %q has an empty token %d", filename, idx))
	}
	return strings.ToUpper(token), nil
}

func parseQuantity(raw string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

func zeroPad(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return strings.Repeat("0", width-len(value)) + value
}

func indexOf(cells []string, name string) int {
	for i, cell := range cells {
		if cell == name {
			return i
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
