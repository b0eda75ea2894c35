package ingest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestParseOrderWorkbookGroupsAndTotals(t *testing.T) {
	reader := buildWorkbook(t, [][]any{
		{"Product ID", "Quantity"},
		{"123.45", 5},
		{"123.45", 3},
		{"678", 2},
	})

	rows, err := ParseOrderWorkbook(reader, "ORD1-C01-B02.xlsx", "T00016")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, OrderRow{Product: "12345_B02", SecondID: "12345_B02", Client: "C01", Quantity: 8}, rows[0])
	require.Equal(t, OrderRow{Product: "678_B02", SecondID: "678_B02", Client: "C01", Quantity: 2}, rows[1])

	total := rows[len(rows)-1]
	require.Empty(t, total.Product)
	require.Equal(t, 10, total.Quantity)
}

func TestParseOrderWorkbookNoteColumnOverridesClient(t *testing.T) {
	reader := buildWorkbook(t, [][]any{
		{"Product", "Second ID", "Quantity", "Note"},
		{"111", "A11", 4, "c.77"},
		{"222", "A22", 6, "C88"},
	})

	rows, err := ParseOrderWorkbook(reader, "ORD2-C01-B02.xlsx", "T00016")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "C77", rows[0].Client)
	require.Equal(t, "A11_B02", rows[0].SecondID)
	require.Equal(t, "C88", rows[1].Client)
}

func TestParseOrderWorkbookZeroPadsB05Products(t *testing.T) {
	reader := buildWorkbook(t, [][]any{
		{"Product", "Quantity"},
		{"123456789", 1},
	})

	rows, err := ParseOrderWorkbook(reader, "ORD3-C01-B05.xlsx", "T00016")
	require.NoError(t, err)
	require.Equal(t, "0123456789_B05", rows[0].Product)
}

func TestParseOrderWorkbookSkipsIncompleteRows(t *testing.T) {
	reader := buildWorkbook(t, [][]any{
		{"Product", "Quantity"},
		{"111", 4},
		{"", 9},
		{"222", nil},
	})

	rows, err := ParseOrderWorkbook(reader, "ORD4-C01-B02.xlsx", "T00016")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "111_B02", rows[0].Product)
	require.Equal(t, 4, rows[1].Quantity)
}

func TestParseOrderWorkbookUnknownSupplier(t *testing.T) {
	reader := buildWorkbook(t, [][]any{
		{"Product", "Quantity"},
		{"111", 4},
	})

	_, err := ParseOrderWorkbook(reader, "ORD5-C01-B02.xlsx", "T99999")
	require.Error(t, err)
}
