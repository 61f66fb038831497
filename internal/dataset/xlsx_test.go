package dataset

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Notes"))
	require.NoError(t, f.SetCellValue("Notes", "A1", "ignore me"))
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	rows := [][]any{
		{"Group", "Score", "Harvest"},
		{"A", 10.5, "2024-08-10"},
		{"B", 9, "2024-08-12"},
		{"A", 11, "2024-08-15"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Data", cell, &row))
	}
	p := filepath.Join(t.TempDir(), "harvest.xlsx")
	require.NoError(t, f.SaveAs(p))
	return p
}

func TestLoadXLSXBySheetName(t *testing.T) {
	p := writeWorkbook(t)
	tbl, err := Load(context.Background(), p, LoadOptions{SheetName: "data"})
	require.NoError(t, err)
	assert.Equal(t, "harvest", tbl.Name)
	assert.Equal(t, []string{"Group", "Score", "Harvest"}, tbl.ColumnNames())

	score, _ := tbl.Column("Score")
	assert.Equal(t, KindNumeric, Classify(score))
	assert.Equal(t, []float64{10.5, 9, 11}, Floats(score))
	harvest, _ := tbl.Column("Harvest")
	assert.Equal(t, KindDatetime, Classify(harvest))
}

func TestLoadXLSXByIndex(t *testing.T) {
	p := writeWorkbook(t)
	tbl, err := Load(context.Background(), p, LoadOptions{SheetIndex: 2, MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestLoadXLSXMissingSheet(t *testing.T) {
	p := writeWorkbook(t)
	_, err := Load(context.Background(), p, LoadOptions{SheetName: "Summary"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Notes, Data")

	_, err = Load(context.Background(), p, LoadOptions{SheetIndex: 5})
	assert.Error(t, err)
}
