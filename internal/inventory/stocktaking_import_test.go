package inventory

import (
	"bytes"
	"strings"
	"testing"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func countSheet(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestNormalizeProductName(t *testing.T) {
	assert.Equal(t, "sutlu cikolata", normalizeProductName("SÜTLÜ ÇİKOLATA"))
	assert.Equal(t, "sut", normalizeProductName("Süt 1KG"))
	assert.Equal(t, "domates salcasi", normalizeProductName("Domates Salçası 500 gr"))
	assert.Equal(t, "un", normalizeProductName("  Un  "))
}

func TestParseSheetDecimal(t *testing.T) {
	d, err := parseSheetDecimal("1.234,5")
	require.NoError(t, err)
	assertDec(t, "1234.5", d)

	d, err = parseSheetDecimal("12.75")
	require.NoError(t, err)
	assertDec(t, "12.75", d)

	d, err = parseSheetDecimal("45 TL")
	require.NoError(t, err)
	assertDec(t, "45", d)

	_, err = parseSheetDecimal("on iki")
	assert.Error(t, err)
}

func TestParseCountSheet(t *testing.T) {
	buf := countSheet(t,
		[]any{"ÜRÜN ADI", "MİKTAR", "FİYAT"},
		[]any{"Un 25KG", "12,5", "4"},
		[]any{"", "", ""},
		[]any{"Süt", 3, ""},
	)

	rows, err := ParseCountSheet(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Un 25KG", rows[0].ProductName)
	assertDec(t, "12.5", rows[0].RealQuantity)
	assertDec(t, "4", rows[0].Price)

	assert.Equal(t, 4, rows[1].Line)
	assertDec(t, "3", rows[1].RealQuantity)
	assert.True(t, rows[1].Price.IsZero())
}

func TestParseCountSheet_Invalid(t *testing.T) {
	_, err := ParseCountSheet(strings.NewReader("excel değil"))
	requireCode(t, err, apperr.KindValidation, "invalid_sheet")

	_, err = ParseCountSheet(countSheet(t, []any{"Un", "bir çuval"}))
	requireCode(t, err, apperr.KindValidation, "invalid_sheet")

	_, err = ParseCountSheet(countSheet(t, []any{"ÜRÜN", "MİKTAR"}))
	requireCode(t, err, apperr.KindValidation, "invalid_sheet")
}

func TestMatchCountRows(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "Un", Cost: dec("4")},
		{ID: 2, Name: "Süt", Cost: dec("2")},
	}
	rows := []CountRow{
		{ProductName: "UN 25 KG", RealQuantity: dec("12"), Price: dec("3.5")},
		{ProductName: "SÜT 1LT", RealQuantity: dec("3")},
		{ProductName: "Yumurta", RealQuantity: dec("30")},
	}

	matched, unmatched := MatchCountRows(products, rows)
	require.Len(t, matched, 2)
	assert.Equal(t, uint(1), matched[0].ProductID)
	assertDec(t, "3.5", matched[0].Price)
	assert.Equal(t, uint(2), matched[1].ProductID)
	assertDec(t, "2", matched[1].Price)
	assert.Equal(t, []string{"Yumurta"}, unmatched)
}
