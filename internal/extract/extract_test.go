package extract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestText_UnsupportedExtensionYieldsEmpty(t *testing.T) {
	assert.Empty(t, Text([]byte("plain text"), ".txt"))
	assert.Empty(t, Text([]byte{0x89, 0x50, 0x4e, 0x47}, ".png"))
	assert.Empty(t, Text([]byte("x"), ""))
}

func TestText_CorruptInputYieldsEmpty(t *testing.T) {
	assert.Empty(t, Text([]byte("not a real pdf"), ".pdf"))
	assert.Empty(t, Text([]byte("not a real workbook"), ".xlsx"))
	assert.Empty(t, Text(nil, ".pdf"))
}

func TestText_SpreadsheetCellsAreJoined(t *testing.T) {
	workbook := excelize.NewFile()
	require.NoError(t, workbook.SetCellValue("Sheet1", "A1", "budget"))
	require.NoError(t, workbook.SetCellValue("Sheet1", "B1", "  2026  "))
	require.NoError(t, workbook.SetCellValue("Sheet1", "A3", "approved"))

	var buf bytes.Buffer
	require.NoError(t, workbook.Write(&buf))

	got := Text(buf.Bytes(), ".xlsx")
	assert.Equal(t, "budget 2026 approved", got)
}

func TestText_ExtensionCaseAndDotInsensitive(t *testing.T) {
	workbook := excelize.NewFile()
	require.NoError(t, workbook.SetCellValue("Sheet1", "A1", "hello"))

	var buf bytes.Buffer
	require.NoError(t, workbook.Write(&buf))

	assert.Equal(t, "hello", Text(buf.Bytes(), "XLSX"))
	assert.Equal(t, "hello", Text(buf.Bytes(), ".XlSx"))
}
