// Package extract turns stored blobs into indexable text. Extraction is a
// pure function of (bytes, declared extension); unsupported, corrupt, or
// unreadable content yields an empty string so metadata-only indexing is
// never blocked.
package extract

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// Text extracts the searchable content of a blob. PDF input yields the
// embedded text layer; spreadsheet input yields every cell value across
// every sheet, space-joined and trimmed. Anything else yields "". No OCR,
// no binary sniffing.
func Text(data []byte, ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return pdfText(data)
	case "xlsx", "xlsm", "xls":
		return sheetText(data)
	default:
		return ""
	}
}

func pdfText(data []byte) (text string) {
	// The pdf parser panics on some malformed inputs.
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return ""
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return ""
	}

	return strings.TrimSpace(sb.String())
}

func sheetText(data []byte) string {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	defer workbook.Close()

	var cells []string
	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, cell := range row {
				if trimmed := strings.TrimSpace(cell); trimmed != "" {
					cells = append(cells, trimmed)
				}
			}
		}
	}

	return strings.Join(cells, " ")
}
