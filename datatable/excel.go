package datatable

import (
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/reoring/gviz/codec"
)

// FromExcel reads a worksheet into a table. sheet "" selects the first sheet.
// Cells are typed the way FromArray infers them after TRUE/FALSE, numbers and
// date strings have been recognized; empty cells are null.
func FromExcel(path, sheet string, firstRowIsData bool) (*DataTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return fromWorkbook(f, sheet, firstRowIsData)
}

// FromExcelReader is FromExcel over a stream.
func FromExcelReader(r io.Reader, sheet string, firstRowIsData bool) (*DataTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()
	return fromWorkbook(f, sheet, firstRowIsData)
}

func fromWorkbook(f *excelize.File, sheet string, firstRowIsData bool) (*DataTable, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	// GetRows trims trailing empty cells; pad to the widest row
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	data := make([][]any, 0, len(rows))
	for i, r := range rows {
		out := make([]any, width)
		for j, s := range r {
			if i == 0 && !firstRowIsData {
				out[j] = s
				continue
			}
			out[j] = parseCell(s)
		}
		data = append(data, out)
	}
	return FromArray(data, firstRowIsData)
}

// parseCell recognizes booleans, numbers and dates in a formatted cell.
func parseCell(s string) any {
	if s == "" {
		return nil
	}
	switch strings.ToUpper(s) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if t, ok := codec.ParseDateCell(s); ok {
		return t
	}
	return s
}
