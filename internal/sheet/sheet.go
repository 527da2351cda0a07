// Package sheet converts between xlsx workbooks and bulk rows.
package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// Sheet names, most preferred first.
var (
	CategorySheets = []string{"Categories", "Category", "Sheet1"}
	ItemSheets     = []string{"Items", "Sheet2"}
)

// headerAliases maps template header variants onto engine columns.
var headerAliases = map[string]string{
	"Category ID (Optional)": bulk.ColCategoryID,
}

// Workbook holds the decoded rows of both sheets. A missing sheet leaves its
// slice nil.
type Workbook struct {
	Categories []bulk.Row
	Items      []bulk.Row
}

// Decode reads an xlsx workbook. The first row of each sheet is the header and
// data rows are numbered as in the spreadsheet, starting at 2.
func Decode(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("open workbook: %v", err))
	}
	defer f.Close()

	present := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		present[name] = true
	}

	wb := &Workbook{}
	found := false
	if name := pick(present, CategorySheets); name != "" {
		if wb.Categories, err = readRows(f, name); err != nil {
			return nil, err
		}
		found = true
	}
	if name := pick(present, ItemSheets); name != "" {
		if wb.Items, err = readRows(f, name); err != nil {
			return nil, err
		}
		found = true
	}
	if !found {
		return nil, apperrors.InvalidInput("workbook has neither a Categories nor an Items sheet")
	}
	return wb, nil
}

func pick(present map[string]bool, names []string) string {
	for _, n := range names {
		if present[n] {
			return n
		}
	}
	return ""
}

func readRows(f *excelize.File, sheet string) ([]bulk.Row, error) {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(raw) == 0 {
		return []bulk.Row{}, nil
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		h = strings.TrimSpace(h)
		if alias, ok := headerAliases[h]; ok {
			h = alias
		}
		headers[i] = h
	}

	rows := make([]bulk.Row, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		values := make(map[string]any, len(headers))
		for col, v := range cells {
			if col >= len(headers) || headers[col] == "" || v == "" {
				continue
			}
			values[headers[col]] = v
		}
		rows = append(rows, bulk.Row{Number: i + 2, Values: values})
	}
	return rows, nil
}
