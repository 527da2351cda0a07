package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
)

var categoryHeaders = []string{
	bulk.ColAction,
	bulk.ColCategoryID,
	bulk.ColCategoryName,
	bulk.ColParentID,
	bulk.ColParentName,
	bulk.ColSortOrder,
	bulk.ColIsVisible,
	bulk.ColHasTimeAvailability,
	bulk.ColAvailableFrom,
	bulk.ColAvailableTo,
}

var itemHeaders = []string{
	bulk.ColAction,
	bulk.ColItemID,
	bulk.ColItemName,
	bulk.ColDescription,
	bulk.ColCategoryName,
	"Category ID (Optional)",
	bulk.ColPrice,
	bulk.ColCurrency,
	bulk.ColSortOrder,
	bulk.ColIsAvailable,
	bulk.ColUseDayPricing,
}

var categoryExamples = [][]any{
	{"Create", "", "Root Category Example", "", "", 1, "TRUE", "FALSE", "", ""},
	{"Create", "", "Child Category Example", "", "Root Category Example", 2, "TRUE", "TRUE", "20:00", "03:00"},
}

var itemExamples = [][]any{
	{"Create", "", "Sample Item", "Describe the dish here", "Child Category Example (REQUIRED)", "", 75, "AED", 1, "TRUE", "FALSE"},
	{"Update", "EXISTING_ITEM_ID_FOR_UPDATE", "", "", "ORIGINAL CATEGORY NAME", "NUMERIC_ID_IF_KNOWN", "", "", "", "", ""},
}

// WriteTemplate writes the bulk upload template: a Categories and an Items
// sheet, each with a styled header row and two example rows.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", CategorySheets[0]); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, CategorySheets[0], categoryHeaders, categoryExamples, headerStyle); err != nil {
		return err
	}
	if _, err := f.NewSheet(ItemSheets[0]); err != nil {
		return fmt.Errorf("create items sheet: %w", err)
	}
	if err := writeSheet(f, ItemSheets[0], itemHeaders, itemExamples, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, examples [][]any, style int) error {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
		return fmt.Errorf("size %s columns: %w", sheet, err)
	}

	for i, ex := range examples {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &ex); err != nil {
			return fmt.Errorf("write %s example: %w", sheet, err)
		}
	}
	return nil
}
