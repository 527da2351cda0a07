package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

func TestTemplateRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	wb, err := Decode(&buf)
	require.NoError(t, err)

	require.Len(t, wb.Categories, 2)
	child := wb.Categories[1]
	assert.Equal(t, 3, child.Number)
	assert.Equal(t, "Child Category Example", child.Get(bulk.ColCategoryName))
	assert.Equal(t, "Root Category Example", child.Get(bulk.ColParentName))
	assert.Equal(t, "20:00", child.Get(bulk.ColAvailableFrom))
	assert.Equal(t, 2, bulk.ParseInt(child.Get(bulk.ColSortOrder), 0))
	assert.True(t, bulk.ParseBool(child.Get(bulk.ColHasTimeAvailability), false))

	require.Len(t, wb.Items, 2)
	assert.Equal(t, "Sample Item", wb.Items[0].Get(bulk.ColItemName))
	assert.Nil(t, wb.Items[0].Get(bulk.ColItemID))
	assert.Equal(t, "NUMERIC_ID_IF_KNOWN", wb.Items[1].Get(bulk.ColCategoryID))
	price := bulk.ParseNumber(wb.Items[0].Get(bulk.ColPrice))
	require.NotNil(t, price)
	assert.Equal(t, 75.0, *price)
}

func TestDecode_FallbackSheetNamesAndBlankRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Sheet2")
	require.NoError(t, err)

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Action", "Category Name", "", "Sort Order"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Create", "Drinks", "ignored", 4}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"Delete", "Food"}))
	require.NoError(t, f.SetSheetRow("Sheet2", "A1", &[]any{"Item Name", "Category ID (Optional)"}))
	require.NoError(t, f.SetSheetRow("Sheet2", "A2", &[]any{"Tea", 12}))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	wb, err := Decode(&buf)
	require.NoError(t, err)

	require.Len(t, wb.Categories, 3)
	assert.Equal(t, map[string]any{"Action": "Create", "Category Name": "Drinks", "Sort Order": "4"}, wb.Categories[0].Values)
	assert.True(t, wb.Categories[1].Empty())
	assert.Equal(t, 3, wb.Categories[1].Number)
	assert.Equal(t, 4, wb.Categories[2].Number)
	assert.Equal(t, "Food", wb.Categories[2].Get(bulk.ColCategoryName))

	require.Len(t, wb.Items, 1)
	id, ok := bulk.ParseID(wb.Items[0].Get(bulk.ColCategoryID))
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode(strings.NewReader("not a workbook"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Notes"))
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	_, err = Decode(&buf)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
