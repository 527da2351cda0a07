package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/internal/event"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

func TestCreateCategory_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.menu.CreateCategory(ctx, domain.VenueMosaico, domain.CategoryInput{
		Name:          "Breakfast",
		IsVisible:     true,
		AvailableFrom: strPtr("07:00"),
	})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, domain.VenueMosaico, c.Venue)
	assert.Nil(t, c.AvailableFrom, "time window dropped without time availability")

	require.Len(t, f.publisher.topics, 1)
	assert.Equal(t, event.TopicCategoryCreated, f.publisher.topics[0])
	assert.Equal(t, "mosaico", f.publisher.events[0].Venue)
}

func TestCreateCategory_BlankName(t *testing.T) {
	f := newFixture()

	_, err := f.menu.CreateCategory(context.Background(), domain.VenueMosaico, domain.CategoryInput{Name: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Empty(t, f.publisher.topics)
}

func TestCreateCategory_ParentMustExistInVenue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	other, err := f.menu.CreateCategory(ctx, domain.VenueHikayat, domain.CategoryInput{Name: "Drinks"})
	require.NoError(t, err)

	_, err = f.menu.CreateCategory(ctx, domain.VenueMosaico, domain.CategoryInput{Name: "Hot", ParentID: &other.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "parent category")
}

func TestUpdateCategory_SelfParent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.menu.CreateCategory(ctx, domain.VenueMosaico, domain.CategoryInput{Name: "Drinks"})
	require.NoError(t, err)

	_, err = f.menu.UpdateCategory(ctx, domain.VenueMosaico, c.ID, domain.CategoryInput{Name: "Drinks", ParentID: &c.ID})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateCategory_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.menu.UpdateCategory(context.Background(), domain.VenueMosaico, 42, domain.CategoryInput{Name: "Drinks"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCategoryTree(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	root, err := f.menu.CreateCategory(ctx, domain.VenueMosaico, domain.CategoryInput{Name: "Drinks"})
	require.NoError(t, err)
	_, err = f.menu.CreateCategory(ctx, domain.VenueMosaico, domain.CategoryInput{Name: "Hot", ParentID: &root.ID})
	require.NoError(t, err)

	tree, err := f.menu.CategoryTree(ctx, domain.VenueMosaico)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Hot", tree[0].Children[0].Name)
}

func TestDeleteCategory_PublishesAndCascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.menu.CreateCategory(ctx, domain.VenueMosaico, domain.CategoryInput{Name: "Drinks"})
	require.NoError(t, err)
	it, err := f.menu.CreateItem(ctx, domain.VenueMosaico, domain.ItemInput{CategoryID: c.ID, Name: "Tea"})
	require.NoError(t, err)

	require.NoError(t, f.menu.DeleteCategory(ctx, domain.VenueMosaico, c.ID))

	_, err = f.menu.GetItem(ctx, domain.VenueMosaico, it.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, event.TopicCategoryDeleted, f.publisher.topics[len(f.publisher.topics)-1])
}

func TestCreateItem_DefaultsCurrency(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.menu.CreateCategory(ctx, domain.VenueMosaico, domain.CategoryInput{Name: "Drinks"})
	require.NoError(t, err)

	it, err := f.menu.CreateItem(ctx, domain.VenueMosaico, domain.ItemInput{CategoryID: c.ID, Name: "Tea"})
	require.NoError(t, err)
	assert.Equal(t, "AED", it.CurrencySymbol)
	assert.Equal(t, event.TopicItemCreated, f.publisher.topics[len(f.publisher.topics)-1])
}

func TestCreateItem_UnknownCategory(t *testing.T) {
	f := newFixture()

	_, err := f.menu.CreateItem(context.Background(), domain.VenueMosaico, domain.ItemInput{CategoryID: 9, Name: "Tea"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "category 9 not found")
}

func TestCreateItem_NegativePrice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.menu.CreateCategory(ctx, domain.VenueMosaico, domain.CategoryInput{Name: "Drinks"})
	require.NoError(t, err)
	price := -1.0

	_, err = f.menu.CreateItem(ctx, domain.VenueMosaico, domain.ItemInput{CategoryID: c.ID, Name: "Tea", Price: &price})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestWrites_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker down")

	c, err := f.menu.CreateCategory(context.Background(), domain.VenueMosaico, domain.CategoryInput{Name: "Drinks"})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
}

func TestListItems_FiltersByCategory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.menu.CreateCategory(ctx, domain.VenueMosaico, domain.CategoryInput{Name: "Drinks"})
	require.NoError(t, err)
	b, err := f.menu.CreateCategory(ctx, domain.VenueMosaico, domain.CategoryInput{Name: "Food"})
	require.NoError(t, err)
	for _, in := range []domain.ItemInput{
		{CategoryID: a.ID, Name: "Tea"},
		{CategoryID: a.ID, Name: "Coffee"},
		{CategoryID: b.ID, Name: "Toast"},
	} {
		_, err := f.menu.CreateItem(ctx, domain.VenueMosaico, in)
		require.NoError(t, err)
	}

	items, total, err := f.menu.ListItems(ctx, domain.VenueMosaico, domain.ItemFilter{CategoryID: &a.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)
}
