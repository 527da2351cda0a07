package bulk

import (
	"context"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
)

func (e *Engine) reconcileCategory(ctx context.Context, r Row, action Action, s *Summary) []error {
	var id int64
	if action != ActionCreate {
		target, err := e.resolveTarget(r, action, ColCategoryID, "Category", e.categoryExists)
		if err != nil {
			return []error{err}
		}
		id = target
	}

	if action == ActionDelete {
		if err := e.ports.Categories.DeleteCategory(ctx, id); err != nil {
			return []error{&RemoteError{Op: "Delete category", Err: err}}
		}
		s.Deleted++
		e.categories.Evict(id)
		e.evictItemsOf(id)
		return nil
	}

	in, err := e.categoryInput(r)
	if err != nil {
		return []error{err}
	}

	var (
		saved *domain.Category
		op    = "Create category"
	)
	if action == ActionUpdate {
		op = "Update category"
		saved, err = e.ports.Categories.UpdateCategory(ctx, id, in)
	} else {
		saved, err = e.ports.Categories.CreateCategory(ctx, in)
	}
	if err == nil && saved == nil {
		err = errEmptyResponse
	}
	if err != nil {
		return []error{&RemoteError{Op: op, Err: err}}
	}
	if action == ActionUpdate {
		s.Updated++
	} else {
		s.Created++
	}
	e.categories.Put(*saved)

	return e.cascade(ctx, translationSource{kind: domain.KindCategory, id: saved.ID, name: saved.Name, row: r})
}

func (e *Engine) categoryExists(id int64) bool {
	_, ok := e.categories.Lookup(id)
	return ok
}

// evictItemsOf drops items of a deleted category, which the store removes with it.
func (e *Engine) evictItemsOf(categoryID int64) {
	var gone []int64
	e.items.Each(func(it domain.Item) {
		if it.CategoryID == categoryID {
			gone = append(gone, it.ID)
		}
	})
	for _, id := range gone {
		e.items.Evict(id)
	}
}

func (e *Engine) categoryInput(r Row) (domain.CategoryInput, error) {
	name := Text(r.Get(ColCategoryName))
	if name == "" {
		return domain.CategoryInput{}, invalid("Category Name is required")
	}

	in := domain.CategoryInput{
		Name:                name,
		SortOrder:           ParseInt(r.Get(ColSortOrder), 0),
		IsVisible:           ParseBool(r.Get(ColIsVisible), true),
		HasTimeAvailability: ParseBool(r.Get(ColHasTimeAvailability), false),
		AvailableFrom:       OptionalText(r.Get(ColAvailableFrom)),
		AvailableTo:         OptionalText(r.Get(ColAvailableTo)),
	}
	in.Normalize()

	idCell, nameCell := r.Get(ColParentID), r.Get(ColParentName)
	if !IsBlank(idCell) || !IsBlank(nameCell) {
		parent, ok := e.categories.Resolve(idCell, nameCell)
		if !ok {
			return domain.CategoryInput{}, unresolved("Parent category", idCell, nameCell)
		}
		in.ParentID = &parent.ID
	}
	return in, nil
}

// resolveTarget reads the id of the entity an update or delete row targets.
func (e *Engine) resolveTarget(r Row, action Action, column, entity string, exists func(int64) bool) (int64, error) {
	id, ok := ParseID(r.Get(column))
	if !ok {
		return 0, invalid("%s is required for %s", column, action)
	}
	if !exists(id) {
		return 0, &ResolutionError{Entity: entity, ID: id}
	}
	return id, nil
}
