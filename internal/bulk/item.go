package bulk

import (
	"context"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
)

func (e *Engine) reconcileItem(ctx context.Context, r Row, action Action, s *Summary) []error {
	var id int64
	if action != ActionCreate {
		target, err := e.resolveTarget(r, action, ColItemID, "Item", e.itemExists)
		if err != nil {
			return []error{err}
		}
		id = target
	}

	if action == ActionDelete {
		if err := e.ports.Items.DeleteItem(ctx, id); err != nil {
			return []error{&RemoteError{Op: "Delete item", Err: err}}
		}
		s.Deleted++
		e.items.Evict(id)
		return nil
	}

	in, err := e.itemInput(r)
	if err != nil {
		return []error{err}
	}

	var (
		saved *domain.Item
		op    = "Create item"
	)
	if action == ActionUpdate {
		op = "Update item"
		saved, err = e.ports.Items.UpdateItem(ctx, id, in)
	} else {
		saved, err = e.ports.Items.CreateItem(ctx, in)
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
	e.items.Put(*saved)

	var errs []error
	if in.UseDayPricing && e.ports.DayPricing != nil {
		if err := e.ports.DayPricing.PutSchedule(ctx, saved.ID, scheduleFromRow(r)); err != nil {
			errs = append(errs, &CascadeError{Step: "Day pricing", Err: err})
		}
	}

	desc := ""
	if saved.Description != nil {
		desc = *saved.Description
	}
	errs = append(errs, e.cascade(ctx, translationSource{
		kind:        domain.KindItem,
		id:          saved.ID,
		name:        saved.Name,
		description: desc,
		row:         r,
	})...)
	return errs
}

func (e *Engine) itemExists(id int64) bool {
	_, ok := e.items.Lookup(id)
	return ok
}

func (e *Engine) itemInput(r Row) (domain.ItemInput, error) {
	name := Text(r.Get(ColItemName))
	if name == "" {
		return domain.ItemInput{}, invalid("Item Name is required")
	}

	idCell, nameCell := r.Get(ColCategoryID), r.Get(ColCategoryName)
	if IsBlank(idCell) && IsBlank(nameCell) {
		return domain.ItemInput{}, invalid("Category ID or Category Name is required")
	}
	category, ok := e.categories.Resolve(idCell, nameCell)
	if !ok {
		return domain.ItemInput{}, unresolved("Category", idCell, nameCell)
	}

	in := domain.ItemInput{
		CategoryID:     category.ID,
		Name:           name,
		Description:    OptionalText(r.Get(ColDescription)),
		Price:          ParseNumber(r.Get(ColPrice)),
		CurrencySymbol: Text(r.Get(ColCurrency)),
		SortOrder:      ParseInt(r.Get(ColSortOrder), 0),
		IsAvailable:    ParseBool(r.Get(ColIsAvailable), true),
		UseDayPricing:  ParseBool(r.Get(ColUseDayPricing), false),
	}
	in.Normalize()
	return in, nil
}
