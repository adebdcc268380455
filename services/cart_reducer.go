package services

import (
	"strings"

	"backend/entity"
)

// ReduceCart applies ADD_ITEM/REMOVE_ITEM actions to a cart snapshot and
// returns the new cart. Pure: neither input is mutated, order actions are
// ignored here (the reconciler consumes them).
//
// ADD_ITEM names resolve against the tenant menu case-insensitively; names
// that match nothing are dropped silently, a deliberate tolerance for oracle
// hallucination. REMOVE_ITEM deletes every line whose name matches,
// regardless of qty; there is no partial decrement.
func ReduceCart(menu []entity.MenuItem, cart []entity.CartLine, actions []Action) []entity.CartLine {
	out := make([]entity.CartLine, len(cart))
	copy(out, cart)

	for _, a := range actions {
		switch a.Type {
		case ActionAddItem:
			item := findMenuItem(menu, a.ItemName)
			if item == nil {
				continue
			}
			qty := a.Qty
			if qty < minQty {
				qty = minQty
			}
			if qty > maxQty {
				qty = maxQty
			}
			if i := findLine(out, item.Name); i >= 0 {
				out[i].Qty += qty
				out[i].LineTotal = out[i].UnitPrice * int64(out[i].Qty)
				continue
			}
			out = append(out, entity.CartLine{
				MenuItemID: item.ID,
				Name:       item.Name,
				UnitPrice:  item.Price,
				Qty:        qty,
				LineTotal:  item.Price * int64(qty),
			})
		case ActionRemoveItem:
			kept := out[:0]
			for _, l := range out {
				if !strings.EqualFold(l.Name, a.ItemName) {
					kept = append(kept, l)
				}
			}
			out = kept
		}
	}
	return out
}

// CartSubtotal sums line totals; each line keeps LineTotal == UnitPrice*Qty.
func CartSubtotal(cart []entity.CartLine) int64 {
	var sum int64
	for _, l := range cart {
		sum += l.LineTotal
	}
	return sum
}

func findMenuItem(menu []entity.MenuItem, name string) *entity.MenuItem {
	for i := range menu {
		if strings.EqualFold(menu[i].Name, name) {
			return &menu[i]
		}
	}
	return nil
}

func findLine(cart []entity.CartLine, name string) int {
	for i := range cart {
		if strings.EqualFold(cart[i].Name, name) {
			return i
		}
	}
	return -1
}
