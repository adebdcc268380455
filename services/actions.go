package services

import (
	"regexp"
	"strconv"
	"strings"
)

type ActionType string

const (
	ActionAddItem        ActionType = "ADD_ITEM"
	ActionRemoveItem     ActionType = "REMOVE_ITEM"
	ActionPlaceOrder     ActionType = "PLACE_ORDER"
	ActionUpdateOrder    ActionType = "UPDATE_ORDER"
	ActionConfirmPayment ActionType = "CONFIRM_PAYMENT"
	ActionCancelOrder    ActionType = "CANCEL_ORDER"
)

const (
	minQty = 1
	maxQty = 20
)

// Action is one typed intent extracted from a chat turn.
type Action struct {
	Type     ActionType `json:"type"`
	ItemName string     `json:"itemName,omitempty"`
	Qty      int        `json:"qty,omitempty"`
	TableRef string     `json:"tableRef,omitempty"`
}

// Oracle replies may embed markers like [[ADD_ITEM:Momo:2]] or
// [[PLACE_ORDER:T-01]] anywhere in the free text.
var markerRe = regexp.MustCompile(`\[\[([A-Z_]+)((?::[^\[\]:]*)*)\]\]`)

// ParseOracleActions extracts the embedded markers from oracle output and
// returns the visible reply with markers stripped. Each marker parses
// independently; malformed or unknown ones are dropped silently.
func ParseOracleActions(text string) (reply string, actions []Action) {
	matches := markerRe.FindAllStringSubmatch(text, -1)
	for _, m := range matches {
		var args []string
		if m[2] != "" {
			args = strings.Split(strings.TrimPrefix(m[2], ":"), ":")
		}
		if a, ok := parseMarker(m[1], args); ok {
			actions = append(actions, a)
		}
	}
	reply = strings.TrimSpace(markerRe.ReplaceAllString(text, ""))
	return reply, actions
}

func parseMarker(name string, args []string) (Action, bool) {
	arg := func(i int) string {
		if i < len(args) {
			return strings.TrimSpace(args[i])
		}
		return ""
	}
	switch ActionType(name) {
	case ActionAddItem:
		item := arg(0)
		if item == "" {
			return Action{}, false
		}
		return Action{Type: ActionAddItem, ItemName: item, Qty: clampQty(arg(1))}, true
	case ActionRemoveItem:
		item := arg(0)
		if item == "" {
			return Action{}, false
		}
		return Action{Type: ActionRemoveItem, ItemName: item}, true
	case ActionPlaceOrder, ActionUpdateOrder, ActionConfirmPayment, ActionCancelOrder:
		return Action{Type: ActionType(name), TableRef: arg(0)}, true
	}
	return Action{}, false
}

// clampQty floors to an integer and clamps to [1,20]; anything unparseable
// becomes 1.
func clampQty(s string) int {
	if s == "" {
		return minQty
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return minQty
	}
	q := int(f)
	if q < minQty {
		return minQty
	}
	if q > maxQty {
		return maxQty
	}
	return q
}
