package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Extractor turns one chat message into typed actions. Primary path asks the
// oracle and parses its markers; the deterministic fallback runs whenever the
// oracle is absent, errors out, or yields zero valid actions. The two paths
// are never merged within a turn.
type Extractor struct {
	Oracle Oracle // nil disables the live path
	Log    *zap.Logger
}

func NewExtractor(oracle Oracle, log *zap.Logger) *Extractor {
	return &Extractor{Oracle: oracle, Log: log}
}

type ExtractResult struct {
	Reply      string
	Actions    []Action
	UsedOracle bool
}

func (e *Extractor) Extract(ctx context.Context, in *TurnContext) *ExtractResult {
	if e.Oracle != nil {
		text, err := e.Oracle.Reply(ctx, BuildOraclePrompt(in))
		if err == nil {
			reply, actions := ParseOracleActions(text)
			if len(actions) > 0 {
				return &ExtractResult{Reply: reply, Actions: actions, UsedOracle: true}
			}
			// oracle answered but proposed nothing; its prose still makes a
			// fine reply as long as the heuristics also find nothing
			fallback := e.fallback(in)
			if len(fallback.Actions) == 0 && reply != "" {
				fallback.Reply = reply
			}
			return fallback
		}
		e.Log.Warn("falling back to heuristic extractor", zap.Error(err))
	}
	return e.fallback(in)
}

var tableRefRe = regexp.MustCompile(`(?i)\btable\s*[:#]?\s*([A-Za-z0-9][\w-]*)`)
var bareTableRe = regexp.MustCompile(`(?i)\b(T-\d+)\b`)

// quantity immediately before an item name, e.g. "2 momo" or "2x momo"
func qtyBefore(message string, idx int) int {
	prefix := strings.TrimRight(message[:idx], " ")
	prefix = strings.TrimSuffix(strings.TrimSuffix(prefix, "x"), "X")
	prefix = strings.TrimRight(prefix, " ")
	end := len(prefix)
	start := end
	for start > 0 && prefix[start-1] >= '0' && prefix[start-1] <= '9' {
		start--
	}
	if start == end {
		return 1
	}
	n, err := strconv.Atoi(prefix[start:end])
	if err != nil || n < minQty {
		return 1
	}
	if n > maxQty {
		return maxQty
	}
	return n
}

var cancelKeywords = []string{"cancel", "khana radda", "radd karo", "order hatau"}
var payKeywords = []string{"pay", "paid", "payment", "bill please", "check please", "bhugtan", "paisa tirchhu", "tirchhu"}
var removeKeywords = []string{"remove", "hatau", "hata do", "nikal do"}
var placeKeywords = []string{
	"place order", "place my order", "order now", "confirm order", "checkout",
	"order garnus", "order gara", "order karo", "order de do", "order please",
	"book order",
}
var updateKeywords = []string{"update order", "update my order", "add to order", "add to my order"}

// fallback is the deterministic path: exact-substring menu matches plus
// keyword intents. It never consults the oracle.
func (e *Extractor) fallback(in *TurnContext) *ExtractResult {
	lower := strings.ToLower(in.Message)
	var actions []Action

	removing := containsAny(lower, removeKeywords)
	for _, m := range in.Menu {
		name := strings.ToLower(m.Name)
		idx := strings.Index(lower, name)
		if idx < 0 {
			continue
		}
		if removing {
			actions = append(actions, Action{Type: ActionRemoveItem, ItemName: m.Name})
			continue
		}
		actions = append(actions, Action{
			Type:     ActionAddItem,
			ItemName: m.Name,
			Qty:      qtyBefore(lower, idx),
		})
	}

	tableRef := extractTableRef(in.Message)
	switch {
	case containsAny(lower, cancelKeywords):
		actions = append(actions, Action{Type: ActionCancelOrder, TableRef: tableRef})
	case containsAny(lower, payKeywords):
		actions = append(actions, Action{Type: ActionConfirmPayment, TableRef: tableRef})
	case containsAny(lower, updateKeywords):
		actions = append(actions, Action{Type: ActionUpdateOrder, TableRef: tableRef})
	case containsAny(lower, placeKeywords):
		actions = append(actions, Action{Type: ActionPlaceOrder, TableRef: tableRef})
	}

	return &ExtractResult{
		Reply:   fallbackReply(in, actions),
		Actions: actions,
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func extractTableRef(message string) string {
	if m := tableRefRe.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	if m := bareTableRe.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return ""
}

// WantsMenu reports a menu request, used to open the menu wizard when a turn
// produced no actions.
func WantsMenu(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "menu") ||
		strings.Contains(message, "मेनु") || strings.Contains(message, "मेन्यू")
}

func fallbackReply(in *TurnContext, actions []Action) string {
	var added []string
	for _, a := range actions {
		switch a.Type {
		case ActionAddItem:
			added = append(added, fmt.Sprintf("%s x%d", a.ItemName, a.Qty))
		case ActionRemoveItem:
			return fmt.Sprintf("Removed %s from your cart.", a.ItemName)
		case ActionCancelOrder:
			return "Okay, cancelling the order."
		case ActionConfirmPayment:
			return "Got it, settling the bill."
		case ActionPlaceOrder, ActionUpdateOrder:
			if len(added) > 0 {
				return fmt.Sprintf("Added %s and placing your order.", strings.Join(added, ", "))
			}
			return "Placing your order now."
		}
	}
	if len(added) > 0 {
		return fmt.Sprintf("Added %s to your cart. Say \"place order\" when you're ready.", strings.Join(added, ", "))
	}
	if WantsMenu(in.Message) {
		return "Here's our menu. Tap an item or tell me what you'd like."
	}
	return "You can ask for the menu, order items, or say \"place order\" when ready."
}
