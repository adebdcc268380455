package services

import (
	"context"
	"fmt"
	"strings"

	"backend/entity"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Oracle is the external natural-language service consulted once per chat
// turn. It may be absent or failing; the extractor always has a
// deterministic path behind it.
type Oracle interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// GeminiOracle calls the Gemini API through the genai SDK.
type GeminiOracle struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func NewGeminiOracle(ctx context.Context, apiKey, model string, log *zap.Logger) (*GeminiOracle, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiOracle{client: client, model: model, log: log}, nil
}

func (o *GeminiOracle) Reply(ctx context.Context, prompt string) (string, error) {
	result, err := o.client.Models.GenerateContent(ctx, o.model, genai.Text(prompt), nil)
	if err != nil {
		o.log.Warn("oracle call failed", zap.Error(err))
		return "", err
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("oracle returned empty reply")
	}
	return text, nil
}

// TurnContext is the per-turn snapshot handed to the extractor: menu and
// settings are read once and never re-read mid-turn.
type TurnContext struct {
	Tenant     *entity.Tenant
	Menu       []entity.MenuItem
	Cart       []entity.CartLine
	Order      *entity.Order
	History    []entity.ChatMessage
	Message    string
	Locale     string
	TableLabel string
}

// BuildOraclePrompt renders the turn context into a single prompt. The
// marker grammar taught here must stay in sync with ParseOracleActions.
func BuildOraclePrompt(in *TurnContext) string {
	var b strings.Builder
	b.WriteString("You are a waiter for the restaurant ")
	b.WriteString(in.Tenant.Name)
	b.WriteString(". Reply briefly and politely in the customer's language.\n")
	b.WriteString("When the customer wants to change their order, append action markers to your reply:\n")
	b.WriteString("[[ADD_ITEM:<menu item name>:<qty>]] [[REMOVE_ITEM:<menu item name>]] ")
	b.WriteString("[[PLACE_ORDER:<table>]] [[UPDATE_ORDER:<table>]] [[CONFIRM_PAYMENT:<table>]] [[CANCEL_ORDER:<table>]]\n")
	b.WriteString("Use only item names from the menu. Omit <table> if unknown.\n\n")

	b.WriteString("Menu:\n")
	for _, m := range in.Menu {
		fmt.Fprintf(&b, "- %s (%s %d)\n", m.Name, in.Tenant.Currency, m.Price)
	}

	if len(in.Cart) > 0 {
		b.WriteString("\nCurrent cart:\n")
		for _, l := range in.Cart {
			fmt.Fprintf(&b, "- %s x%d = %d\n", l.Name, l.Qty, l.LineTotal)
		}
	}
	if in.Order != nil {
		fmt.Fprintf(&b, "\nOpen order #%d, status %s, total %d.\n",
			in.Order.OrderNumber, in.Order.Status, in.Order.Total)
	}
	if in.TableLabel != "" {
		fmt.Fprintf(&b, "Customer is at table %s.\n", in.TableLabel)
	}

	if len(in.History) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, m := range in.History {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Body)
		}
	}

	b.WriteString("\ncustomer: ")
	b.WriteString(in.Message)
	return b.String()
}
