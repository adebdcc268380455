package services

import (
	"context"
	"errors"
	"testing"

	"backend/entity"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseOracleActions(t *testing.T) {
	reply, actions := ParseOracleActions(
		"Sure! Adding momos. [[ADD_ITEM:Momo:2]] [[PLACE_ORDER:T-01]]")

	require.Equal(t, "Sure! Adding momos.", reply)
	require.Equal(t, []Action{
		{Type: ActionAddItem, ItemName: "Momo", Qty: 2},
		{Type: ActionPlaceOrder, TableRef: "T-01"},
	}, actions)
}

func TestParseOracleActionsDropsBadMarkersIndependently(t *testing.T) {
	_, actions := ParseOracleActions(
		"[[ADD_ITEM:Momo:2]] [[TELEPORT:Mars]] [[ADD_ITEM]] [[REMOVE_ITEM:Chowmein]]")
	require.Equal(t, []Action{
		{Type: ActionAddItem, ItemName: "Momo", Qty: 2},
		{Type: ActionRemoveItem, ItemName: "Chowmein"},
	}, actions)
}

func TestParseOracleActionsClampsAndFloorsQty(t *testing.T) {
	_, actions := ParseOracleActions("[[ADD_ITEM:Momo:50]] [[ADD_ITEM:Momo:2.9]] [[ADD_ITEM:Momo:-1]] [[ADD_ITEM:Momo:x]]")
	require.Len(t, actions, 4)
	require.Equal(t, 20, actions[0].Qty)
	require.Equal(t, 2, actions[1].Qty)
	require.Equal(t, 1, actions[2].Qty)
	require.Equal(t, 1, actions[3].Qty)
}

func turnCtx(message string) *TurnContext {
	menu := []entity.MenuItem{
		{Name: "Momo", Price: 150},
		{Name: "Chowmein", Price: 120},
	}
	menu[0].ID = 1
	menu[1].ID = 2
	return &TurnContext{
		Tenant:  &entity.Tenant{Name: "Test", Currency: "NPR"},
		Menu:    menu,
		Message: message,
	}
}

func TestFallbackExtractsQuantifiedItems(t *testing.T) {
	e := NewExtractor(nil, zap.NewNop())
	res := e.Extract(context.Background(), turnCtx("2 momo please"))

	require.False(t, res.UsedOracle)
	require.Equal(t, []Action{{Type: ActionAddItem, ItemName: "Momo", Qty: 2}}, res.Actions)
}

func TestFallbackDefaultsQtyToOne(t *testing.T) {
	e := NewExtractor(nil, zap.NewNop())
	res := e.Extract(context.Background(), turnCtx("one momo and chowmein"))

	require.Equal(t, []Action{
		{Type: ActionAddItem, ItemName: "Momo", Qty: 1},
		{Type: ActionAddItem, ItemName: "Chowmein", Qty: 1},
	}, res.Actions)
}

func TestFallbackPlaceOrderWithTable(t *testing.T) {
	e := NewExtractor(nil, zap.NewNop())
	res := e.Extract(context.Background(), turnCtx("place order table T-01"))

	require.Len(t, res.Actions, 1)
	require.Equal(t, ActionPlaceOrder, res.Actions[0].Type)
	require.Equal(t, "T-01", res.Actions[0].TableRef)
}

func TestFallbackCancelBeatsPlace(t *testing.T) {
	e := NewExtractor(nil, zap.NewNop())
	res := e.Extract(context.Background(), turnCtx("cancel my order please"))

	require.Len(t, res.Actions, 1)
	require.Equal(t, ActionCancelOrder, res.Actions[0].Type)
}

func TestFallbackPaymentKeyword(t *testing.T) {
	e := NewExtractor(nil, zap.NewNop())
	res := e.Extract(context.Background(), turnCtx("bill please"))

	require.Len(t, res.Actions, 1)
	require.Equal(t, ActionConfirmPayment, res.Actions[0].Type)
}

type stubOracle struct {
	text string
	err  error
}

func (s *stubOracle) Reply(context.Context, string) (string, error) { return s.text, s.err }

func TestExtractorUsesOracleActionsExclusively(t *testing.T) {
	// message mentions chowmein, but the oracle path won; its actions must
	// not be merged with heuristic matches
	e := NewExtractor(&stubOracle{text: "Done. [[ADD_ITEM:Momo:3]]"}, zap.NewNop())
	res := e.Extract(context.Background(), turnCtx("chowmein"))

	require.True(t, res.UsedOracle)
	require.Equal(t, []Action{{Type: ActionAddItem, ItemName: "Momo", Qty: 3}}, res.Actions)
}

func TestExtractorFallsBackOnOracleError(t *testing.T) {
	e := NewExtractor(&stubOracle{err: errors.New("timeout")}, zap.NewNop())
	res := e.Extract(context.Background(), turnCtx("2 momo please"))

	require.False(t, res.UsedOracle)
	require.Equal(t, []Action{{Type: ActionAddItem, ItemName: "Momo", Qty: 2}}, res.Actions)
}

func TestExtractorFallsBackWhenOracleHasNoActions(t *testing.T) {
	e := NewExtractor(&stubOracle{text: "We close at 10pm."}, zap.NewNop())
	res := e.Extract(context.Background(), turnCtx("2 momo please"))

	require.False(t, res.UsedOracle)
	require.Equal(t, []Action{{Type: ActionAddItem, ItemName: "Momo", Qty: 2}}, res.Actions)
}

func TestExtractorKeepsOracleProseWhenNothingMatched(t *testing.T) {
	e := NewExtractor(&stubOracle{text: "We close at 10pm."}, zap.NewNop())
	res := e.Extract(context.Background(), turnCtx("when do you close?"))

	require.Empty(t, res.Actions)
	require.Equal(t, "We close at 10pm.", res.Reply)
}

func TestWantsMenu(t *testing.T) {
	require.True(t, WantsMenu("show me the menu"))
	require.True(t, WantsMenu("मेनु दिनुस"))
	require.False(t, WantsMenu("2 momo please"))
}
