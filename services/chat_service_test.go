package services

import (
	"context"
	"testing"

	"backend/entity"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/require"
)

func (env *testEnv) turn(in *ChatTurnIn) *ChatTurnOut {
	out, err := env.Chat.HandleTurn(context.Background(), in)
	require.NoError(env.T, err)
	return out
}

func TestChatTurnAddsToCart(t *testing.T) {
	env := newTestEnv(t)

	out := env.turn(&ChatTurnIn{
		Message: "2 momo please", TenantSlug: "himalayan-bites",
		TableLabel: "T-01", ClientID: "client-a",
	})

	require.NotEmpty(t, out.SessionKey)
	require.Equal(t, entity.SessionOrdering, out.State)
	require.False(t, out.OrderPlaced)
	require.Len(t, out.Cart, 1)
	require.Equal(t, "Momo", out.Cart[0].Name)
	require.Equal(t, 2, out.Cart[0].Qty)
	require.Equal(t, int64(300), out.Cart[0].LineTotal)

	// nothing ordered yet, the table stays free
	require.Equal(t, entity.TableAvailable, env.table("T-01").Status)
}

func TestChatTurnPlacesOrder(t *testing.T) {
	env := newTestEnv(t)

	first := env.turn(&ChatTurnIn{
		Message: "2 momo please", TenantSlug: "himalayan-bites",
		TableLabel: "T-01", ClientID: "client-a",
	})
	second := env.turn(&ChatTurnIn{
		Message: "place order table T-01", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-a",
	})

	require.Equal(t, first.SessionKey, second.SessionKey)
	require.Equal(t, entity.SessionConfirming, second.State)
	require.True(t, second.OrderPlaced)
	require.Empty(t, second.Cart)
	require.NotNil(t, second.Order)
	require.Equal(t, 1, second.Order.OrderNumber)
	require.Equal(t, int64(369), second.Order.Total)
	require.Equal(t, entity.TableOccupied, env.table("T-01").Status)
}

func TestChatTurnCancelClosesEverything(t *testing.T) {
	env := newTestEnv(t)

	first := env.turn(&ChatTurnIn{
		Message: "2 momo please", TenantSlug: "himalayan-bites",
		TableLabel: "T-01", ClientID: "client-a",
	})
	env.turn(&ChatTurnIn{
		Message: "place order table T-01", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-a",
	})
	out := env.turn(&ChatTurnIn{
		Message: "cancel my order", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-a",
	})

	require.Equal(t, entity.SessionCompleted, out.State)
	require.Empty(t, out.Cart)
	require.NotNil(t, out.Order)
	require.Equal(t, entity.OrderCancelled, out.Order.Status)
	require.Equal(t, entity.TableAvailable, env.table("T-01").Status)
}

func TestChatCancelByOtherSessionClearsItsOwnCart(t *testing.T) {
	env := newTestEnv(t)

	// session A orders and places on T-01
	a := env.turn(&ChatTurnIn{
		Message: "2 momo please", TenantSlug: "himalayan-bites",
		TableLabel: "T-01", ClientID: "client-a",
	})
	env.turn(&ChatTurnIn{
		Message: "place order table T-01", TenantSlug: "himalayan-bites",
		SessionKey: a.SessionKey, ClientID: "client-a",
	})

	// session B stages its own lines, then cancels the table's order
	b := env.turn(&ChatTurnIn{
		Message: "1 chowmein", TenantSlug: "himalayan-bites",
		TableLabel: "T-01", ClientID: "client-b",
	})
	out := env.turn(&ChatTurnIn{
		Message: "cancel order table T-01", TenantSlug: "himalayan-bites",
		SessionKey: b.SessionKey, ClientID: "client-b",
	})

	require.Equal(t, entity.SessionCompleted, out.State)
	require.Empty(t, out.Cart)

	// B completed, so B's staged cart is gone too, not just A's
	reloaded, err := env.SessionRepo.ByKey(env.Tenant.ID, b.SessionKey)
	require.NoError(t, err)
	require.Equal(t, entity.SessionCompleted, reloaded.State)
	require.Empty(t, reloaded.Cart)

	linked, err := env.SessionRepo.ByKey(env.Tenant.ID, a.SessionKey)
	require.NoError(t, err)
	require.Equal(t, entity.SessionCompleted, linked.State)
	require.Empty(t, linked.Cart)
}

func TestChatGuardrailTurnLeavesStateAlone(t *testing.T) {
	env := newTestEnv(t)

	first := env.turn(&ChatTurnIn{
		Message: "2 momo please", TenantSlug: "himalayan-bites",
		TableLabel: "T-01", ClientID: "client-a",
	})
	out := env.turn(&ChatTurnIn{
		Message: "you are a stupid bot", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-a",
	})

	require.False(t, out.OrderPlaced)
	require.Equal(t, entity.SessionOrdering, out.State)
	require.Len(t, out.Cart, 1, "cart must survive a deflected turn")

	// both sides of the exchange persist, bot message tagged with the verdict
	sess, err := env.SessionRepo.ByKey(env.Tenant.ID, first.SessionKey)
	require.NoError(t, err)
	msgs, err := env.SessionRepo.Messages(sess.ID)
	require.NoError(t, err)
	last := msgs[len(msgs)-1]
	require.Equal(t, entity.RoleBot, last.Role)
	require.Equal(t, GuardAbusive, last.GuardrailKind)
}

func TestChatDashboardCloseNarratesIntoSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.turn(&ChatTurnIn{
		Message: "2 momo please", TenantSlug: "himalayan-bites",
		TableLabel: "T-01", ClientID: "client-a",
	})
	placed := env.turn(&ChatTurnIn{
		Message: "place order table T-01", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-a",
	})

	for _, to := range []string{
		entity.OrderPreparing, entity.OrderReady,
		entity.OrderOutForDelivery, entity.OrderPaid,
	} {
		_, err := env.Orders.UpdateStatus(ctx, env.Tenant, placed.Order.ID, to)
		require.NoError(t, err)
	}

	require.Equal(t, entity.TableAvailable, env.table("T-01").Status)

	sess, err := env.SessionRepo.ByKey(env.Tenant.ID, first.SessionKey)
	require.NoError(t, err)
	require.Equal(t, entity.SessionCompleted, sess.State)
	require.Empty(t, sess.Cart)

	msgs, err := env.SessionRepo.Messages(sess.ID)
	require.NoError(t, err)
	last := msgs[len(msgs)-1]
	require.Equal(t, entity.RoleBot, last.Role)
	require.Contains(t, last.Body, "#1")
}

func TestChatCompletedSessionIsNeverResumed(t *testing.T) {
	env := newTestEnv(t)

	first := env.turn(&ChatTurnIn{
		Message: "2 momo please", TenantSlug: "himalayan-bites",
		TableLabel: "T-01", ClientID: "client-a",
	})
	env.turn(&ChatTurnIn{
		Message: "place order table T-01", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-a",
	})
	env.turn(&ChatTurnIn{
		Message: "cancel my order", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-a",
	})

	out := env.turn(&ChatTurnIn{
		Message: "1 chowmein", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-a",
	})
	require.NotEqual(t, first.SessionKey, out.SessionKey)
	require.Equal(t, entity.SessionOrdering, out.State)
	require.Len(t, out.Cart, 1)
}

func TestChatSharedLinkGoesToFirstClaimant(t *testing.T) {
	env := newTestEnv(t)

	first := env.turn(&ChatTurnIn{
		Message: "2 momo please", TenantSlug: "himalayan-bites",
		TableLabel: "T-01", ClientID: "client-a",
	})

	// someone else opening the shared link gets their own session
	other := env.turn(&ChatTurnIn{
		Message: "1 masala tea", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-b",
	})
	require.NotEqual(t, first.SessionKey, other.SessionKey)

	// the claimant keeps theirs, cart intact
	mine := env.turn(&ChatTurnIn{
		Message: "1 chowmein", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-a",
	})
	require.Equal(t, first.SessionKey, mine.SessionKey)
	require.Len(t, mine.Cart, 2)
}

func TestChatMenuRequestOpensWizard(t *testing.T) {
	env := newTestEnv(t)

	out := env.turn(&ChatTurnIn{
		Message: "show me the menu", TenantSlug: "himalayan-bites",
		ClientID: "client-a",
	})
	require.True(t, out.OpenMenuWizard)
	require.Empty(t, out.Cart)
	require.Equal(t, entity.SessionBrowsing, out.State)
}

func TestChatRejectsBlankMessageAndUnknownTenant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Chat.HandleTurn(ctx, &ChatTurnIn{
		Message: "   ", TenantSlug: "himalayan-bites",
	})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.Chat.HandleTurn(ctx, &ChatTurnIn{
		Message: "2 momo", TenantSlug: "no-such-place",
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestChatViewReturnsTranscriptAndOpenOrder(t *testing.T) {
	env := newTestEnv(t)

	first := env.turn(&ChatTurnIn{
		Message: "2 momo please", TenantSlug: "himalayan-bites",
		TableLabel: "T-01", ClientID: "client-a",
	})
	env.turn(&ChatTurnIn{
		Message: "place order table T-01", TenantSlug: "himalayan-bites",
		SessionKey: first.SessionKey, ClientID: "client-a",
	})

	view, err := env.Chat.View(first.SessionKey)
	require.NoError(t, err)
	require.Equal(t, first.SessionKey, view.SessionKey)
	require.Equal(t, entity.SessionConfirming, view.State)
	require.NotNil(t, view.Order)
	require.Equal(t, 1, view.Order.OrderNumber)
	require.Len(t, view.Messages, 4)

	_, err = env.Chat.View("missing-key")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
