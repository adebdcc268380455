package services

import (
	"context"
	"testing"

	"backend/entity"

	"github.com/stretchr/testify/require"
)

func TestNextSessionState(t *testing.T) {
	require.Equal(t, entity.SessionCompleted, NextSessionState(true, true, 3))
	require.Equal(t, entity.SessionConfirming, NextSessionState(false, true, 0))
	require.Equal(t, entity.SessionOrdering, NextSessionState(false, false, 2))
	require.Equal(t, entity.SessionBrowsing, NextSessionState(false, false, 0))
}

func TestMemoryLinkGuardClaims(t *testing.T) {
	g := NewMemoryLinkGuard()
	ctx := context.Background()

	owned, err := g.Claim(ctx, "key-1", "client-a")
	require.NoError(t, err)
	require.True(t, owned)

	// claimant can present the key again
	owned, err = g.Claim(ctx, "key-1", "client-a")
	require.NoError(t, err)
	require.True(t, owned)

	// anyone else is refused
	owned, err = g.Claim(ctx, "key-1", "client-b")
	require.NoError(t, err)
	require.False(t, owned)

	// a different key is up for grabs
	owned, err = g.Claim(ctx, "key-2", "client-b")
	require.NoError(t, err)
	require.True(t, owned)
}

func TestResolveMintsWhenKeyUnknown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.Sessions.Resolve(ctx, env.Tenant, "never-issued", "T-01", "client-a")
	require.NoError(t, err)
	require.NotEqual(t, "never-issued", sess.SessionKey)
	require.Equal(t, entity.SessionBrowsing, sess.State)
	require.Equal(t, "T-01", sess.TableLabel)
}

func TestResolveUpdatesTableLabelOnReuse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.Sessions.Resolve(ctx, env.Tenant, "", "T-01", "client-a")
	require.NoError(t, err)

	again, err := env.Sessions.Resolve(ctx, env.Tenant, sess.SessionKey, "T-02", "client-a")
	require.NoError(t, err)
	require.Equal(t, sess.ID, again.ID)
	require.Equal(t, "T-02", again.TableLabel)
}
