package views

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/passionpath/internal/client/gateway/gatewaytest"
	"github.com/dmitrijs2005/passionpath/internal/client/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityBar_FollowsSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, router.PathIndex, nil)
	bar := NewIdentityBar(h.deps)
	bar.Mount(ctx)
	t.Cleanup(bar.Unmount)

	_, ok := bar.Identity()
	assert.False(t, ok)
	assert.Contains(t, bar.Render(), "[login] [signup]")

	require.NoError(t, h.gw.SignIn(ctx, "ann@example.com", "secret1"))
	id, ok := bar.Identity()
	require.True(t, ok)
	assert.Equal(t, "ann@example.com", id.Email)
	assert.Contains(t, bar.Render(), "ann@example.com")
	assert.Contains(t, bar.Render(), "[logout]")

	bar.SignOut(ctx)
	_, ok = bar.Identity()
	assert.False(t, ok)
	assert.Equal(t, router.PathLogin, h.nav.Current().Path)
}

func TestIdentityBar_SignOutNavigatesEvenOnFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, router.PathDashboard, &ann)
	h.gw.Fail(gatewaytest.Key("sign_out", ""), errors.New("network down"))

	bar := NewIdentityBar(h.deps)
	bar.Mount(ctx)
	bar.SignOut(ctx)

	assert.Equal(t, router.PathLogin, h.nav.Current().Path)
}

func TestIdentityBar_UnmountStopsUpdates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, router.PathIndex, nil)
	bar := NewIdentityBar(h.deps)
	bar.Mount(ctx)
	bar.Unmount()

	require.NoError(t, h.gw.SignIn(ctx, "ann@example.com", "secret1"))
	_, ok := bar.Identity()
	assert.False(t, ok)
}
