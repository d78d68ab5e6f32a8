package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsGetLazilyCreatesDefault(t *testing.T) {
	repo := &fakeSettingRepo{}
	svc := NewSettingsService(repo, nil)
	ctx := context.Background()

	setting, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, setting.AcceptingOrders)
	require.NotNil(t, repo.setting)

	// Later reads resolve the same row.
	again, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, setting.ID, again.ID)
}

func TestSetAcceptingOrders(t *testing.T) {
	repo := &fakeSettingRepo{}
	svc := NewSettingsService(repo, nil)
	ctx := context.Background()

	// Toggling before any row exists creates one in the requested state.
	setting, err := svc.SetAcceptingOrders(ctx, false)
	require.NoError(t, err)
	assert.False(t, setting.AcceptingOrders)

	accepting, err := svc.AcceptingOrders(ctx)
	require.NoError(t, err)
	assert.False(t, accepting)

	setting, err = svc.SetAcceptingOrders(ctx, true)
	require.NoError(t, err)
	assert.True(t, setting.AcceptingOrders)

	accepting, err = svc.AcceptingOrders(ctx)
	require.NoError(t, err)
	assert.True(t, accepting)
}
