package delegation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
)

func TestDelegate_ExpiryIsStrict(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	l := New(func(o *Options) { o.Now = func() time.Time { return now } })

	d, err := l.Delegate(context.Background(), "lyra", "otto", []string{"review", "review", " sign "}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, now, d.GrantedAt)
	assert.Equal(t, now.Add(time.Hour), d.ExpiresAt)
	assert.Equal(t, []string{"review", "sign"}, d.Privileges)

	assert.True(t, d.IsActive(now.Add(59*time.Minute)))
	assert.False(t, d.IsActive(now.Add(time.Hour)))
	assert.True(t, l.HasPrivilege("otto", "sign"))
	assert.False(t, l.HasPrivilege("otto", "vote"))

	now = now.Add(time.Hour)
	assert.Empty(t, l.Active("otto"))
	assert.False(t, l.HasPrivilege("otto", "sign"))
}

func TestDelegate_NoRenewal(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	l := New(func(o *Options) { o.Now = func() time.Time { return now } })
	ctx := context.Background()

	first, err := l.Delegate(ctx, "lyra", "otto", []string{"review"}, time.Hour)
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	second, err := l.Delegate(ctx, "lyra", "otto", []string{"review"}, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first.DelegationID, second.DelegationID)
	assert.Len(t, l.History("otto"), 2)
	assert.Len(t, l.Active("otto"), 2)

	got, err := l.Get(first.DelegationID)
	require.NoError(t, err)
	assert.Equal(t, first.ExpiresAt, got.ExpiresAt)

	now = now.Add(45 * time.Minute)
	assert.Len(t, l.Active("otto"), 1)
	assert.Equal(t, 1, l.Prune())

	_, err = l.Get(first.DelegationID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	got, err = l.Get(second.DelegationID)
	require.NoError(t, err)
	assert.Equal(t, second.DelegationID, got.DelegationID)
}

func TestDelegate_InvalidInput(t *testing.T) {
	l := New()
	ctx := context.Background()

	_, err := l.Delegate(ctx, "lyra", "otto", []string{"x"}, -time.Minute)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = l.Delegate(ctx, "lyra", "otto", []string{"x"}, 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = l.Delegate(ctx, "lyra", "", []string{"x"}, time.Minute)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = l.Delegate(ctx, "lyra", "otto", []string{" "}, time.Minute)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDelegate_ReturnsCopies(t *testing.T) {
	l := New()

	d, err := l.Delegate(context.Background(), "lyra", "otto", []string{"review"}, time.Hour)
	require.NoError(t, err)

	d.Privileges[0] = "admin"
	assert.False(t, l.HasPrivilege("otto", "admin"))
}

func TestDelegate_Records(t *testing.T) {
	mem := ledger.NewMemoryLedger()
	l := New(func(o *Options) { o.Recorder = ledger.NewRecorder(mem) })
	ctx := context.Background()

	_, err := l.Delegate(ctx, "lyra", "otto", []string{"review"}, time.Hour)
	require.NoError(t, err)

	files, err := mem.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "lyra_")
}
