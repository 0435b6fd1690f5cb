package signup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polytrigger/polytrigger/internal/ratelimit"
)

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil, nil)

	res, err := svc.Register(ctx, "trader@example.com", "landing", "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, res.AlreadyRegistered)

	res, err = svc.Register(ctx, "  trader@example.com  ", "landing", "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, res.AlreadyRegistered)
}

func TestService_RegisterRejectsInvalidEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, nil, nil)

	for _, email := range []string{"", "plainaddress", "no@tld", "two@@example.com", "sp ace@example.com"} {
		_, err := svc.Register(ctx, email, "landing", "203.0.113.7")
		assert.ErrorIs(t, err, ErrInvalidEmail, "email %q must be rejected", email)
	}

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_RegisterRateLimitsPerIP(t *testing.T) {
	ctx := context.Background()
	limiter := ratelimit.NewLimiter(0.001, 2)
	svc := NewService(NewMemoryStore(), limiter, nil)

	_, err := svc.Register(ctx, "a@example.com", "landing", "203.0.113.7")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "b@example.com", "landing", "203.0.113.7")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "c@example.com", "landing", "203.0.113.7")
	assert.ErrorIs(t, err, ErrRateLimited)

	// A different IP has its own bucket.
	_, err = svc.Register(ctx, "c@example.com", "landing", "198.51.100.9")
	require.NoError(t, err)
}
