package pkg

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("access", "refresh")
	pair, err := m.GeneratePair(42, "admin")
	require.NoError(t, err)

	claims, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, err = m.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = m.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)

	claims, err = m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)

	other := NewJWTManager("other", "other")
	_, err = other.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTManagerExpiry(t *testing.T) {
	m := NewJWTManager("access", "refresh")
	issued := time.Now()
	m.now = func() time.Time { return issued }
	pair, err := m.GeneratePair(1, "user")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(AccessTTL + time.Minute) }
	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
	_, err = m.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)

	m.now = func() time.Time { return issued.Add(RefreshTTL + time.Minute) }
	_, err = m.ParseRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshExpired)
}

func TestErrorMatching(t *testing.T) {
	custom := ErrUserNotFound.WithMsg("user not found: x@y.com")
	assert.True(t, errors.Is(custom, ErrUserNotFound))
	assert.Equal(t, "user not found", ErrUserNotFound.Msg)
	assert.True(t, errors.Is(ErrUnknownLeader, ErrUserNotFound))
	assert.False(t, errors.Is(ErrForbidden, ErrUserNotFound))

	wrapped := fmt.Errorf("approve: %w", ErrRequestNotFound)
	e, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, e.Kind)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{in: "Hello, World!", want: "hello-world"},
		{in: "  Çağrı   Işık  Ödülü ", want: "cagri-isik-odulu"},
		{in: "İstanbul 2025 -- Spring", want: "istanbul-2025-spring"},
		{in: "***", want: ""},
		{in: "Straße & Ærø", want: "strasse-aero"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestRandToken(t *testing.T) {
	a, err := RandToken(16)
	require.NoError(t, err)
	b, err := RandToken(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
