package session

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/apiclient/errors"
)

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestMemory_SetAndClear(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, "", m.Token())
	assert.False(t, m.LoggedIn())

	m.Set("abc", "pybo")
	assert.Equal(t, "abc", m.Token())
	assert.Equal(t, "pybo", m.Username())
	assert.True(t, m.LoggedIn())

	m.Clear()
	assert.Equal(t, "", m.Token())
	assert.Equal(t, "", m.Username())
	assert.False(t, m.LoggedIn())
}

func TestMemory_SetEmptyTokenIsNotLoggedIn(t *testing.T) {
	m := NewMemory()
	m.Set("", "pybo")
	assert.False(t, m.LoggedIn())
}

func TestMemory_Claims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	m := NewMemory()
	m.Set(signed(t, jwt.RegisteredClaims{
		Subject:   "pybo",
		ExpiresAt: jwt.NewNumericDate(exp),
	}), "pybo")

	c, err := m.Claims()
	require.NoError(t, err)
	assert.Equal(t, "pybo", c.Subject)
	assert.True(t, c.ExpiresAt.Equal(exp))

	assert.False(t, m.Expired(time.Now()))
	assert.True(t, m.Expired(exp))
	assert.True(t, m.Expired(exp.Add(time.Minute)))
}

func TestMemory_ExpiredWithoutToken(t *testing.T) {
	m := NewMemory()
	assert.False(t, m.Expired(time.Now()))

	m.Set("not-a-jwt", "pybo")
	assert.False(t, m.Expired(time.Now()))
}

func TestParseClaims_Errors(t *testing.T) {
	_, err := ParseClaims("")
	assert.True(t, errors.IsKind(err, errors.KindInvalid))

	_, err = ParseClaims("a.b.c")
	assert.True(t, errors.IsKind(err, errors.KindDecode))
}

func TestMemory_Concurrent(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Set("token", "user")
		}()
		go func() {
			defer wg.Done()
			_ = m.Token()
			m.Clear()
		}()
	}
	wg.Wait()
}

func TestStatic(t *testing.T) {
	var s Store = Static("fixed")
	s.Clear()
	assert.Equal(t, "fixed", s.Token())
}
