package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/domain/model"
)

func TestMemoryTokenStore(t *testing.T) {
	s := NewMemoryTokenStore("")
	_, ok := s.Token()
	assert.False(t, ok)

	s.SetToken("abc")
	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
	assert.Equal(t, 1, s.Sets())

	s.ClearToken()
	_, ok = s.Token()
	assert.False(t, ok)
}

func TestMemorySessionCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySessionCache()

	_, err := c.Get(ctx, "t")
	assert.Equal(t, ErrNotFound, err)

	require.NoError(t, c.Put(ctx, "t", domainauth.User{ID: 1, Email: "a@b.co"}))
	u, err := c.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	require.NoError(t, c.Delete(ctx, "t"))
	assert.Equal(t, 0, c.Len())
}

func TestFakeBackend_LoginWritesToken(t *testing.T) {
	ctx := context.Background()
	tokens := NewMemoryTokenStore("")
	user := domainauth.User{ID: 7, Email: "jane@example.com", Name: "Jane"}
	b := NewFakeBackend(tokens, user, "secret1")

	_, err := b.Login(ctx, domainauth.Credentials{Email: user.Email, Password: "wrong"})
	var authErr *domainauth.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)

	res, err := b.Login(ctx, domainauth.Credentials{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, TokenFor(user.Email), res.Token)

	tok, ok := tokens.Token()
	require.True(t, ok)
	assert.Equal(t, res.Token, tok)

	got, err := b.GetAuthUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, *got)
	assert.Equal(t, 2, b.Calls("Login"))
}

func TestFakeBackend_CreateAndDeleteLabel(t *testing.T) {
	ctx := context.Background()
	b := NewFakeBackend(nil, domainauth.User{Email: "x@y.z"}, "pw")
	b.Categories = []model.Category{{ID: 1, Name: "A"}}

	l, err := b.CreateLabel(ctx, model.CreateLabelRequest{Name: "urgent", CategoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{ID: 1, Name: "A"}}, l.Categories)

	labels, err := b.GetLabels(ctx)
	require.NoError(t, err)
	assert.Len(t, labels, 1)

	require.NoError(t, b.DeleteLabel(ctx, l.ID))
	assert.Error(t, b.DeleteLabel(ctx, l.ID))
}
