package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/pocketledger/internal/localstore"
	"github.com/jask/pocketledger/internal/model"
)

func newProvider(t *testing.T) (*LocalProvider, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "local.json")
	kv, err := localstore.OpenKV(path)
	require.NoError(t, err)
	return NewLocalProvider(kv), path
}

func TestSignUpAndSignIn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, _ := newProvider(t)

	var events []*model.User
	p.OnAuthChange(func(u *model.User) { events = append(events, u) })

	u, err := p.SignUp(ctx, "Tester", " Tester@Example.COM ", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "tester@example.com", u.Email, "email is normalized")
	require.Equal(t, "Tester", u.DisplayName)
	require.NotEmpty(t, u.UID)
	require.Len(t, events, 1)
	require.NotNil(t, events[0])

	_, err = p.SignUp(ctx, "Other", "tester@example.com", "hunter22")
	require.ErrorIs(t, err, ErrEmailTaken)

	require.NoError(t, p.SignOut(ctx))
	require.Len(t, events, 2)
	require.Nil(t, events[1])

	again, err := p.SignIn(ctx, "tester@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, u.UID, again.UID, "the same email always maps to the same uid")

	_, err = p.SignIn(ctx, "tester@example.com", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, _ := newProvider(t)

	_, err := p.SignUp(ctx, "T", "a@b.co", "hunter22")
	require.ErrorIs(t, err, model.ErrShortName)

	_, err = p.SignUp(ctx, "Tester", "not-an-email", "hunter22")
	require.ErrorIs(t, err, model.ErrInvalidEmail)

	_, err = p.SignUp(ctx, "Tester", "a@b.co", "short")
	require.ErrorIs(t, err, model.ErrShortPassword)
}

func TestSessionResumesAcrossRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, path := newProvider(t)

	u, err := p.SignUp(ctx, "Tester", "a@b.co", "hunter22")
	require.NoError(t, err)

	// a second provider over the same file stands in for a process restart
	kv, err := localstore.OpenKV(path)
	require.NoError(t, err)
	restarted := NewLocalProvider(kv)

	var got *model.User
	fired := false
	restarted.OnAuthChange(func(u *model.User) { got = u; fired = true })
	restarted.Start()
	require.True(t, fired)
	require.NotNil(t, got)
	require.Equal(t, u.UID, got.UID)
}

func TestStartWithoutSessionFiresNil(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)
	fired := false
	var got *model.User
	p.OnAuthChange(func(u *model.User) { got = u; fired = true })
	p.Start()
	require.True(t, fired)
	require.Nil(t, got)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, _ := newProvider(t)

	calls := 0
	unsub := p.OnAuthChange(func(*model.User) { calls++ })
	unsub()

	_, err := p.SignUp(ctx, "Tester", "a@b.co", "hunter22")
	require.NoError(t, err)
	require.Equal(t, 0, calls)
}

func TestPasswordsAreNotStoredInPlaintext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, _ := newProvider(t)

	_, err := p.SignUp(ctx, "Tester", "a@b.co", "hunter22secret")
	require.NoError(t, err)

	raw, ok := p.kv.GetItem("authAccounts")
	require.True(t, ok)
	require.NotContains(t, raw, "hunter22secret")
}
