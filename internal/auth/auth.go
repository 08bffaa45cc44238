// Package auth is the identity provider boundary. The engine only depends
// on the callback contract (sign-in/sign-out notifications plus a stable
// user id); LocalProvider is the shipped implementation, keeping account
// records and the resumable session in the local key/value store.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jask/pocketledger/internal/localstore"
	"github.com/jask/pocketledger/internal/model"
)

var (
	ErrEmailTaken         = errors.New("email address is already in use")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// Provider is the identity contract: a callback invoked with the signed-in
// user or nil, and session operations. Callbacks may fire more than once
// for the same transition; consumers guard with their own idempotency
// markers.
type Provider interface {
	OnAuthChange(fn func(*model.User)) (unsubscribe func())
	Start()
	SignUp(ctx context.Context, name, email, password string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.User, error)
	SignOut(ctx context.Context) error
}

const (
	keyAccounts = "authAccounts"
	keySession  = "authSession"
)

type account struct {
	UID          string `json:"uid"`
	DisplayName  string `json:"displayName"`
	Email        string `json:"email"`
	Salt         string `json:"salt"`
	PasswordHash string `json:"passwordHash"`
}

type session struct {
	Email string `json:"email"`
}

// LocalProvider stores accounts in the KV file (salted sha256, 0600 file
// via the store) and persists the active session so it resumes on start.
type LocalProvider struct {
	kv *localstore.KV

	mu        sync.Mutex
	nextSub   int
	callbacks map[int]func(*model.User)
}

func NewLocalProvider(kv *localstore.KV) *LocalProvider {
	return &LocalProvider{kv: kv, callbacks: map[int]func(*model.User){}}
}

// OnAuthChange registers fn and returns its unsubscribe func. fn is not
// invoked until Start or the next transition.
func (p *LocalProvider) OnAuthChange(fn func(*model.User)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextSub++
	id := p.nextSub
	p.callbacks[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.callbacks, id)
	}
}

// Start fires the callbacks with the resumed session, or nil when the
// process starts unauthenticated.
func (p *LocalProvider) Start() {
	p.fire(p.current())
}

// SignUp creates an account, signs it in and notifies listeners.
func (p *LocalProvider) SignUp(ctx context.Context, name, email, password string) (*model.User, error) {
	_ = ctx
	email = normalizeEmail(email)
	if err := model.ValidateName(name); err != nil {
		return nil, err
	}
	if err := model.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, err
	}
	accounts := p.accounts()
	if _, ok := accounts[email]; ok {
		return nil, ErrEmailTaken
	}
	salt := newSalt()
	acct := account{
		UID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte("user:"+email)).String(),
		DisplayName:  strings.TrimSpace(name),
		Email:        email,
		Salt:         salt,
		PasswordHash: hashPassword(password, salt),
	}
	accounts[email] = acct
	if err := p.saveAccounts(accounts); err != nil {
		return nil, err
	}
	return p.establish(acct)
}

// SignIn verifies credentials, persists the session and notifies listeners.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	_ = ctx
	email = normalizeEmail(email)
	acct, ok := p.accounts()[email]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	expected := hashPassword(password, acct.Salt)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(acct.PasswordHash)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return p.establish(acct)
}

// SignOut clears the session and notifies listeners with nil.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	_ = ctx
	if err := p.kv.RemoveItem(keySession); err != nil {
		return err
	}
	p.fire(nil)
	return nil
}

func (p *LocalProvider) establish(acct account) (*model.User, error) {
	raw, err := json.Marshal(session{Email: acct.Email})
	if err != nil {
		return nil, err
	}
	if err := p.kv.SetItem(keySession, string(raw)); err != nil {
		return nil, err
	}
	u := acct.user()
	p.fire(&u)
	return &u, nil
}

func (p *LocalProvider) current() *model.User {
	raw, ok := p.kv.GetItem(keySession)
	if !ok {
		return nil
	}
	var s session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil
	}
	acct, ok := p.accounts()[s.Email]
	if !ok {
		return nil
	}
	u := acct.user()
	return &u
}

func (p *LocalProvider) accounts() map[string]account {
	out := map[string]account{}
	raw, ok := p.kv.GetItem(keyAccounts)
	if !ok {
		return out
	}
	_ = json.Unmarshal([]byte(raw), &out)
	return out
}

func (p *LocalProvider) saveAccounts(accounts map[string]account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	return p.kv.SetItem(keyAccounts, string(raw))
}

func (p *LocalProvider) fire(u *model.User) {
	p.mu.Lock()
	fns := make([]func(*model.User), 0, len(p.callbacks))
	for _, fn := range p.callbacks {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(u)
	}
}

func (a account) user() model.User {
	name := a.DisplayName
	if name == "" {
		name = "User"
	}
	return model.User{UID: a.UID, DisplayName: name, Email: a.Email}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newSalt() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}

func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return base64.StdEncoding.EncodeToString(sum[:])
}
