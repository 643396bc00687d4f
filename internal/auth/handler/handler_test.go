package handler

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftcart/flashsale/internal/configs"
	"github.com/swiftcart/flashsale/internal/coordination"
	"github.com/swiftcart/flashsale/internal/repositories/sql/user"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextId int64
	users  map[string]*user.Table
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.Table)}
}

func (r *fakeUserRepo) GetByPhone(phone string) (*user.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	usr, ok := r.users[phone]
	if !ok {
		return nil, nil
	}
	copied := *usr
	return &copied, nil
}

func (r *fakeUserRepo) Create(table *user.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextId++
	table.Id = r.nextId
	r.users[table.Phone] = table
	return nil
}

func newTestAuth() (*AuthHandler, *fakeUserRepo, *coordination.MemoryStore) {
	users := newFakeUserRepo()
	store := coordination.NewMemoryStore()
	return New(users, store, configs.Configs{}), users, store
}

const testPhone = "13912345678"

func TestSendCodeRejectsBadPhone(t *testing.T) {
	auth, _, _ := newTestAuth()

	for _, phone := range []string{"", "12345", "23912345678", "139123456789"} {
		_, err := auth.SendCode(context.Background(), phone)
		assert.ErrorIs(t, err, ErrInvalidPhone, "phone %q", phone)
	}
}

func TestLoginCreatesUserOnFirstLogin(t *testing.T) {
	auth, users, _ := newTestAuth()
	ctx := context.Background()

	code, err := auth.SendCode(ctx, testPhone)
	require.NoError(t, err)
	require.Len(t, code, 6)

	token, err := auth.Login(ctx, testPhone, code)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	created, err := users.GetByPhone(testPhone)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Contains(t, created.NickName, nickNamePrefix)

	session, err := auth.SessionByToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, created.Id, session.UserId)
	assert.Equal(t, created.NickName, session.NickName)
}

func TestLoginReusesExistingUser(t *testing.T) {
	auth, users, _ := newTestAuth()
	ctx := context.Background()

	require.NoError(t, users.Create(&user.Table{Phone: testPhone, NickName: "existing"}))

	code, err := auth.SendCode(ctx, testPhone)
	require.NoError(t, err)
	token, err := auth.Login(ctx, testPhone, code)
	require.NoError(t, err)

	session, err := auth.SessionByToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "existing", session.NickName)
}

func TestLoginRejectsWrongCode(t *testing.T) {
	auth, _, _ := newTestAuth()
	ctx := context.Background()

	_, err := auth.SendCode(ctx, testPhone)
	require.NoError(t, err)

	_, err = auth.Login(ctx, testPhone, "000000x")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestLoginRejectsMissingCode(t *testing.T) {
	auth, _, _ := newTestAuth()

	_, err := auth.Login(context.Background(), testPhone, "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestSessionByTokenUnknownToken(t *testing.T) {
	auth, _, _ := newTestAuth()

	session, err := auth.SessionByToken(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, session)
}
