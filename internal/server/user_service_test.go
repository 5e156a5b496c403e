package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB is an in-memory DBClient for unit testing the user service.
type fakeDB struct {
	users map[uuid.UUID]*db.User
}

func newFakeDB() *fakeDB {
	return &fakeDB{users: make(map[uuid.UUID]*db.User)}
}

func (f *fakeDB) CheckEmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now()
	f.users[id] = &db.User{ID: id, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (f *fakeDB) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	if u, ok := f.users[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeDB) GetUser(_ context.Context, userID uuid.UUID) (*db.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func newUserService() (*UserService, *fakeDB) {
	fake := newFakeDB()
	return NewUserService(fake, &config.PasswordConfig{BcryptCost: 10}), fake
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "correcthorse",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	got, err := svc.Login(ctx, &types.LoginRequest{Email: "ada@example.com", Password: "correcthorse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{Name: "a", Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &types.CreateUserRequest{Name: "b", Email: "dup@example.com", Password: "password2"})
	var dup *ErrEmailAlreadyExists
	require.ErrorAs(t, err, &dup)
}

func TestUserService_LoginFailuresAreGeneric(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{Name: "a", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	// Unknown email and wrong password produce the same error type, so
	// responses cannot be used to probe which emails are registered.
	_, errUnknown := svc.Login(ctx, &types.LoginRequest{Email: "ghost@example.com", Password: "password1"})
	_, errWrongPw := svc.Login(ctx, &types.LoginRequest{Email: "a@example.com", Password: "wrong"})

	var invalid *ErrInvalidCredentials
	require.ErrorAs(t, errUnknown, &invalid)
	require.ErrorAs(t, errWrongPw, &invalid)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "a", Email: "pw@example.com", Password: "oldpassword"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "oldpassword", "newpassword"))

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "pw@example.com", Password: "oldpassword"})
	assert.Error(t, err)
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "pw@example.com", Password: "newpassword"})
	assert.NoError(t, err)
}

func TestUserService_UpdatePasswordWrongCurrent(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "a", Email: "x@example.com", Password: "oldpassword"})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.ID, "not-the-password", "newpassword")
	var mismatch *ErrPasswordMismatch
	require.ErrorAs(t, err, &mismatch)

	err = svc.UpdatePassword(ctx, uuid.New(), "oldpassword", "newpassword")
	var notFound *ErrUserNotFound
	require.ErrorAs(t, err, &notFound)
}
