package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/dirk.krummacker/contact-book/internal/apperr"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
)

// fakeUsers is an in-memory UserRepository.
type fakeUsers struct {
	users   []model.User
	findErr error
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	user.Id = int64(len(f.users) + 1)
	f.users = append(f.users, *user)
	return nil
}

func newTestService() (*Service, *fakeUsers) {
	users := &fakeUsers{}
	return NewService(users, NewBcryptHasher(bcrypt.MinCost)), users
}

func TestSignUp(t *testing.T) {
	svc, users := newTestService()

	user, err := svc.SignUp(context.Background(), SignUpInput{
		FirstName: "Alice", LastName: "Smith", Username: "alice", Password: "pw1", PasswordConfirmation: "pw1",
	})
	require.NoError(t, err)
	require.Len(t, users.users, 1)
	assert.Equal(t, int64(1), user.Id)
	assert.Equal(t, "alice", users.users[0].Username)
	assert.NotEqual(t, "pw1", users.users[0].Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.users[0].Password), []byte("pw1")))
}

func TestSignUpPasswordMismatch(t *testing.T) {
	svc, users := newTestService()

	_, err := svc.SignUp(context.Background(), SignUpInput{Username: "alice", Password: "pw1", PasswordConfirmation: "pw2"})
	assert.ErrorIs(t, err, apperr.ErrPasswordMismatch)
	assert.Empty(t, users.users)
}

func TestSignUpPasswordTooLong(t *testing.T) {
	svc, users := newTestService()
	long := strings.Repeat("x", MaxPasswordLength+8)

	_, err := svc.SignUp(context.Background(), SignUpInput{Username: "alice", Password: long, PasswordConfirmation: long})
	assert.ErrorIs(t, err, apperr.ErrPasswordTooLong)
	assert.Empty(t, users.users)

	longest := strings.Repeat("x", MaxPasswordLength)
	_, err = svc.SignUp(context.Background(), SignUpInput{Username: "alice", Password: longest, PasswordConfirmation: longest})
	require.NoError(t, err)
	_, err = svc.LogIn(context.Background(), "alice", longest)
	assert.NoError(t, err)
}

func TestEnsureDefaultUserPasswordTooLong(t *testing.T) {
	svc, users := newTestService()
	d := DefaultUser{Username: "cmps369", Password: strings.Repeat("r", 80)}

	created, err := svc.EnsureDefaultUser(context.Background(), d)
	assert.False(t, created)
	assert.ErrorIs(t, err, apperr.ErrPasswordTooLong)
	assert.Empty(t, users.users)
}

func TestSignUpUsernameTaken(t *testing.T) {
	svc, users := newTestService()
	users.users = []model.User{{Id: 1, Username: "alice", Password: "x"}}

	_, err := svc.SignUp(context.Background(), SignUpInput{Username: "alice", Password: "pw1", PasswordConfirmation: "pw1"})
	assert.ErrorIs(t, err, apperr.ErrUsernameTaken)
	assert.Len(t, users.users, 1)

	// the match is case-sensitive
	_, err = svc.SignUp(context.Background(), SignUpInput{Username: "Alice", Password: "pw1", PasswordConfirmation: "pw1"})
	assert.NoError(t, err)
	assert.Len(t, users.users, 2)
}

func TestSignUpRepositoryError(t *testing.T) {
	svc, users := newTestService()
	users.findErr = errors.New("db down")

	_, err := svc.SignUp(context.Background(), SignUpInput{Username: "alice", Password: "pw1", PasswordConfirmation: "pw1"})
	assert.EqualError(t, err, "check username: db down")
	_, isAppErr := apperr.As(err)
	assert.False(t, isAppErr)
}

func TestLogIn(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.SignUp(context.Background(), SignUpInput{
		FirstName: "Alice", LastName: "Smith", Username: "alice", Password: "pw1", PasswordConfirmation: "pw1",
	})
	require.NoError(t, err)

	user, err := svc.LogIn(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, created, user)
}

// TestLogInFailuresAreIndistinguishable expects the same error for a wrong password and an
// unknown user.
func TestLogInFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.SignUp(context.Background(), SignUpInput{Username: "alice", Password: "pw1", PasswordConfirmation: "pw1"})
	require.NoError(t, err)

	_, wrongPassword := svc.LogIn(context.Background(), "alice", "nope")
	_, unknownUser := svc.LogIn(context.Background(), "bob", "pw1")

	assert.ErrorIs(t, wrongPassword, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, apperr.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestEnsureDefaultUser(t *testing.T) {
	svc, users := newTestService()
	d := DefaultUser{FirstName: "Default", LastName: "Profile", Username: "cmps369", Password: "rcnj"}

	created, err := svc.EnsureDefaultUser(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureDefaultUser(context.Background(), d)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, users.users, 1)

	_, err = svc.LogIn(context.Background(), "cmps369", "rcnj")
	assert.NoError(t, err)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(0)
	digest, err := h.Hash("secret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.True(t, h.Check("secret", digest))
	assert.False(t, h.Check("Secret", digest))
	assert.False(t, h.Check("secret", "not a digest"))
}
