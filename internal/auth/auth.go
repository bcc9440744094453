// Package auth registers users and checks their credentials.
package auth

import (
	"context"

	"github.com/pkg/errors"

	"gitlab.com/dirk.krummacker/contact-book/internal/apperr"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
)

// SignUpInput is the data entered on the registration form.
type SignUpInput struct {
	FirstName            string
	LastName             string
	Username             string
	Password             string
	PasswordConfirmation string
}

// DefaultUser describes the account that is created when the application starts for the first
// time.
type DefaultUser struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// Service implements sign up and log in.
type Service struct {
	users  store.UserRepository
	hasher Hasher
}

// NewService creates the auth service.
func NewService(users store.UserRepository, hasher Hasher) *Service {
	return &Service{users: users, hasher: hasher}
}

// SignUp creates a new user. It fails with apperr.ErrPasswordMismatch if the two passwords differ,
// with apperr.ErrPasswordTooLong if the password exceeds MaxPasswordLength bytes and with
// apperr.ErrUsernameTaken if the username is in use.
//
// The username check and the insert are separate statements. Two concurrent sign ups with the
// same username can both pass the check, the users table has no unique constraint to stop them.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	if in.Password != in.PasswordConfirmation {
		return nil, apperr.ErrPasswordMismatch
	}
	if len(in.Password) > MaxPasswordLength {
		return nil, apperr.ErrPasswordTooLong
	}
	exists, err := s.usernameExists(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrUsernameTaken
	}
	return s.create(ctx, in.FirstName, in.LastName, in.Username, in.Password)
}

// LogIn returns the user if the password matches. Unknown usernames and wrong passwords both
// yield apperr.ErrInvalidCredentials.
func (s *Service) LogIn(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	if !s.hasher.Check(password, user.Password) {
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureDefaultUser creates the default account unless a user with its username exists. It
// reports whether the account was created.
func (s *Service) EnsureDefaultUser(ctx context.Context, d DefaultUser) (bool, error) {
	exists, err := s.usernameExists(ctx, d.Username)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, err := s.create(ctx, d.FirstName, d.LastName, d.Username, d.Password); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) usernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "check username")
	}
	return true, nil
}

func (s *Service) create(ctx context.Context, firstName, lastName, username, password string) (*model.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	user := &model.User{
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Password:  digest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return user, nil
}
