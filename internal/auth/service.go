// Package auth registers users and checks their credentials against the user store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EmpoweredVote/lego-catalog/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// UserStore persists users.
//
// InsertUser must report a username collision as apperr.ErrDuplicateKey, and
// FindUser / SetLoginHistory an unknown username as apperr.ErrNotFound.
type UserStore interface {
	InsertUser(ctx context.Context, u User) error
	FindUser(ctx context.Context, username string) (User, error)
	SetLoginHistory(ctx context.Context, username string, history []LoginEvent) error
}

// Service implements registration and authentication on top of a UserStore.
type Service struct {
	store UserStore
	cost  int
	now   func() time.Time
}

func NewService(store UserStore) *Service {
	return &Service{
		store: store,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
}

// Register hashes the password and inserts a user with an empty login history.
func (s *Service) Register(ctx context.Context, reg Registration) error {
	if reg.Password != reg.Password2 {
		return apperr.New(apperr.CodeValidation, "Passwords do not match")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return apperr.Wrap(apperr.CodeHashing, "There was an error encrypting the password", err)
	}

	err = s.store.InsertUser(ctx, User{
		Username:     reg.Username,
		Password:     string(hashed),
		Email:        reg.Email,
		LoginHistory: []LoginEvent{},
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperr.ErrDuplicateKey):
		return apperr.Wrap(apperr.CodeDuplicateKey, "User Name already taken", err)
	default:
		return apperr.Wrap(apperr.CodeStore, fmt.Sprintf("There was an error creating the user: %v", err), err)
	}
}

// Authenticate verifies the password, records the login and returns the user with
// the updated history. The history update is not guarded against concurrent logins
// of the same user; the last write wins.
func (s *Service) Authenticate(ctx context.Context, c Credentials) (User, error) {
	user, err := s.store.FindUser(ctx, c.Username)
	if errors.Is(err, apperr.ErrNotFound) {
		return User{}, apperr.Wrap(apperr.CodeNotFound, "Unable to find user: "+c.Username, err)
	}
	if err != nil {
		return User{}, apperr.Wrap(apperr.CodeStore, "Error finding user", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(c.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return User{}, apperr.New(apperr.CodeInvalidCredentials, "Incorrect Password for user: "+c.Username)
	}
	if err != nil {
		return User{}, apperr.Wrap(apperr.CodeComparison, "Error comparing passwords", err)
	}

	history := pushLogin(user.LoginHistory, LoginEvent{
		DateTime:  s.now(),
		UserAgent: c.UserAgent,
	})
	if err := s.store.SetLoginHistory(ctx, user.Username, history); err != nil {
		return User{}, apperr.Wrap(apperr.CodeStore, fmt.Sprintf("There was an error verifying the user: %v", err), err)
	}

	user.LoginHistory = history
	return user, nil
}
