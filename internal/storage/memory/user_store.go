package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// UserStore is an in-memory implementation of interfaces.UserStore.
type UserStore struct {
	mu      sync.Mutex
	byEmail map[string]models.User
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{byEmail: make(map[string]models.User)}
}

// CreateUser inserts a new user, enforcing email uniqueness.
func (s *UserStore) CreateUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return interfaces.ErrEmailTaken
	}
	s.byEmail[key] = user
	return nil
}

// GetUserByEmail returns the user registered with the given email.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, interfaces.ErrUserNotFound
	}
	return user, nil
}

var _ interfaces.UserStore = (*UserStore)(nil)
