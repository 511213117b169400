package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"usermgmt/internal/entities"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User
	order []string
}

// NewMemoryUserRepository creates a process-local user repository.
// Data is lost on restart; intended for development and tests.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users: make(map[string]*entities.User),
	}
}

func (r *memoryUserRepository) Insert(ctx context.Context, user *entities.User) (*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := &entities.User{
		ID:        uuid.NewString(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[created.ID] = created
	r.order = append(r.order, created.ID)

	out := *created
	return &out, nil
}

func (r *memoryUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entities.User, 0, len(r.order))
	for _, id := range r.order {
		u := *r.users[id]
		users = append(users, &u)
	}
	return users, nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *memoryUserRepository) UpdateByID(ctx context.Context, id string, update entities.UserUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Password != nil {
		user.Password = *update.Password
	}
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryUserRepository) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return nil
	}
	delete(r.users, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
