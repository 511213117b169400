package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"usermgmt/internal/entities"
)

// ErrUserNotFound is returned when no user matches the given ID
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user store operations
type UserRepository interface {
	Insert(ctx context.Context, user *entities.User) (*entities.User, error)
	FindAll(ctx context.Context) ([]*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	UpdateByID(ctx context.Context, id string, update entities.UserUpdate) error
	DeleteByID(ctx context.Context, id string) error
}

type postgresUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL backed user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

// Insert stores a new user and returns it with the generated ID
func (r *postgresUserRepository) Insert(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password, created_at, updated_at
	`

	var created entities.User
	err := r.db.QueryRowContext(ctx, query, user.Name, user.Email, user.Password).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.Password,
		&created.CreatedAt,
		&created.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

// FindAll returns every user in insertion order
func (r *postgresUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	query := `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	users := []*entities.User{}
	for rows.Next() {
		var user entities.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Password,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// FindByID finds a user by ID (UUID)
func (r *postgresUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	// A malformed UUID can never match a row; postgres would reject it as a syntax error
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}

	query := `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user entities.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// UpdateByID merges the set fields of update into the user row
func (r *postgresUserRepository) UpdateByID(ctx context.Context, id string, update entities.UserUpdate) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrUserNotFound
	}

	sets := []string{}
	args := []interface{}{}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("name", update.Name)
	add("email", update.Email)
	add("password", update.Password)
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteByID removes a user. Deleting an unknown ID is not an error.
func (r *postgresUserRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
