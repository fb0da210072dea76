package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/platinummonkey/todo/pkg/auth"
	"github.com/platinummonkey/todo/pkg/storage"
)

const userColumns = `id, email, password_hash, created_at, updated_at`

// UserStore implements storage.UserStore
type UserStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserStore creates a user store over db
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, now: utcNow}
}

// CreateUser inserts a user. A duplicate email yields storage.ErrConflict.
func (s *UserStore) CreateUser(ctx context.Context, email, passwordHash string) (*auth.User, error) {
	now := s.now()
	query := `
		INSERT INTO users (email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id
	`

	var id int64
	if err := s.db.QueryRowContext(ctx, query, email, passwordHash, now).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", mapError(err))
	}

	return &auth.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetUserByEmail looks a user up by normalized email
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", mapError(err))
	}
	return user, nil
}

// GetUserByID looks a user up by id
func (s *UserStore) GetUserByID(ctx context.Context, id int64) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", mapError(err))
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of update
func (s *UserStore) UpdateUser(ctx context.Context, id int64, update storage.UserUpdate) (*auth.User, error) {
	var sets []string
	var args []interface{}

	if update.Email != nil {
		args = append(args, *update.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if update.PasswordHash != nil {
		args = append(args, *update.PasswordHash)
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	args = append(args, s.now())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", mapError(err))
	}
	if err := expectRow(res); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

func scanUser(row *sql.Row) (*auth.User, error) {
	var u auth.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// utcNow truncates to the microsecond precision PostgreSQL stores
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

var _ storage.UserStore = (*UserStore)(nil)
