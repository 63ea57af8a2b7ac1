package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/port"
	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
	"github.com/alirezakafim/pardis/internal/infrastructure/persistence/sqlite"
)

// UserRepository implements port.UserRepository. Roles are stored as a
// JSON array so role fan-out can query them with json_each.
type UserRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlite.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = "id, username, full_name, password_hash, roles, created_at"

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	roles, err := json.Marshal(u.Roles)
	if err != nil {
		return fmt.Errorf("failed to marshal roles: %w", err)
	}

	query := `
		INSERT INTO users (id, username, full_name, password_hash, roles, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Executor(ctx).ExecContext(ctx, query,
		u.ID, u.Username, u.FullName, u.PasswordHash, string(roles), u.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("username", u.Username), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by id
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ?", userColumns)
	return r.scanOne(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
}

// FindByUsername retrieves a user by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE username = ?", userColumns)
	return r.scanOne(r.db.Executor(ctx).QueryRowContext(ctx, query, username))
}

// FindByRole retrieves every user holding a role
func (r *UserRepository) FindByRole(ctx context.Context, role workflow.Role) ([]*entity.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE EXISTS (SELECT 1 FROM json_each(users.roles) WHERE json_each.value = ?)
		ORDER BY username
	`, userColumns)
	return r.scanMany(ctx, query, role.String())
}

// FindAll retrieves all users
func (r *UserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY username", userColumns)
	return r.scanMany(ctx, query)
}

// Update persists changes to a user
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	roles, err := json.Marshal(u.Roles)
	if err != nil {
		return fmt.Errorf("failed to marshal roles: %w", err)
	}

	query := `
		UPDATE users SET username = ?, full_name = ?, password_hash = ?, roles = ?
		WHERE id = ?
	`
	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		u.Username, u.FullName, u.PasswordHash, string(roles), u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*entity.User, error) {
	u, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) scanMany(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(scan func(...any) error) (*entity.User, error) {
	var u entity.User
	var roles string
	var createdAt time.Time
	if err := scan(&u.ID, &u.Username, &u.FullName, &u.PasswordHash, &roles, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if err := json.Unmarshal([]byte(roles), &u.Roles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roles: %w", err)
	}
	u.CreatedAt = createdAt
	return &u, nil
}

// Verify interface compliance
var _ port.UserRepository = (*UserRepository)(nil)
