package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/port"
	"github.com/alirezakafim/pardis/internal/auth"
	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// ErrInvalidCredentials is returned for a failed login; it deliberately
// does not distinguish unknown user from wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserInput carries the fields for creating or updating a user.
type UserInput struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

func (in UserInput) roles() ([]workflow.Role, error) {
	roles := make([]workflow.Role, 0, len(in.Roles))
	for _, r := range in.Roles {
		role := workflow.Role(r)
		if !role.IsValid() {
			return nil, fmt.Errorf("%w: unknown role %q", workflow.ErrInvalidPayload, r)
		}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		roles = append(roles, workflow.RoleRequester)
	}
	return roles, nil
}

// UserService owns accounts, login and the startup admin bootstrap.
type UserService struct {
	users  port.UserRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewUserService creates a user service.
func NewUserService(users port.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login verifies credentials and issues a token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *entity.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Register creates a new account. Only admins may grant roles beyond
// requester.
func (s *UserService) Register(ctx context.Context, actor workflow.Actor, in UserInput) (*entity.User, error) {
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", workflow.ErrInvalidPayload)
	}

	roles, err := in.roles()
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		for _, r := range roles {
			if r != workflow.RoleRequester {
				return nil, fmt.Errorf("%w: only admins may grant role %s", workflow.ErrForbidden, r)
			}
		}
	}

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, fmt.Errorf("%w: username %q is taken", workflow.ErrInvalidPayload, in.Username)
	} else if !errors.Is(err, workflow.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		FullName:     in.FullName,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("id", u.ID),
		zap.String("username", u.Username))
	return u, nil
}

// Get returns one user. Users see themselves; admins see everyone.
func (s *UserService) Get(ctx context.Context, actor workflow.Actor, id string) (*entity.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, workflow.ErrForbidden
	}
	return s.users.FindByID(ctx, id)
}

// List returns all users; admin only.
func (s *UserService) List(ctx context.Context, actor workflow.Actor) ([]*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, workflow.ErrForbidden
	}
	return s.users.FindAll(ctx)
}

// Update changes a user's full name, roles and optionally password; admin
// only.
func (s *UserService) Update(ctx context.Context, actor workflow.Actor, id string, in UserInput) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, workflow.ErrForbidden
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if len(in.Roles) > 0 {
		roles, err := in.roles()
		if err != nil {
			return nil, err
		}
		u.Roles = roles
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user; admin only. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor workflow.Actor, id string) error {
	if !actor.IsAdmin() {
		return workflow.ErrForbidden
	}
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete own account", workflow.ErrInvalidAction)
	}
	return s.users.Delete(ctx, id)
}

// EnsureAdmin creates the bootstrap admin account if no user holds it yet.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password, fullName string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, workflow.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	u := &entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     fullName,
		PasswordHash: hash,
		Roles:        []workflow.Role{workflow.RoleAdmin},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}

	s.logger.Info("bootstrap admin created", zap.String("username", username))
	return nil
}
