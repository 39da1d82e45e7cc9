package services

import (
	"context"
	"errors"
	"time"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/gofrs/uuid"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TokenIssuer interface {
	Issue(user *models.User) (string, error)
	TTL() time.Duration
}

// profilePolicy governs /users/:id. A caller addressing another user's
// profile is told it is forbidden.
const profilePolicy = RejectForbidden

const (
	msgEmailInUse         = "Email already in use"
	msgInvalidCredentials = "Invalid credentials"
	msgUserNotFound       = "User not found"
)

type LoginUser struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"displayName"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
	User      LoginUser `json:"user"`
}

type UserService struct {
	users  UserStore
	hasher *PasswordHasher
	tokens TokenIssuer
}

func NewUserService(users UserStore, hasher *PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a user. The email is stored exactly as given.
func (s *UserService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.Conflict(msgEmailInUse)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Dependency("lookup user by email", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Internal("hash password", err)
	}

	user := &models.User{
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict(msgEmailInUse)
		}
		return nil, apperrors.Dependency("create user", err)
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, in models.LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthenticated(msgInvalidCredentials)
		}
		return nil, apperrors.Dependency("lookup user by email", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, apperrors.Unauthenticated(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Internal("issue token", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User: LoginUser{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	}, nil
}

// Me returns the caller's profile. A token for a user that no longer exists
// is treated as unauthenticated.
func (s *UserService) Me(ctx context.Context, caller uuid.UUID) (*models.Profile, error) {
	user, err := s.users.FindByID(ctx, caller)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthenticated("Unauthorized")
		}
		return nil, apperrors.Dependency("load user", err)
	}
	profile := user.Profile()
	return &profile, nil
}

// List returns the profiles visible to caller, which is only their own.
func (s *UserService) List(ctx context.Context, caller uuid.UUID) ([]models.Profile, error) {
	user, err := s.users.FindByID(ctx, caller)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return []models.Profile{}, nil
		}
		return nil, apperrors.Dependency("load user", err)
	}
	return []models.Profile{user.Profile()}, nil
}

func (s *UserService) Get(ctx context.Context, caller, id uuid.UUID) (*models.Profile, error) {
	user, err := s.lookup(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *UserService) Update(ctx context.Context, caller, id uuid.UUID, in models.UpdateUserInput) (*models.Profile, error) {
	if err := profilePolicy.Check(caller, id, msgUserNotFound); err != nil {
		return nil, err
	}
	if in.NewPassword != nil && in.CurrentPassword == nil {
		return nil, apperrors.Validation("Current password required to set a new password")
	}

	user, err := s.lookup(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		existing, err := s.users.FindByEmail(ctx, *in.Email)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, apperrors.Conflict(msgEmailInUse)
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.Dependency("lookup user by email", err)
		}
		user.Email = *in.Email
	}

	if in.NewPassword != nil {
		if !s.hasher.Verify(*in.CurrentPassword, user.PasswordHash) {
			return nil, apperrors.Validation("Current password is incorrect")
		}
		hash, err := s.hasher.Hash(*in.NewPassword)
		if err != nil {
			return nil, apperrors.Internal("hash password", err)
		}
		user.PasswordHash = hash
	}

	if in.DisplayName != nil {
		user.DisplayName = in.DisplayName
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, apperrors.Conflict(msgEmailInUse)
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NotFound(msgUserNotFound)
		}
		return nil, apperrors.Dependency("update user", err)
	}

	updated, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		profile := user.Profile()
		return &profile, nil
	}
	profile := updated.Profile()
	return &profile, nil
}

// Delete removes the caller's account and all of their tasks.
func (s *UserService) Delete(ctx context.Context, caller, id uuid.UUID) error {
	if err := profilePolicy.Check(caller, id, msgUserNotFound); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound(msgUserNotFound)
		}
		return apperrors.Dependency("delete user", err)
	}
	return nil
}

func (s *UserService) lookup(ctx context.Context, caller, id uuid.UUID) (*models.User, error) {
	if err := profilePolicy.Check(caller, id, msgUserNotFound); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(msgUserNotFound)
		}
		return nil, apperrors.Dependency("load user", err)
	}
	return user, nil
}
