package services

import (
	"errors"
	"fmt"

	"issuetrack-restful/models"
	"issuetrack-restful/policy"
	"issuetrack-restful/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService defines the user-management business operations.
type UserService interface {
	CreateUser(input *CreateUserInput) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateUser(actor policy.Identity, targetID uint, input *UpdateUserInput) (*models.User, error)
	DeleteUser(actor policy.Identity, targetID uint) (*models.User, error)
	ListUsers(actor policy.Identity) ([]UserProjection, error)
}

// CreateUserInput carries the sign-up payload. All fields are required.
type CreateUserInput struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput uses pointers to distinguish absent fields from empty
// ones; only present fields overwrite stored values.
type UpdateUserInput struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

// UserProjection is the admin list view: no id, no password hash.
type UserProjection struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type userService struct {
	repo repositories.UserRepository
}

var _ UserService = (*userService)(nil)

// NewUserService creates a new UserService instance.
func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

// CreateUser registers a new account. Uniqueness of email and username is
// checked before the insert; the password is stored as a bcrypt hash and
// never returned in plain form.
func (s *userService) CreateUser(input *CreateUserInput) (*models.User, error) {
	if input.Username == "" || input.Name == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: username, name and email are required", ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	role, err := models.ParseRole(input.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.repo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking existing email: %w", err)
	}

	if _, err := s.repo.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking existing username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	user := models.User{
		Username: input.Username,
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.repo.Create(&user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser applies a partial merge to the target record. Only the record
// owner or an admin may mutate it.
func (s *userService) UpdateUser(actor policy.Identity, targetID uint, input *UpdateUserInput) (*models.User, error) {
	if !policy.CanMutateUser(actor, targetID) {
		return nil, ErrForbidden
	}

	user, err := s.repo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, targetID)
		}
		return nil, err
	}

	changed := false

	if input.Email != nil && *input.Email != user.Email {
		existing, err := s.repo.FindByEmail(*input.Email)
		if err == nil && existing.ID != user.ID {
			return nil, fmt.Errorf("%w: email already in use by another account", ErrConflict)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("checking email uniqueness: %w", err)
		}
	}
	changed = patch(&user.Email, input.Email) || changed

	if input.Username != nil && *input.Username != user.Username {
		existing, err := s.repo.FindByUsername(*input.Username)
		if err == nil && existing.ID != user.ID {
			return nil, fmt.Errorf("%w: username already in use by another account", ErrConflict)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("checking username uniqueness: %w", err)
		}
	}
	changed = patch(&user.Username, input.Username) || changed

	changed = patch(&user.Name, input.Name) || changed

	if input.Role != nil {
		role, err := models.ParseRole(*input.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if user.Role != role {
			user.Role = role
			changed = true
		}
	}

	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("could not hash new password: %w", err)
		}
		user.Password = string(hashedPassword)
		changed = true
	}

	if changed {
		if err := s.repo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to save user updates: %w", err)
		}
	}
	return user, nil
}

// DeleteUser removes the target record and returns its prior state so the
// caller can roll back an optimistic UI removal.
func (s *userService) DeleteUser(actor policy.Identity, targetID uint) (*models.User, error) {
	if !policy.CanMutateUser(actor, targetID) {
		return nil, ErrForbidden
	}

	user, err := s.repo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, targetID)
		}
		return nil, err
	}

	if err := s.repo.Delete(user); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return user, nil
}

// ListUsers returns the admin table projection. Non-admin callers get
// ErrForbidden; the controller renders that as an empty placeholder rather
// than an error, matching the dashboard contract.
func (s *userService) ListUsers(actor policy.Identity) ([]UserProjection, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	users, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	projections := make([]UserProjection, len(users))
	for i, u := range users {
		projections[i] = UserProjection{Name: u.Name, Email: u.Email, Role: u.Role}
	}
	return projections, nil
}
