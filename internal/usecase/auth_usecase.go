package usecase

import (
	"context"
	"strings"
	"time"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
	"ecosprout/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	hasher   PasswordHasher
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenIssuer, hasher PasswordHasher) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=buyer seller both"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	role := input.Role
	if role == "" {
		role = entity.RoleBuyer
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to secure password", err)
	}

	now := time.Now()
	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         role,
		Phone:        strings.TrimSpace(input.Phone),
		TrustScore:   entity.DefaultTrustScore,
		EcoPoints:    entity.DefaultEcoPoints,
		Badges:       []string{entity.BadgeNewcomer},
		LastActive:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Email uniqueness is enforced by the store so concurrent sign-ups can't both win.
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return uc.issue(user)
}

// Login answers 401 for both unknown emails and wrong passwords.
func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Invalid credentials", nil)
		}
		return nil, err
	}
	if !uc.hasher.Compare(user.PasswordHash, input.Password) {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}

	touched, err := uc.userRepo.UpdateFunc(ctx, user.ID, func(u *entity.User) error {
		u.LastActive = time.Now()
		return nil
	})
	if err != nil {
		logger.Warn("Failed to record last activity for user %s: %v", user.ID, err)
	} else {
		user = touched
	}

	return uc.issue(user)
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *AuthUseCase) issue(user *entity.User) (*AuthResult, error) {
	token, expiresAt, err := uc.tokens.Issue(user.ID, user.Role, user.IsAdmin)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
