package usecase

import (
	"context"
	"strings"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

func NewUserUseCase(userRepo repository.UserRepository, hasher PasswordHasher) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

type AddressInput struct {
	Street  string `json:"street" validate:"max=200"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	ZipCode string `json:"zipCode" validate:"max=20"`
	Country string `json:"country" validate:"max=100"`
}

// UpdateProfileInput is the allow-list of self-editable profile fields.
type UpdateProfileInput struct {
	Name    *string       `json:"name" validate:"omitempty,min=2,max=50"`
	Phone   *string       `json:"phone" validate:"omitempty,max=20"`
	Avatar  *string       `json:"avatar" validate:"omitempty,url"`
	Address *AddressInput `json:"address"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	return uc.userRepo.UpdateFunc(ctx, userID, func(user *entity.User) error {
		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if input.Phone != nil {
			phone := strings.TrimSpace(*input.Phone)
			if phone != user.Phone {
				user.Verification.Phone = entity.ContactVerification{}
			}
			user.Phone = phone
		}
		if input.Avatar != nil {
			user.Avatar = *input.Avatar
		}
		if input.Address != nil {
			user.Address = &entity.Address{
				Street:  strings.TrimSpace(input.Address.Street),
				City:    strings.TrimSpace(input.Address.City),
				State:   strings.TrimSpace(input.Address.State),
				ZipCode: strings.TrimSpace(input.Address.ZipCode),
				Country: strings.TrimSpace(input.Address.Country),
			}
		}
		return nil
	})
}

func (uc *UserUseCase) GetUserProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !uc.hasher.Compare(user.PasswordHash, input.CurrentPassword) {
		return errors.Unauthorized("Current password is incorrect", nil)
	}

	hash, err := uc.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Internal("Failed to secure password", err)
	}
	_, err = uc.userRepo.UpdateFunc(ctx, userID, func(u *entity.User) error {
		u.PasswordHash = hash
		return nil
	})
	return err
}
