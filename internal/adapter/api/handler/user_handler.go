package handler

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/usecase"
	"ecosprout/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userUseCase.GetUserProfile(c.Request().Context(), currentActor(c).UserID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req usecase.UpdateProfileInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), currentActor(c).UserID, req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) UpdatePassword(c echo.Context) error {
	var req usecase.ChangePasswordInput
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.userUseCase.ChangePassword(c.Request().Context(), currentActor(c).UserID, req); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "Password updated successfully", nil)
}
