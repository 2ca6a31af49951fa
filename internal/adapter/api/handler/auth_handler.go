package handler

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/usecase"
	"ecosprout/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.RegisterInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Register(c.Request().Context(), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.LoginInput
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authUseCase.GetUserByID(c.Request().Context(), currentActor(c).UserID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
