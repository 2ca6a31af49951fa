package handler

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/usecase"
	"ecosprout/pkg/response"
)

type VerificationHandler struct {
	verificationUseCase *usecase.VerificationUseCase
}

func NewVerificationHandler(verificationUseCase *usecase.VerificationUseCase) *VerificationHandler {
	return &VerificationHandler{
		verificationUseCase: verificationUseCase,
	}
}

func (h *VerificationHandler) InitiateDigiLocker(c echo.Context) error {
	var req usecase.InitiateVerificationInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.verificationUseCase.Initiate(c.Request().Context(), currentActor(c), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "DigiLocker verification initiated", result)
}

func (h *VerificationHandler) CompleteDigiLocker(c echo.Context) error {
	var req usecase.CompleteVerificationInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.verificationUseCase.Complete(c.Request().Context(), currentActor(c), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "DigiLocker verification completed successfully", map[string]interface{}{
		"isVerified":   user.IsVerified,
		"trustScore":   user.TrustScore,
		"badges":       user.Badges,
		"verification": user.Verification,
	})
}

func (h *VerificationHandler) GetStatus(c echo.Context) error {
	status, err := h.verificationUseCase.Status(c.Request().Context(), currentActor(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, status)
}

func (h *VerificationHandler) UpdateSellerProfile(c echo.Context) error {
	var req usecase.SellerProfileInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.verificationUseCase.UpdateSellerProfile(c.Request().Context(), currentActor(c), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "Seller profile updated successfully", user.SellerProfile)
}
