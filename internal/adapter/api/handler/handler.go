package handler

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/adapter/api/middleware"
	"ecosprout/internal/usecase"
	"ecosprout/pkg/utils"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	itemHandler         *ItemHandler
	verificationHandler *VerificationHandler
	transactionHandler  *TransactionHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	itemUseCase *usecase.ItemUseCase,
	verificationUseCase *usecase.VerificationUseCase,
	transactionUseCase *usecase.TransactionUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	itemHandler = NewItemHandler(itemUseCase)
	verificationHandler = NewVerificationHandler(verificationUseCase)
	transactionHandler = NewTransactionHandler(transactionUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetItemHandler() *ItemHandler {
	return itemHandler
}

func GetVerificationHandler() *VerificationHandler {
	return verificationHandler
}

func GetTransactionHandler() *TransactionHandler {
	return transactionHandler
}

// currentActor reads the caller the auth middleware attached to the request.
func currentActor(c echo.Context) usecase.Actor {
	uid, _ := c.Get(middleware.ContextUserID).(string)
	role, _ := c.Get(middleware.ContextRole).(string)
	admin, _ := c.Get(middleware.ContextAdmin).(bool)
	return usecase.Actor{UserID: uid, Role: role, IsAdmin: admin}
}

// bindStrict decodes a body that must not carry undeclared fields, then validates it.
func bindStrict(c echo.Context, dst interface{}) error {
	if err := utils.BindStrict(c, dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}
