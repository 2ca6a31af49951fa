package handler

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/usecase"
	"ecosprout/pkg/response"
	"ecosprout/pkg/utils"
)

type TransactionHandler struct {
	transactionUseCase *usecase.TransactionUseCase
}

func NewTransactionHandler(transactionUseCase *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{
		transactionUseCase: transactionUseCase,
	}
}

func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req usecase.CreateTransactionInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	transaction, err := h.transactionUseCase.CreateTransaction(c.Request().Context(), currentActor(c), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, transaction)
}

func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	transaction, err := h.transactionUseCase.GetTransactionByID(c.Request().Context(), currentActor(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, transaction)
}

func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, usecase.DefaultTransactionLimit)

	transactions, total, err := h.transactionUseCase.ListTransactions(
		c.Request().Context(),
		currentActor(c),
		c.QueryParam("role"),
		c.QueryParam("status"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, transactions, len(transactions), total, pagination.Page, pagination.PageSize)
}

func (h *TransactionHandler) ListAdminTransactions(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, usecase.DefaultTransactionLimit)

	transactions, total, err := h.transactionUseCase.ListAllTransactions(
		c.Request().Context(),
		c.QueryParam("status"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, transactions, len(transactions), total, pagination.Page, pagination.PageSize)
}

func (h *TransactionHandler) UpdateStatus(c echo.Context) error {
	var req usecase.UpdateTransactionStatusInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	transaction, err := h.transactionUseCase.UpdateStatus(c.Request().Context(), currentActor(c), c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, transaction)
}

func (h *TransactionHandler) RateTransaction(c echo.Context) error {
	var req usecase.RateTransactionInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	transaction, err := h.transactionUseCase.Rate(c.Request().Context(), currentActor(c), c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, transaction)
}

func (h *TransactionHandler) GetTransactionLogs(c echo.Context) error {
	logs, err := h.transactionUseCase.GetTransactionLogs(c.Request().Context(), currentActor(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, logs)
}
