package response

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "ecosprout/pkg/errors"
	"ecosprout/pkg/logger"
)

type Response struct {
	Success   bool         `json:"success"`
	Code      string       `json:"code,omitempty"`
	Message   string       `json:"message,omitempty"`
	Data      interface{}  `json:"data,omitempty"`
	Errors    []FieldError `json:"errors,omitempty"`
	Timestamp string       `json:"timestamp"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ListResponse struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Total      int64       `json:"total"`
	Pagination Pagination  `json:"pagination"`
	Data       interface{} `json:"data"`
	Timestamp  string      `json:"timestamp"`
}

type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func SuccessMessage(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	})
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}
	return pages
}

// Paginated writes the listing envelope. count is the size of the current page.
func Paginated(c echo.Context, items interface{}, count int, total int64, page, limit int) error {
	return c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Count:   count,
		Total:   total,
		Pagination: Pagination{
			Page:  page,
			Pages: TotalPages(total, limit),
			Limit: limit,
		},
		Data:      items,
		Timestamp: now(),
	})
}

func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return handleValidationError(c, validationErr)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logger.Error("%s %s: %v", c.Request().Method, c.Path(), appErr)
			return c.JSON(appErr.Status, Response{
				Success:   false,
				Code:      appErr.Code,
				Message:   "Server error",
				Timestamp: now(),
			})
		}
		return c.JSON(appErr.Status, Response{
			Success:   false,
			Code:      appErr.Code,
			Message:   appErr.Message,
			Timestamp: now(),
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && m != "" {
			msg = m
		}
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("%s %s: %v", c.Request().Method, c.Path(), err)
			msg = "Server error"
		}
		return c.JSON(httpErr.Code, Response{
			Success:   false,
			Message:   msg,
			Timestamp: now(),
		})
	}

	logger.Error("%s", logger.WithContext(c.Response().Header().Get(echo.HeaderXRequestID), "%s %s: %v", c.Request().Method, c.Path(), err))
	return c.JSON(http.StatusInternalServerError, Response{
		Success:   false,
		Code:      "INTERNAL_ERROR",
		Message:   "Server error",
		Timestamp: now(),
	})
}

// HTTPErrorHandler replaces echo's default so routing failures use the same envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		var httpErr *echo.HTTPError
		code := http.StatusInternalServerError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
		}
		c.NoContent(code)
		return
	}
	if writeErr := Error(c, err); writeErr != nil {
		logger.Error("failed to write error response: %v", writeErr)
	}
}

func handleValidationError(c echo.Context, validationErr validator.ValidationErrors) error {
	fields := make([]FieldError, 0, len(validationErr))
	for _, err := range validationErr {
		fields = append(fields, FieldError{
			Field:   fieldName(err),
			Message: fieldMessage(err),
		})
	}

	message := "Invalid input data"
	if len(fields) > 0 {
		message = fields[0].Message
	}

	return c.JSON(http.StatusBadRequest, Response{
		Success:   false,
		Code:      "VALIDATION_ERROR",
		Message:   message,
		Errors:    fields,
		Timestamp: now(),
	})
}

// fieldName returns the dotted json path without the top-level struct name.
func fieldName(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}

func fieldMessage(err validator.FieldError) string {
	field := fieldName(err)
	param := err.Param()

	switch err.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if err.Kind().String() == "string" {
			return field + " must be at least " + param + " characters"
		}
		return field + " must be at least " + param
	case "max":
		if err.Kind().String() == "string" {
			return field + " cannot exceed " + param + " characters"
		}
		return field + " must be at most " + param
	case "gte":
		return field + " must be greater than or equal to " + param
	case "lte":
		return field + " must be less than or equal to " + param
	case "oneof":
		return field + " must be one of: " + param
	case "email":
		return field + " must be a valid email address"
	case "len":
		return field + " must be exactly " + param + " characters"
	default:
		return field + " is invalid"
	}
}
