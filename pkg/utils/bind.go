package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "ecosprout/pkg/errors"
)

// BindStrict decodes the JSON body into dst and rejects fields dst does not declare.
func BindStrict(c echo.Context, dst interface{}) error {
	body := c.Request().Body
	if body == nil {
		return apperrors.BadRequest("Request body is required", nil)
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.BadRequest("Request body is required", err)
		}
		if strings.HasPrefix(err.Error(), "json: unknown field ") {
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return apperrors.Validation(fmt.Sprintf("field %s is not allowed", field))
		}
		return apperrors.BadRequest("Invalid request body", err)
	}
	if dec.More() {
		return apperrors.BadRequest("Invalid request body", nil)
	}
	return nil
}
