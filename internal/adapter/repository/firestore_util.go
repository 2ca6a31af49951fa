package repository

import (
	stderrors "errors"

	"ecosprout/pkg/errors"
)

// wrapTxError keeps application errors raised inside a transaction callback
// and wraps anything else as an internal error.
func wrapTxError(message string, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.Internal(message, err)
}
