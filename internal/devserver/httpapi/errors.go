package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dmitrijs2005/usuarios/internal/common"
	"github.com/dmitrijs2005/usuarios/internal/devserver/users"
)

// Messages clients match on.
const (
	MsgUserNotFound  = "Usuario no encontrado"
	MsgWrongPassword = "Contraseña incorrecta"
	MsgInternal      = "Error interno del servidor"
)

// NewHTTPErrorHandler renders every error as {"error": "<message>"}.
// Unexpected errors are logged and reported without detail.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, envelope{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *validationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error()
	}

	var dup *users.DuplicateEmailError
	switch {
	case errors.As(err, &dup):
		return http.StatusConflict, dup.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, MsgWrongPassword
	case errors.Is(err, users.ErrPasswordTooLong):
		return http.StatusBadRequest, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, MsgInternal
}
