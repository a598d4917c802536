package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"learnrag/internal/domain"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindEmptyInput, domain.KindNoChunksProduced, domain.KindMissingQuery:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func toErrorResponse(err error) (int, ErrorResponse) {
	var de *domain.Error
	if errors.As(err, &de) {
		return statusForKind(de.Kind), ErrorResponse{Error: string(de.Kind), Message: de.Message}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ErrorResponse{
			Error:   strings.ToLower(http.StatusText(he.Code)),
			Message: fmt.Sprint(he.Message),
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error:   "internal",
		Message: "internal server error",
	}
}

// handleError replaces echo's default error handler so every failure shares
// one body shape.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := toErrorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.Warn("failed to write error response", zap.Error(err))
	}
}
