package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ibmec/pict-api/internal/adapters/localfs"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/ports"
)

const msgInternal = "Erro interno do servidor"

// WriteServiceError maps a service error onto the JSON error payload.
// AppErrors carry their own status; anything else is logged and reported as 500
// without leaking its text.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if errors.Is(err, ports.ErrStateNotFound) {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_state", Err: errors.New("Estado de login inválido ou expirado")})
		return
	}
	if errors.Is(err, localfs.ErrFileTooLarge) {
		WriteError(w, ErrorParams{Code: http.StatusRequestEntityTooLarge, ErrCode: "file_too_large", Err: errors.New("Arquivo excede o tamanho máximo permitido")})
		return
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logOrDefault(logger).ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: string(apperrors.ErrCodeInternal), Err: errors.New(msgInternal)})
		return
	}

	status := appErr.Code.HTTPStatus()
	msg := appErr.Message
	if status >= http.StatusInternalServerError {
		logOrDefault(logger).ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", appErr.Code,
			"error", err,
		)
		msg = msgInternal
	}
	WriteError(w, ErrorParams{Code: status, ErrCode: string(appErr.Code), Err: errors.New(msg)})
}

func logOrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
