package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibmec/pict-api/internal/adapters/localfs"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/ports"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", apperrors.ValidationField("titulo", "titulo is required"), http.StatusBadRequest, "validation", "titulo is required"},
		{"upstream", apperrors.Upstream(errors.New("401"), "Erro ao obter token da Microsoft"), http.StatusBadRequest, "upstream_auth", "Erro ao obter token da Microsoft"},
		{"unauthorized", apperrors.Unauthorized("token ausente"), http.StatusUnauthorized, "unauthorized", "token ausente"},
		{"forbidden", apperrors.Forbidden("O período de inscrições está encerrado"), http.StatusForbidden, "forbidden", "O período de inscrições está encerrado"},
		{"not found", apperrors.NotFound("Projeto não encontrado"), http.StatusNotFound, "not_found", "Projeto não encontrado"},
		{"conflict", apperrors.Conflict("A edição 2024 já existe"), http.StatusConflict, "conflict", "A edição 2024 já existe"},
		{"wrapped app error", fmt.Errorf("resolve identity: %w", apperrors.NotFound("x")), http.StatusNotFound, "not_found", "x"},
		{"internal hides detail", apperrors.Wrap(errors.New("pq: secret"), apperrors.ErrCodeInternal, "db failed"), http.StatusInternalServerError, "internal", msgInternal},
		{"plain error hides detail", errors.New("dial tcp: refused"), http.StatusInternalServerError, "internal", msgInternal},
		{"invalid state", &apperrors.AppError{Code: apperrors.ErrCodeValidation, Message: "x", Cause: ports.ErrStateNotFound}, http.StatusBadRequest, "invalid_state", "Estado de login inválido ou expirado"},
		{"file too large", fmt.Errorf("store upload: %w", localfs.ErrFileTooLarge), http.StatusRequestEntityTooLarge, "file_too_large", "Arquivo excede o tamanho máximo permitido"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/x", nil)
			WriteServiceError(w, r, nil, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteMessage(w, http.StatusCreated, "ok", map[string]any{"projeto_id": 7, "message": "ignored"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok","projeto_id":7}`, w.Body.String())
}
