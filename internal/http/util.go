package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/ibmec/pict-api/internal/errors"
)

var errUnauthenticated = apperrors.Unauthorized("Token ausente")

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ValidationField(name, "identificador inválido")
	}
	return id, nil
}
