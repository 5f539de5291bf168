package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/erazemk/precificacao/internal/errors"
	"github.com/erazemk/precificacao/internal/logger"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Get().Errorw("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// respondWithError writes err as {"error": message}. AppErrors keep their
// status and message; anything else is logged and reported as ErrInternal.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode >= http.StatusInternalServerError {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", errString(appErr.Internal),
				"path", r.URL.Path,
			)
		}
		jsonError(w, appErr.StatusCode, appErr.Message)
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", r.URL.Path,
		"method", r.Method,
	)
	jsonError(w, apperrors.ErrInternal.StatusCode, apperrors.ErrInternal.Message)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
