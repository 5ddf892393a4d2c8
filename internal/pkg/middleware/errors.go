package middleware

import (
	"encoding/json"
	"net/http"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
)

// writeError envia o erro no mesmo envelope JSON usado pelos handlers.
func writeError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}
