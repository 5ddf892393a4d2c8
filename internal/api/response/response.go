// Package response concentra o envelope JSON compartilhado pelos handlers.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
)

// Handle processa o resultado do serviço e envia a resposta padronizada ao cliente.
// Sucesso é logado em Info, erros 4xx em Debug e 5xx em Error.
func Handle(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err == nil {
		log.Info("Requisição concluída com sucesso", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": successStatus,
		})
		WriteJSON(w, log, successStatus, data)
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), apperror.Detail(err))
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	WriteJSON(w, log, status, domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// WriteJSON grava data como JSON com o status informado. data nil gera corpo vazio.
func WriteJSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// DecodeJSON lê o corpo da requisição em dst. Campos desconhecidos são rejeitados.
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperror.NewValidationError("Payload JSON inválido.")
	}
	return nil
}

// PathID lê o segmento {id} da rota como inteiro positivo.
func PathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError("ID inválido na URL.")
	}
	return id, nil
}
