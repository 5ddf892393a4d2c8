package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
)

func TestHandle_Success(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/games", nil)

	Handle(rr, req, logger.Nop(), map[string]string{"status": "ok"}, nil, http.StatusOK)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHandle_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		category string
	}{
		{"promoção expirada", apperror.NewExpiredPromotionError("vencida"), http.StatusUnprocessableEntity, "EXPIRED_PROMOTION"},
		{"não encontrado", apperror.NewNotFoundError("jogo"), http.StatusNotFound, "NOT_FOUND"},
		{"erro sem tipo", errors.New("boom"), http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/orders", nil)

			Handle(rr, req, logger.Nop(), nil, tt.err, http.StatusCreated)

			require.Equal(t, tt.status, rr.Code)
			var body domain.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.category, body.Category)
		})
	}
}

func TestHandle_DBErrorCauseOnlyInLog(t *testing.T) {
	var logs bytes.Buffer
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/games", nil)
	dbErr := apperror.NewDBError("Falha ao listar jogos", errors.New(`pq: relation "games" does not exist`))

	Handle(rr, req, logger.New(&logs, "debug"), nil, dbErr, http.StatusOK)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "relation")
	assert.Contains(t, logs.String(), "relation")
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	var dst struct {
		Name string `json:"name"`
	}

	err := DecodeJSON(req, &dst)

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/games/12", nil)
	req.SetPathValue("id", "12")
	id, err := PathID(req)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	req.SetPathValue("id", "abc")
	_, err = PathID(req)
	assert.Error(t, err)

	req.SetPathValue("id", "-1")
	_, err = PathID(req)
	assert.Error(t, err)
}
