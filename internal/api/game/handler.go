package game

import (
	"context"
	"net/http"

	"fiapcloudgames/internal/api/response"
	"fiapcloudgames/internal/domain"
	"fiapcloudgames/internal/pkg/logger"
)

// GameService define o contrato que o Handler espera da camada de Serviço.
type GameService interface {
	Create(ctx context.Context, input domain.GameInput) (domain.Game, error)
	GetAll(ctx context.Context) ([]domain.Game, error)
	GetByID(ctx context.Context, id int64) (domain.Game, error)
	Update(ctx context.Context, id int64, input domain.GameInput) (domain.Game, error)
	Delete(ctx context.Context, id int64) error
}

// Handler agrupa todos os métodos de Handler do jogo.
type Handler struct {
	Service GameService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc GameService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// CreateGameHandler lida com a requisição POST /v1/games.
// @Summary Cadastra um jogo
// @Tags games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param game body domain.GameInput true "Dados do jogo"
// @Success 201 {object} domain.Game
// @Failure 400 {object} domain.ErrorResponse "Nome, ano ou preço inválidos"
// @Failure 403 {object} domain.ErrorResponse
// @Router /games [post]
func (h *Handler) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.GameInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	g, err := h.Service.Create(r.Context(), input)
	response.Handle(w, r, h.Logger, g, err, http.StatusCreated)
}

// ListGamesHandler lida com a requisição GET /v1/games.
// @Summary Lista o catálogo de jogos
// @Tags games
// @Produce json
// @Success 200 {array} domain.Game
// @Router /games [get]
func (h *Handler) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	games, err := h.Service.GetAll(r.Context())
	response.Handle(w, r, h.Logger, games, err, http.StatusOK)
}

// GetGameHandler lida com a requisição GET /v1/games/{id}.
// @Summary Busca um jogo
// @Tags games
// @Produce json
// @Param id path int true "ID do jogo"
// @Success 200 {object} domain.Game
// @Failure 404 {object} domain.ErrorResponse
// @Router /games/{id} [get]
func (h *Handler) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	g, err := h.Service.GetByID(r.Context(), id)
	response.Handle(w, r, h.Logger, g, err, http.StatusOK)
}

// UpdateGameHandler lida com a requisição PUT /v1/games/{id}.
// @Summary Altera um jogo
// @Tags games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do jogo"
// @Param game body domain.GameInput true "Dados do jogo"
// @Success 200 {object} domain.Game
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /games/{id} [put]
func (h *Handler) UpdateGameHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	var input domain.GameInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	g, err := h.Service.Update(r.Context(), id, input)
	response.Handle(w, r, h.Logger, g, err, http.StatusOK)
}

// DeleteGameHandler lida com a requisição DELETE /v1/games/{id}.
// @Summary Exclui um jogo sem pedidos
// @Tags games
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do jogo"
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Jogo possui pedidos"
// @Router /games/{id} [delete]
func (h *Handler) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	err = h.Service.Delete(r.Context(), id)
	response.Handle(w, r, h.Logger, domain.MessageResponse{Message: "Jogo excluído."}, err, http.StatusOK)
}
