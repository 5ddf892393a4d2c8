package promotion

import (
	"context"
	"net/http"
	"strconv"

	"fiapcloudgames/internal/api/response"
	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
)

// PromotionService define o contrato que o Handler espera da camada de Serviço.
type PromotionService interface {
	Create(ctx context.Context, input domain.PromotionInput) (*domain.Promotion, error)
	List(ctx context.Context, onlyActive bool) ([]*domain.Promotion, error)
	Get(ctx context.Context, id int64) (*domain.Promotion, error)
	Update(ctx context.Context, id int64, input domain.PromotionInput) (*domain.Promotion, error)
	Delete(ctx context.Context, id int64) error
}

// Handler agrupa todos os métodos de Handler da promoção.
type Handler struct {
	Service PromotionService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PromotionService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// CreatePromotionHandler lida com a requisição POST /v1/promotions.
// @Summary Cadastra uma promoção
// @Description O desconto deve estar entre 10 e 90 e a validade deve ser posterior ao instante atual.
// @Tags promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param promotion body domain.PromotionInput true "Dados da promoção"
// @Success 201 {object} domain.Promotion
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Nome já cadastrado"
// @Router /promotions [post]
func (h *Handler) CreatePromotionHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.PromotionInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	p, err := h.Service.Create(r.Context(), input)
	response.Handle(w, r, h.Logger, p, err, http.StatusCreated)
}

// ListPromotionsHandler lida com a requisição GET /v1/promotions.
// @Summary Lista as promoções
// @Tags promotions
// @Produce json
// @Param active query bool false "Somente promoções vigentes"
// @Success 200 {array} domain.Promotion
// @Failure 400 {object} domain.ErrorResponse
// @Router /promotions [get]
func (h *Handler) ListPromotionsHandler(w http.ResponseWriter, r *http.Request) {
	onlyActive := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.Handle(w, r, h.Logger, nil, apperror.NewValidationError("Parâmetro 'active' deve ser true ou false."), http.StatusOK)
			return
		}
		onlyActive = v
	}

	promos, err := h.Service.List(r.Context(), onlyActive)
	response.Handle(w, r, h.Logger, promos, err, http.StatusOK)
}

// GetPromotionHandler lida com a requisição GET /v1/promotions/{id}.
// @Summary Busca uma promoção
// @Tags promotions
// @Produce json
// @Param id path int true "ID da promoção"
// @Success 200 {object} domain.Promotion
// @Failure 404 {object} domain.ErrorResponse
// @Router /promotions/{id} [get]
func (h *Handler) GetPromotionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	p, err := h.Service.Get(r.Context(), id)
	response.Handle(w, r, h.Logger, p, err, http.StatusOK)
}

// UpdatePromotionHandler lida com a requisição PUT /v1/promotions/{id}.
// @Summary Altera uma promoção
// @Description A validade não pode ser anterior à criação da promoção. Pedidos já calculados não mudam.
// @Tags promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da promoção"
// @Param promotion body domain.PromotionInput true "Dados da promoção"
// @Success 200 {object} domain.Promotion
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /promotions/{id} [put]
func (h *Handler) UpdatePromotionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	var input domain.PromotionInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	p, err := h.Service.Update(r.Context(), id, input)
	response.Handle(w, r, h.Logger, p, err, http.StatusOK)
}

// DeletePromotionHandler lida com a requisição DELETE /v1/promotions/{id}.
// @Summary Exclui uma promoção nunca usada
// @Tags promotions
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da promoção"
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Promoção usada em pedidos"
// @Router /promotions/{id} [delete]
func (h *Handler) DeletePromotionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	err = h.Service.Delete(r.Context(), id)
	response.Handle(w, r, h.Logger, domain.MessageResponse{Message: "Promoção excluída."}, err, http.StatusOK)
}
