package order

import (
	"context"
	"net/http"

	"fiapcloudgames/internal/api/response"
	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
	"fiapcloudgames/internal/pkg/middleware"
)

// OrderService define o contrato que o Handler espera da camada de Serviço.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID int64, input domain.OrderInput) (*domain.Order, error)
	PlaceOrderOnBehalf(ctx context.Context, input domain.OrderInput) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	ListByUserEmail(ctx context.Context, email string) ([]*domain.Order, error)
	Report(ctx context.Context) ([]domain.OrderView, error)
	Update(ctx context.Context, id int64, input domain.OrderInput) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

// Handler agrupa todos os métodos de Handler do pedido.
type Handler struct {
	Service OrderService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc OrderService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// callerID devolve o ID do usuário autenticado, gravado no contexto pelo middleware de autenticação.
func callerID(r *http.Request) (int64, error) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok || claims.UserID <= 0 {
		return 0, apperror.NewUnauthorizedError("Usuário não autenticado.")
	}
	return claims.UserID, nil
}

// PlaceOrderHandler lida com a requisição POST /v1/orders.
// @Summary Cria um pedido para o usuário autenticado
// @Description O valor é calculado a partir do preço do jogo e da promoção, que precisa estar vigente na data do pedido.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body domain.OrderInput true "Jogo e promoção opcional (user_id é ignorado)"
// @Success 201 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Jogo ou promoção inexistente"
// @Failure 422 {object} domain.ErrorResponse "Promoção expirada ou referência inválida"
// @Router /orders [post]
func (h *Handler) PlaceOrderHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	var input domain.OrderInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	h.Logger.Debug("Pedido recebido.", map[string]interface{}{"user_id": userID, "game_id": input.GameID, "request_id": middleware.GetRequestID(r.Context())})

	o, err := h.Service.PlaceOrder(r.Context(), userID, input)
	response.Handle(w, r, h.Logger, o, err, http.StatusCreated)
}

// PlaceOrderOnBehalfHandler lida com a requisição POST /v1/orders/on-behalf.
// @Summary Cria um pedido em nome de outro usuário
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body domain.OrderInput true "Usuário, jogo e promoção opcional"
// @Success 201 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 422 {object} domain.ErrorResponse
// @Router /orders/on-behalf [post]
func (h *Handler) PlaceOrderOnBehalfHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.OrderInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	o, err := h.Service.PlaceOrderOnBehalf(r.Context(), input)
	response.Handle(w, r, h.Logger, o, err, http.StatusCreated)
}

// MyOrdersHandler lida com a requisição GET /v1/orders/me.
// @Summary Lista os pedidos do usuário autenticado
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Failure 401 {object} domain.ErrorResponse
// @Router /orders/me [get]
func (h *Handler) MyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	orders, err := h.Service.ListByUser(r.Context(), userID)
	response.Handle(w, r, h.Logger, orders, err, http.StatusOK)
}

// ListOrdersHandler lida com a requisição GET /v1/orders.
// @Summary Lista os pedidos
// @Description Com o parâmetro email, somente os pedidos daquele usuário.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param email query string false "Email do usuário"
// @Success 200 {array} domain.Order
// @Failure 404 {object} domain.ErrorResponse "Email não cadastrado"
// @Router /orders [get]
func (h *Handler) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	var (
		orders []*domain.Order
		err    error
	)
	if email := r.URL.Query().Get("email"); email != "" {
		orders, err = h.Service.ListByUserEmail(r.Context(), email)
	} else {
		orders, err = h.Service.List(r.Context())
	}
	response.Handle(w, r, h.Logger, orders, err, http.StatusOK)
}

// ReportHandler lida com a requisição GET /v1/orders/report.
// @Summary Relatório de pedidos
// @Description Pedidos com nomes de usuário, jogo e promoção.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.OrderView
// @Router /orders/report [get]
func (h *Handler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.Report(r.Context())
	response.Handle(w, r, h.Logger, views, err, http.StatusOK)
}

// GetOrderHandler lida com a requisição GET /v1/orders/{id}.
// @Summary Busca um pedido
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Success 200 {object} domain.Order
// @Failure 404 {object} domain.ErrorResponse
// @Router /orders/{id} [get]
func (h *Handler) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	o, err := h.Service.Get(r.Context(), id)
	response.Handle(w, r, h.Logger, o, err, http.StatusOK)
}

// UpdateOrderHandler lida com a requisição PUT /v1/orders/{id}.
// @Summary Altera as referências de um pedido e o recalcula
// @Description A data do pedido é mantida; a promoção precisa estar vigente naquela data.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Param order body domain.OrderInput true "Usuário, jogo e promoção opcional"
// @Success 200 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 422 {object} domain.ErrorResponse
// @Router /orders/{id} [put]
func (h *Handler) UpdateOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	var input domain.OrderInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	o, err := h.Service.Update(r.Context(), id, input)
	response.Handle(w, r, h.Logger, o, err, http.StatusOK)
}

// DeleteOrderHandler lida com a requisição DELETE /v1/orders/{id}.
// @Summary Exclui um pedido
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /orders/{id} [delete]
func (h *Handler) DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	err = h.Service.Delete(r.Context(), id)
	response.Handle(w, r, h.Logger, domain.MessageResponse{Message: "Pedido excluído."}, err, http.StatusOK)
}
