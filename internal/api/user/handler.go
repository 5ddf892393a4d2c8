package user

import (
	"context"
	"net/http"

	"fiapcloudgames/internal/api/response"
	"fiapcloudgames/internal/domain"
	"fiapcloudgames/internal/pkg/logger"
)

// UserService define o contrato para as operações de cadastro, login e manutenção de usuários.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	RegisterAdmin(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (domain.LoginResponse, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	Update(ctx context.Context, id int64, input domain.UserUpdate) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterUserHandler lida com a requisição POST /v1/users.
// @Summary Cadastra um novo usuário
// @Description Cria um usuário comum, hasheia a senha e salva no banco de dados.
// @Tags users
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Dados de cadastro"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou senha fora da política"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /users [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := response.DecodeJSON(r, &reg); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	newUser, err := h.Service.Register(r.Context(), reg)
	response.Handle(w, r, h.Logger, newUser, err, http.StatusCreated)
}

// RegisterAdminHandler lida com a requisição POST /v1/users/admin.
// @Summary Cadastra um administrador
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registration body domain.UserRegistration true "Dados de cadastro"
// @Success 201 {object} domain.User
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /users/admin [post]
func (h *Handler) RegisterAdminHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := response.DecodeJSON(r, &reg); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	newUser, err := h.Service.RegisterAdmin(r.Context(), reg)
	response.Handle(w, r, h.Logger, newUser, err, http.StatusCreated)
}

// LoginUserHandler lida com a requisição POST /v1/auth/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe email/senha, verifica a validade e emite um JSON Web Token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body domain.LoginRequest true "Credenciais do usuário (email e senha)"
// @Success 200 {object} domain.LoginResponse "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq domain.LoginRequest
	if err := response.DecodeJSON(r, &loginReq); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	resp, err := h.Service.Login(r.Context(), loginReq.Email, loginReq.Password)
	response.Handle(w, r, h.Logger, resp, err, http.StatusOK)
}

// ListUsersHandler lida com a requisição GET /v1/users.
// @Summary Lista os usuários
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.User
// @Failure 403 {object} domain.ErrorResponse
// @Router /users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAll(r.Context())
	response.Handle(w, r, h.Logger, users, err, http.StatusOK)
}

// GetUserHandler lida com a requisição GET /v1/users/{id}.
// @Summary Busca um usuário
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do usuário"
// @Success 200 {object} domain.User
// @Failure 404 {object} domain.ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	u, err := h.Service.GetByID(r.Context(), id)
	response.Handle(w, r, h.Logger, u, err, http.StatusOK)
}

// UpdateUserHandler lida com a requisição PUT /v1/users/{id}.
// @Summary Altera um usuário
// @Description Nome e email são obrigatórios; a senha só é trocada quando informada.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do usuário"
// @Param user body domain.UserUpdate true "Dados do usuário"
// @Success 200 {object} domain.User
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /users/{id} [put]
func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	var input domain.UserUpdate
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	u, err := h.Service.Update(r.Context(), id, input)
	response.Handle(w, r, h.Logger, u, err, http.StatusOK)
}

// DeleteUserHandler lida com a requisição DELETE /v1/users/{id}.
// @Summary Exclui um usuário sem pedidos
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do usuário"
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Usuário possui pedidos"
// @Router /users/{id} [delete]
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	err = h.Service.Delete(r.Context(), id)
	response.Handle(w, r, h.Logger, domain.MessageResponse{Message: "Usuário excluído."}, err, http.StatusOK)
}
