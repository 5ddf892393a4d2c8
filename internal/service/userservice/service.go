package userservice

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
)

// UserRepository define o contrato que o Serviço de Usuários espera da camada de Persistência.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id int64) error
	HasOrders(ctx context.Context, id int64) (bool, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token) usado no login.
type TokenService interface {
	GenerateToken(userID int64, role string) (string, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo UserRepository
	TokenSvc TokenService
	logger   logger.Logger
	hashCost int
}

// NewService cria uma nova instância do UserService, injetando o Repositório e o serviço de tokens.
func NewService(repo UserRepository, tokenSvc TokenService, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
}

// Register cadastra um usuário comum.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	return s.register(ctx, registration, domain.RoleUser)
}

// RegisterAdmin cadastra um administrador. A rota que chama este método exige role Admin.
func (s *UserService) RegisterAdmin(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	return s.register(ctx, registration, domain.RoleAdmin)
}

func (s *UserService) register(ctx context.Context, registration domain.UserRegistration, role domain.UserRole) (domain.User, error) {
	s.logger.Debug("Iniciando cadastro de usuário no serviço.", map[string]interface{}{"email": registration.Email, "role": string(role)})

	// 1. Política de senha
	if err := domain.ValidatePassword(registration.Password); err != nil {
		s.logger.Warn("Senha fora da política.", map[string]interface{}{"email": registration.Email})
		return domain.User{}, err
	}

	// 2. Hashing da Senha
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), s.hashCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	// 3. Criação e validação da entidade
	newUser, err := domain.NewUser(registration.Name, registration.Email, string(hashedPassword), role)
	if err != nil {
		s.logger.Warn("Falha na validação do usuário.", map[string]interface{}{"email": registration.Email, "error": err.Error()})
		return domain.User{}, err
	}

	// 4. Persistência (email duplicado vira ConflictError no repositório)
	user, err := s.UserRepo.Save(ctx, newUser)
	if err != nil {
		s.logger.Error("Falha ao salvar usuário no repositório.", err)
		return domain.User{}, apperror.Wrap("Falha interna ao cadastrar usuário.", err)
	}

	s.logger.Info("Usuário cadastrado com sucesso.", map[string]interface{}{"user_id": user.ID, "role": string(user.Role)})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, email string, password string) (domain.LoginResponse, error) {
	// 1. Validação Básica
	if email == "" || password == "" {
		return domain.LoginResponse{}, apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	// 2. Buscar Usuário pelo Email
	user, err := s.UserRepo.FindByEmail(ctx, normalized)
	if err != nil {
		// NotFound vira 401 para não revelar quais emails existem.
		if apperror.IsNotFound(err) {
			s.logger.Warn("Tentativa de login com email desconhecido.", map[string]interface{}{"email": normalized})
			return domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return domain.LoginResponse{}, apperror.Wrap("Falha interna ao autenticar.", err)
	}

	// 3. Comparar Senhas
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Senha incorreta no login.", map[string]interface{}{"user_id": user.ID})
		return domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	// 4. Gerar JWT
	role := user.Role.ClaimName()
	tokenString, err := s.TokenSvc.GenerateToken(user.ID, role)
	if err != nil {
		s.logger.Error("Falha ao gerar token.", err)
		return domain.LoginResponse{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": user.ID, "role": role})
	return domain.LoginResponse{Token: tokenString, TokenType: "Bearer", UserID: user.ID, Role: role}, nil
}

// GetAll lista todos os usuários.
func (s *UserService) GetAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.UserRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao listar usuários.", err)
		return nil, apperror.Wrap("Falha interna ao listar usuários.", err)
	}
	return users, nil
}

// GetByID busca um usuário pelo ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, apperror.NewValidationError("ID de usuário inválido.")
	}
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, apperror.Wrap("Falha interna ao buscar usuário.", err)
	}
	return user, nil
}

// Update altera nome e email do usuário. A senha só muda quando informada.
func (s *UserService) Update(ctx context.Context, id int64, input domain.UserUpdate) (domain.User, error) {
	s.logger.Debug("Iniciando atualização de usuário no serviço.", map[string]interface{}{"user_id": id})

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if user.Name, err = domain.NormalizeUserName(input.Name); err != nil {
		return domain.User{}, err
	}
	if user.Email, err = domain.NormalizeEmail(input.Email); err != nil {
		return domain.User{}, err
	}
	if input.Password != "" {
		if err := domain.ValidatePassword(input.Password); err != nil {
			return domain.User{}, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
		if err != nil {
			return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
		}
		user.PasswordHash = string(hashed)
	}

	updated, err := s.UserRepo.Update(ctx, user)
	if err != nil {
		s.logger.Error("Falha ao atualizar usuário no repositório.", err)
		return domain.User{}, apperror.Wrap("Falha interna ao atualizar usuário.", err)
	}

	s.logger.Info("Usuário atualizado.", map[string]interface{}{"user_id": id})
	return updated, nil
}

// Delete remove um usuário sem pedidos.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidationError("ID de usuário inválido.")
	}

	hasOrders, err := s.UserRepo.HasOrders(ctx, id)
	if err != nil {
		return apperror.Wrap("Falha interna ao verificar pedidos do usuário.", err)
	}
	if hasOrders {
		s.logger.Warn("Exclusão de usuário com pedidos recusada.", map[string]interface{}{"user_id": id})
		return apperror.NewConflictError(fmt.Sprintf("Usuário %d possui pedidos e não pode ser excluído.", id))
	}

	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return apperror.Wrap("Falha interna ao excluir usuário.", err)
	}

	s.logger.Info("Usuário excluído.", map[string]interface{}{"user_id": id})
	return nil
}

// EnsureAdmin cria o administrador inicial se ainda não existir nenhum usuário com o email informado.
func (s *UserService) EnsureAdmin(ctx context.Context, registration domain.UserRegistration) error {
	email, err := domain.NormalizeEmail(registration.Email)
	if err != nil {
		return err
	}
	_, err = s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !apperror.IsNotFound(err) {
		return err
	}
	_, err = s.RegisterAdmin(ctx, registration)
	var conflict *apperror.ConflictError
	if errors.As(err, &conflict) {
		return nil
	}
	return err
}
