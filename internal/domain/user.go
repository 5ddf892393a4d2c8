package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	apperror "fiapcloudgames/internal/errors"
)

// UserRole é o nível de acesso do usuário, gravado como um único caractere.
type UserRole string

const (
	RoleUser  UserRole = "U" // Usuário comum
	RoleAdmin UserRole = "A" // Administrador
)

// Nomes das roles dentro do JWT.
const (
	ClaimRoleUser  = "User"
	ClaimRoleAdmin = "Admin"
)

var (
	emailPattern   = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)
	letterPattern  = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[\W_]`)
)

// User representa a entidade do usuário no sistema.
// Os pedidos do usuário não ficam na entidade: são consultados pelo repositório de pedidos.
type User struct {
	Entity
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole `json:"role"`
}

// UserRegistration representa o payload de entrada para o cadastro.
type UserRegistration struct {
	Name     string `json:"name" example:"DAVI DA SILVA"`
	Email    string `json:"email" example:"davi@uol.com.br"`
	Password string `json:"password" example:"123456$A"`
}

// UserUpdate representa o payload de alteração de um usuário.
type UserUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewUser valida e normaliza os dados de um novo usuário.
// A senha já deve chegar como hash; a política de senha é verificada antes, com ValidatePassword.
func NewUser(name, email, passwordHash string, role UserRole) (User, error) {
	normalizedName, err := NormalizeUserName(name)
	if err != nil {
		return User{}, err
	}
	normalizedEmail, err := NormalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	if !role.IsValid() {
		return User{}, apperror.NewValidationError("Nível de usuário inválido.")
	}
	if passwordHash == "" {
		return User{}, apperror.NewValidationError("Senha é obrigatória.")
	}

	return User{
		Entity:       newEntity(),
		Name:         normalizedName,
		Email:        normalizedEmail,
		PasswordHash: passwordHash,
		Role:         role,
	}, nil
}

// IsAdmin informa se o usuário tem nível de administrador.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsValid informa se a role é uma das conhecidas.
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ClaimName devolve o nome da role usado no token.
func (r UserRole) ClaimName() string {
	if r == RoleAdmin {
		return ClaimRoleAdmin
	}
	return ClaimRoleUser
}

// NormalizeUserName remove espaços e grava o nome em maiúsculas.
func NormalizeUserName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NewValidationError("Nome é obrigatório.")
	}
	if utf8.RuneCountInString(name) > 100 {
		return "", apperror.NewValidationError("Nome deve ter no máximo 100 caracteres.")
	}
	return strings.ToUpper(name), nil
}

// NormalizeEmail remove espaços, converte para minúsculas e valida o formato.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", apperror.NewValidationError("Email inválido.")
	}
	return email, nil
}

// MaxPasswordBytes é o limite de entrada do bcrypt.
const MaxPasswordBytes = 72

// ValidatePassword aplica a política de senha: no mínimo 8 caracteres,
// com letras, números e caracteres especiais.
func ValidatePassword(password string) error {
	if len(password) > MaxPasswordBytes {
		return apperror.NewValidationError("Senha deve ter no máximo 72 bytes.")
	}
	if utf8.RuneCountInString(password) < 8 ||
		!letterPattern.MatchString(password) ||
		!digitPattern.MatchString(password) ||
		!specialPattern.MatchString(password) {
		return apperror.NewValidationError("Senha deve ter no mínimo 8 caracteres, incluindo letras, números e caracteres especiais.")
	}
	return nil
}

// LoginRequest é o payload de autenticação.
type LoginRequest struct {
	Email    string `json:"email" example:"admin@fiapcloudgames.com.br"`
	Password string `json:"password" example:"Admin@123"`
}

// LoginResponse devolve o JWT emitido.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type" example:"Bearer"`
	UserID    int64  `json:"user_id"`
	Role      string `json:"role" example:"User"`
}
