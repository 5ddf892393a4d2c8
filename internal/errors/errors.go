package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados da FiapCloudGames.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada
// (nome vazio, desconto fora da faixa, datas inconsistentes).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (recurso duplicado,
// exclusão de registro que ainda possui pedidos).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa credenciais ausentes, inválidas ou expiradas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa um usuário autenticado sem o papel necessário.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um novo erro de autorização.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// RateLimitError indica que o cliente excedeu o limite de requisições (429).
type RateLimitError struct {
	Msg string
}

func (e *RateLimitError) Error() string    { return e.Msg }
func (e *RateLimitError) Category() string { return "RATE_LIMITED" }
func (e *RateLimitError) HTTPStatus() int  { return http.StatusTooManyRequests } // 429
func (e *RateLimitError) Unwrap() error    { return nil }

// NewRateLimitError cria um novo erro de limite de requisições.
func NewRateLimitError(msg string) AppError {
	return &RateLimitError{Msg: msg}
}

// --- Erros do Cálculo de Pedido ---
// Todos são determinísticos: o mesmo pedido com as mesmas entidades falha da mesma forma,
// então o chamador não deve repetir a operação.

// InvalidReferenceError indica que a entidade informada não corresponde ao ID gravado no pedido.
type InvalidReferenceError struct {
	Msg string
}

func (e *InvalidReferenceError) Error() string    { return fmt.Sprintf("Referência inválida: %s", e.Msg) }
func (e *InvalidReferenceError) Category() string { return "INVALID_REFERENCE" }
func (e *InvalidReferenceError) HTTPStatus() int  { return http.StatusUnprocessableEntity } // 422
func (e *InvalidReferenceError) Unwrap() error    { return nil }

// NewInvalidReferenceError cria um erro de referência inválida.
func NewInvalidReferenceError(msg string) AppError {
	return &InvalidReferenceError{Msg: msg}
}

// InvalidGameStateError indica um jogo que não pode ser vendido (preço base não positivo).
type InvalidGameStateError struct {
	Msg string
}

func (e *InvalidGameStateError) Error() string    { return fmt.Sprintf("Jogo inválido: %s", e.Msg) }
func (e *InvalidGameStateError) Category() string { return "INVALID_GAME_STATE" }
func (e *InvalidGameStateError) HTTPStatus() int  { return http.StatusUnprocessableEntity }
func (e *InvalidGameStateError) Unwrap() error    { return nil }

// NewInvalidGameStateError cria um erro de estado de jogo inválido.
func NewInvalidGameStateError(msg string) AppError {
	return &InvalidGameStateError{Msg: msg}
}

// ExpiredPromotionError indica que a janela de validade da promoção não cobre a data do pedido.
type ExpiredPromotionError struct {
	Msg string
}

func (e *ExpiredPromotionError) Error() string    { return fmt.Sprintf("Promoção expirada: %s", e.Msg) }
func (e *ExpiredPromotionError) Category() string { return "EXPIRED_PROMOTION" }
func (e *ExpiredPromotionError) HTTPStatus() int  { return http.StatusUnprocessableEntity }
func (e *ExpiredPromotionError) Unwrap() error    { return nil }

// NewExpiredPromotionError cria um erro de promoção expirada.
func NewExpiredPromotionError(msg string) AppError {
	return &ExpiredPromotionError{Msg: msg}
}

// InvalidDiscountError indica um percentual de desconto fora da política (10% a 90%).
type InvalidDiscountError struct {
	Msg string
}

func (e *InvalidDiscountError) Error() string    { return fmt.Sprintf("Desconto inválido: %s", e.Msg) }
func (e *InvalidDiscountError) Category() string { return "INVALID_DISCOUNT" }
func (e *InvalidDiscountError) HTTPStatus() int  { return http.StatusUnprocessableEntity }
func (e *InvalidDiscountError) Unwrap() error    { return nil }

// NewInvalidDiscountError cria um erro de desconto inválido.
func NewInvalidDiscountError(msg string) AppError {
	return &InvalidDiscountError{Msg: msg}
}

// NegativePaymentError indica um valor pago negativo após o desconto.
type NegativePaymentError struct {
	Msg string
}

func (e *NegativePaymentError) Error() string    { return fmt.Sprintf("Valor pago inválido: %s", e.Msg) }
func (e *NegativePaymentError) Category() string { return "NEGATIVE_PAYMENT" }
func (e *NegativePaymentError) HTTPStatus() int  { return http.StatusUnprocessableEntity }
func (e *NegativePaymentError) Unwrap() error    { return nil }

// NewNegativePaymentError cria um erro de pagamento negativo.
func NewNegativePaymentError(msg string) AppError {
	return &NegativePaymentError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
// O texto do driver fica apenas na causa (Unwrap) e não chega ao cliente.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB).", msg), err)
}

// Detail anexa a causa de um InternalError à mensagem, para uso em log.
func Detail(err error) error {
	var internal *InternalError
	if errors.As(err, &internal) && internal.Err != nil {
		return fmt.Errorf("%s: %w", err.Error(), internal.Err)
	}
	return err
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
// Erros tipados encapsulados com %w também são reconhecidos.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado (e.g., erro simples de pacote Go que não implementa AppError)
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}

// IsNotFound informa se algum erro da cadeia é um NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// Wrap mantém erros já tipados (NotFound, Conflict, ...) e encapsula os demais
// em InternalError com a mensagem informada.
func Wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	var appErr AppError
	if errors.As(err, &appErr) {
		return err
	}
	return NewInternalError(msg, err)
}
