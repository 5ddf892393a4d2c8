// Package pgutil reúne a tradução de erros do driver PostgreSQL para os erros da aplicação.
package pgutil

import (
	"errors"

	"github.com/lib/pq"

	apperror "fiapcloudgames/internal/errors"
)

// Códigos SQLSTATE usados pelos repositórios.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// IsUniqueViolation informa se o erro é de violação de índice único.
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

// IsForeignKeyViolation informa se o erro é de violação de chave estrangeira.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

// MapWriteError converte erros de escrita: índice único e chave estrangeira viram
// ConflictError com a mensagem informada, violações de CHECK viram ValidationError
// e o restante vira erro de DB.
func MapWriteError(op string, err error, conflictMsg string) error {
	switch {
	case hasCode(err, uniqueViolation), hasCode(err, foreignKeyViolation):
		return apperror.NewConflictError(conflictMsg)
	case hasCode(err, checkViolation):
		return apperror.NewValidationError("Dados violam uma restrição do banco.")
	default:
		return apperror.NewDBError(op, err)
	}
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
