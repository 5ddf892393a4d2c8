package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
	"fiapcloudgames/internal/repository/pgutil"
)

const userColumns = `id, name, email, password_hash, role, created_at`

// UserRepository acessa a tabela users.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	u.Role = domain.UserRole(role)
	return u, err
}

// Save insere um novo usuário e devolve o registro com o ID gerado.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"email": user.Email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `INSERT INTO users (name, email, password_hash, role, created_at)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		user.Name, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, pgutil.MapWriteError("Falha ao inserir usuário", err,
			fmt.Sprintf("Email '%s' já cadastrado.", user.Email))
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// FindByID busca um usuário pelo ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %d não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por ID no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário", err)
	}
	return user, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail (já normalizado).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	r.logger.Debug("Iniciando FindByEmail de usuário no repositório.", map[string]interface{}{"email": email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado.", email))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário por email", err)
	}
	return user, nil
}

// FindAll lista todos os usuários ordenados por ID.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		r.logger.Error("Falha ao listar usuários no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar usuários", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler usuário", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao percorrer usuários", err)
	}
	return users, nil
}

// Update grava nome, email, hash da senha e role do usuário.
func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE users SET name = $1, email = $2, password_hash = $3, role = $4 WHERE id = $5`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		user.Name, user.Email, user.PasswordHash, string(user.Role), user.ID)
	if err != nil {
		r.logger.Error("Falha ao atualizar usuário no DB.", err)
		return domain.User{}, pgutil.MapWriteError("Falha ao atualizar usuário", err,
			fmt.Sprintf("Email '%s' já cadastrado.", user.Email))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %d não encontrado.", user.ID))
	}

	r.logger.Info("Usuário atualizado no repositório.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// Delete remove o usuário. Pedidos associados impedem a exclusão (chave estrangeira).
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao excluir usuário no DB.", err)
		return pgutil.MapWriteError("Falha ao excluir usuário", err, "Usuário possui pedidos e não pode ser excluído.")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %d não encontrado.", id))
	}
	return nil
}

// HasOrders informa se existem pedidos do usuário.
func (r *UserRepository) HasOrders(ctx context.Context, id int64) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT EXISTS (SELECT 1 FROM orders WHERE user_id = $1)`, id).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar pedidos do usuário.", err)
		return false, apperror.NewDBError("Falha ao verificar pedidos do usuário", err)
	}
	return exists, nil
}
