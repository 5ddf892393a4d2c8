package promotionrepo

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

const promotionColumns = `id, name, discount, valid_until, created_at`

// PromotionRepository acessa a tabela promotions. As leituras nunca passam pelo cache:
// o cálculo de pedidos precisa sempre da validade atual.
type PromotionRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPromotionRepository cria e retorna uma nova instância do Repositório de Promoções.
func NewPromotionRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *PromotionRepository {
	return &PromotionRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ScanPromotion lê uma linha com as colunas de promotionColumns.
func ScanPromotion(row rowScanner) (*domain.Promotion, error) {
	var (
		id         int64
		name       string
		discount   int
		validUntil time.Time
		createdAt  time.Time
	)
	if err := row.Scan(&id, &name, &discount, &validUntil, &createdAt); err != nil {
		return nil, err
	}
	return domain.RestorePromotion(id, createdAt, name, discount, validUntil), nil
}

// Save insere uma nova promoção. Nomes repetidos resultam em ConflictError.
func (r *PromotionRepository) Save(ctx context.Context, promo *domain.Promotion) error {
	r.logger.Debug("Iniciando Save de promoção no repositório.", map[string]interface{}{"name": promo.Name()})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `INSERT INTO promotions (name, discount, valid_until, created_at)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id`

	err := r.DB.QueryRowContext(ctxTimeout, query, promo.Name(), promo.Discount(), promo.ValidUntil(), promo.CreatedAt).Scan(&promo.ID)
	if err != nil {
		r.logger.Error("Falha ao inserir promoção no DB.", err)
		return pgutil.MapWriteError("Falha ao inserir promoção", err, fmt.Sprintf("Promoção '%s' já cadastrada.", promo.Name()))
	}

	r.logger.Info("Promoção salva no repositório.", map[string]interface{}{"promotion_id": promo.ID})
	return nil
}

// FindByID busca uma promoção pelo ID.
func (r *PromotionRepository) FindByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	promo, err := ScanPromotion(r.DB.QueryRowContext(ctxTimeout, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Promoção com ID %d não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar promoção no DB.", err)
		return nil, apperror.NewDBError("Falha ao buscar promoção", err)
	}
	return promo, nil
}

// FindByName busca uma promoção pelo nome exato.
func (r *PromotionRepository) FindByName(ctx context.Context, name string) (*domain.Promotion, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	promo, err := ScanPromotion(r.DB.QueryRowContext(ctxTimeout, `SELECT `+promotionColumns+` FROM promotions WHERE name = $1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Promoção '%s' não encontrada.", name))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar promoção por nome no DB.", err)
		return nil, apperror.NewDBError("Falha ao buscar promoção por nome", err)
	}
	return promo, nil
}

// FindAll lista as promoções. Com onlyActive, apenas as que ainda estão vigentes.
func (r *PromotionRepository) FindAll(ctx context.Context, onlyActive bool) ([]*domain.Promotion, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + promotionColumns + ` FROM promotions`
	var args []any
	if onlyActive {
		query += ` WHERE valid_until >= $1`
		args = append(args, time.Now())
	}
	query += ` ORDER BY valid_until, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar promoções no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar promoções", err)
	}
	defer rows.Close()

	promos := make([]*domain.Promotion, 0)
	for rows.Next() {
		p, err := ScanPromotion(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler promoção", err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao percorrer promoções", err)
	}
	return promos, nil
}

// Update grava nome, desconto e validade.
func (r *PromotionRepository) Update(ctx context.Context, promo *domain.Promotion) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE promotions SET name = $1, discount = $2, valid_until = $3 WHERE id = $4`

	result, err := r.DB.ExecContext(ctxTimeout, query, promo.Name(), promo.Discount(), promo.ValidUntil(), promo.ID)
	if err != nil {
		r.logger.Error("Falha ao atualizar promoção no DB.", err)
		return pgutil.MapWriteError("Falha ao atualizar promoção", err, fmt.Sprintf("Promoção '%s' já cadastrada.", promo.Name()))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Promoção com ID %d não encontrada.", promo.ID))
	}
	return nil
}

// Delete remove a promoção.
func (r *PromotionRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao excluir promoção no DB.", err)
		return pgutil.MapWriteError("Falha ao excluir promoção", err, "Promoção possui pedidos e não pode ser excluída.")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Promoção com ID %d não encontrada.", id))
	}
	return nil
}

// HasOrders informa se existem pedidos com a promoção.
func (r *PromotionRepository) HasOrders(ctx context.Context, id int64) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT EXISTS (SELECT 1 FROM orders WHERE promotion_id = $1)`, id).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar pedidos da promoção.", err)
		return false, apperror.NewDBError("Falha ao verificar pedidos da promoção", err)
	}
	return exists, nil
}
