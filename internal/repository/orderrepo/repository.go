package orderrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
	"fiapcloudgames/internal/repository/pgutil"
	"fiapcloudgames/internal/repository/promotionrepo"
)

const orderColumns = `o.id, o.user_id, o.game_id, o.promotion_id, o.order_value, o.discount_value, o.paid_value, o.created_at`

// OrderRepository acessa a tabela orders e a visão vw_orders.
type OrderRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewOrderRepository cria e retorna uma nova instância do Repositório de Pedidos.
func NewOrderRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		id, userID, gameID         int64
		promotionID                sql.NullInt64
		orderValue, discount, paid decimal.Decimal
		createdAt                  time.Time
	)
	if err := row.Scan(&id, &userID, &gameID, &promotionID, &orderValue, &discount, &paid, &createdAt); err != nil {
		return nil, err
	}
	ref := domain.NoPromotion()
	if promotionID.Valid {
		ref = domain.PromotionRefOf(promotionID.Int64)
	}
	return domain.RestoreOrder(id, createdAt, userID, gameID, ref, orderValue, discount, paid), nil
}

// Create grava um pedido novo. Dentro da transação, o jogo e a promoção são relidos com
// FOR SHARE e o pedido é calculado com esses valores antes do INSERT. Assim uma alteração
// concorrente da promoção espera o fim do pedido, e o pedido nunca usa uma validade antiga.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order, price domain.PriceFunc) error {
	r.logger.Debug("Iniciando gravação de pedido.", map[string]interface{}{"user_id": order.UserID(), "game_id": order.GameID()})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação do pedido.", err)
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	// 1. Reler jogo e promoção e calcular
	if err := r.priceInTx(ctxTimeout, tx, order, price); err != nil {
		return err
	}

	// 2. Inserir
	const query = `INSERT INTO orders (user_id, game_id, promotion_id, order_value, discount_value, paid_value, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING id`

	var id int64
	err = tx.QueryRowContext(ctxTimeout, query,
		order.UserID(), order.GameID(), order.Promotion().Ptr(),
		order.OrderValue(), order.DiscountValue(), order.PaidValue(), order.CreatedAt,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Falha ao inserir pedido no DB.", err)
		return pgutil.MapWriteError("Falha ao inserir pedido", err, "Usuário, jogo ou promoção do pedido não existe mais.")
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação do pedido.", err)
		return apperror.NewDBError("Falha ao commitar transação", err)
	}

	order.ID = id
	r.logger.Info("Pedido gravado.", map[string]interface{}{"order_id": id, "paid_value": order.PaidValue().StringFixed(2)})
	return nil
}

// Update regrava referências e valores de um pedido existente. O pedido é bloqueado com
// FOR UPDATE e recalculado dentro da transação, como em Create.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order, price domain.PriceFunc) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de alteração do pedido.", err)
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	// 1. Bloquear o pedido
	var locked int64
	err = tx.QueryRowContext(ctxTimeout, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, order.ID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %d não encontrado.", order.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao bloquear pedido para alteração.", err)
		return apperror.NewDBError("Falha ao buscar pedido para alteração", err)
	}

	// 2. Reler jogo e promoção e calcular
	if err := r.priceInTx(ctxTimeout, tx, order, price); err != nil {
		return err
	}

	// 3. Gravar
	const query = `UPDATE orders
                   SET user_id = $1, game_id = $2, promotion_id = $3, order_value = $4, discount_value = $5, paid_value = $6
                   WHERE id = $7`

	_, err = tx.ExecContext(ctxTimeout, query,
		order.UserID(), order.GameID(), order.Promotion().Ptr(),
		order.OrderValue(), order.DiscountValue(), order.PaidValue(), order.ID)
	if err != nil {
		r.logger.Error("Falha ao atualizar pedido no DB.", err)
		return pgutil.MapWriteError("Falha ao atualizar pedido", err, "Usuário, jogo ou promoção do pedido não existe mais.")
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar alteração do pedido.", err)
		return apperror.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Pedido atualizado.", map[string]interface{}{"order_id": order.ID})
	return nil
}

// priceInTx lê o jogo e a promoção do pedido com FOR SHARE e chama price.
func (r *OrderRepository) priceInTx(ctx context.Context, tx *sql.Tx, order *domain.Order, price domain.PriceFunc) error {
	var game domain.Game
	err := tx.QueryRowContext(ctx,
		`SELECT id, name, release_year, base_price, created_at FROM games WHERE id = $1 FOR SHARE`, order.GameID(),
	).Scan(&game.ID, &game.Name, &game.ReleaseYear, &game.BasePrice, &game.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewNotFoundError(fmt.Sprintf("Jogo com ID %d não existe na base de dados.", order.GameID()))
	}
	if err != nil {
		r.logger.Error("Falha ao reler jogo na transação do pedido.", err)
		return apperror.NewDBError("Falha ao buscar jogo do pedido", err)
	}

	var promo *domain.Promotion
	if promoID, ok := order.Promotion().Get(); ok {
		promo, err = promotionrepo.ScanPromotion(tx.QueryRowContext(ctx,
			`SELECT id, name, discount, valid_until, created_at FROM promotions WHERE id = $1 FOR SHARE`, promoID))
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFoundError(fmt.Sprintf("Promoção com ID %d não encontrada.", promoID))
		}
		if err != nil {
			r.logger.Error("Falha ao reler promoção na transação do pedido.", err)
			return apperror.NewDBError("Falha ao buscar promoção do pedido", err)
		}
	}

	if err := price(&game, promo); err != nil {
		r.logger.Warn("Pedido rejeitado no cálculo.", map[string]interface{}{"game_id": order.GameID(), "error": err.Error()})
		return err
	}
	return nil
}

// FindByID busca um pedido pelo ID.
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	order, err := scanOrder(r.DB.QueryRowContext(ctxTimeout, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %d não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar pedido no DB.", err)
		return nil, apperror.NewDBError("Falha ao buscar pedido", err)
	}
	return order, nil
}

// FindAll lista todos os pedidos, do mais recente para o mais antigo.
func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders o ORDER BY o.created_at DESC, o.id DESC`)
}

// FindByUser lista os pedidos de um usuário.
func (r *OrderRepository) FindByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC`, userID)
}

// FindByUserEmail lista os pedidos do usuário com o email informado.
func (r *OrderRepository) FindByUserEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+`
        FROM orders o JOIN users u ON u.id = o.user_id
        WHERE u.email = $1
        ORDER BY o.created_at DESC, o.id DESC`, email)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar pedidos no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar pedidos", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler pedido", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao percorrer pedidos", err)
	}
	return orders, nil
}

// FindViews lê a visão vw_orders, com nomes de usuário, jogo e promoção.
func (r *OrderRepository) FindViews(ctx context.Context) ([]domain.OrderView, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT order_id, created_at, user_id, user_name, user_email, game_id, game_name,
                          promotion_id, promotion_name, discount, order_value, discount_value, paid_value
                   FROM vw_orders
                   ORDER BY created_at DESC, order_id DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao consultar a visão de pedidos.", err)
		return nil, apperror.NewDBError("Falha ao consultar a visão de pedidos", err)
	}
	defer rows.Close()

	views := make([]domain.OrderView, 0)
	for rows.Next() {
		var (
			v             domain.OrderView
			promotionID   sql.NullInt64
			promotionName sql.NullString
			discount      sql.NullInt32
		)
		if err := rows.Scan(&v.OrderID, &v.CreatedAt, &v.UserID, &v.UserName, &v.UserEmail, &v.GameID, &v.GameName,
			&promotionID, &promotionName, &discount, &v.OrderValue, &v.DiscountValue, &v.PaidValue); err != nil {
			return nil, apperror.NewDBError("Falha ao ler linha da visão de pedidos", err)
		}
		if promotionID.Valid {
			v.PromotionID = &promotionID.Int64
		}
		if promotionName.Valid {
			v.PromotionName = &promotionName.String
		}
		if discount.Valid {
			d := int(discount.Int32)
			v.Discount = &d
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao percorrer a visão de pedidos", err)
	}
	return views, nil
}

// Delete remove um pedido.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao excluir pedido no DB.", err)
		return apperror.NewDBError("Falha ao excluir pedido", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %d não encontrado.", id))
	}
	return nil
}
