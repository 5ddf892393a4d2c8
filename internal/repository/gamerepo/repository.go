package gamerepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/cache"
	"fiapcloudgames/internal/pkg/logger"
	"fiapcloudgames/internal/repository/pgutil"
)

// Define a chave de cache para jogos.
const gameCacheKey = "game:%d"

const gameColumns = `id, name, release_year, base_price, created_at`

// GameRepository acessa a tabela games, com cache-aside no Redis para leituras por ID.
type GameRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewGameRepository cria e retorna uma nova instância do Repositório.
func NewGameRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *GameRepository {
	return &GameRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (domain.Game, error) {
	var g domain.Game
	err := row.Scan(&g.ID, &g.Name, &g.ReleaseYear, &g.BasePrice, &g.CreatedAt)
	return g, err
}

// Save insere um novo jogo.
func (r *GameRepository) Save(ctx context.Context, game domain.Game) (domain.Game, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `INSERT INTO games (name, release_year, base_price, created_at)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id`

	err := r.DB.QueryRowContext(ctxTimeout, query, game.Name, game.ReleaseYear, game.BasePrice, game.CreatedAt).Scan(&game.ID)
	if err != nil {
		r.logger.Error("Falha ao inserir jogo no DB.", err)
		return domain.Game{}, pgutil.MapWriteError("Falha ao inserir jogo", err, fmt.Sprintf("Jogo '%s' já cadastrado.", game.Name))
	}

	r.logger.Info("Jogo salvo no repositório.", map[string]interface{}{"game_id": game.ID})
	return game, nil
}

// FindByID busca um jogo pelo ID, utilizando a estratégia Cache-Aside.
// Falhas do cache não impedem a leitura no banco.
func (r *GameRepository) FindByID(ctx context.Context, id int64) (domain.Game, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(gameCacheKey, id)

	// 1. Cache (READ)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		var game domain.Game
		if json.Unmarshal([]byte(cachedData), &game) == nil {
			r.logger.Debug("Jogo encontrado no cache.", map[string]interface{}{"game_id": id})
			return game, nil
		}
		r.logger.Warn("Entrada de cache inválida para jogo. Consultando o DB.", map[string]interface{}{"key": key})
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("Falha ao ler do cache. Consultando o DB.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// 2. Banco de Dados
	row := r.DB.QueryRowContext(ctxTimeout, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Game{}, apperror.NewNotFoundError(fmt.Sprintf("Jogo com ID %d não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar jogo no DB.", err)
		return domain.Game{}, apperror.NewDBError("Falha ao buscar jogo no DB", err)
	}

	// 3. Cache (WRITE)
	if payload, marshalErr := json.Marshal(game); marshalErr == nil {
		if setErr := r.Cache.Set(ctxTimeout, key, payload, r.CacheTTL); setErr != nil {
			r.logger.Warn("Falha ao gravar jogo no cache.", map[string]interface{}{"key": key, "error": setErr.Error()})
		}
	}

	return game, nil
}

// FindAll lista todos os jogos ordenados por nome. A listagem não passa pelo cache.
func (r *GameRepository) FindAll(ctx context.Context) ([]domain.Game, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+gameColumns+` FROM games ORDER BY name, id`)
	if err != nil {
		r.logger.Error("Falha ao listar jogos no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar jogos", err)
	}
	defer rows.Close()

	games := make([]domain.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler jogo", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao percorrer jogos", err)
	}
	return games, nil
}

// Update grava o jogo e invalida a entrada do cache.
func (r *GameRepository) Update(ctx context.Context, game domain.Game) (domain.Game, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE games SET name = $1, release_year = $2, base_price = $3 WHERE id = $4`

	result, err := r.DB.ExecContext(ctxTimeout, query, game.Name, game.ReleaseYear, game.BasePrice, game.ID)
	if err != nil {
		r.logger.Error("Falha ao atualizar jogo no DB.", err)
		return domain.Game{}, pgutil.MapWriteError("Falha ao atualizar jogo", err, fmt.Sprintf("Jogo '%s' já cadastrado.", game.Name))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.Game{}, apperror.NewNotFoundError(fmt.Sprintf("Jogo com ID %d não existe na base de dados.", game.ID))
	}

	r.invalidate(ctxTimeout, game.ID)
	return game, nil
}

// Delete remove o jogo e invalida o cache.
func (r *GameRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao excluir jogo no DB.", err)
		return pgutil.MapWriteError("Falha ao excluir jogo", err, "Jogo possui pedidos e não pode ser excluído.")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Jogo com ID %d não existe na base de dados.", id))
	}

	r.invalidate(ctxTimeout, id)
	return nil
}

// HasOrders informa se existem pedidos do jogo.
func (r *GameRepository) HasOrders(ctx context.Context, id int64) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT EXISTS (SELECT 1 FROM orders WHERE game_id = $1)`, id).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar pedidos do jogo.", err)
		return false, apperror.NewDBError("Falha ao verificar pedidos do jogo", err)
	}
	return exists, nil
}

func (r *GameRepository) invalidate(ctx context.Context, id int64) {
	key := fmt.Sprintf(gameCacheKey, id)
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Falha ao invalidar jogo no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
