package gameservice

import (
	"context"
	"fmt"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
)

// GameRepository define o contrato que o Serviço de Jogos espera da camada de Persistência.
type GameRepository interface {
	Save(ctx context.Context, game domain.Game) (domain.Game, error)
	FindByID(ctx context.Context, id int64) (domain.Game, error)
	FindAll(ctx context.Context) ([]domain.Game, error)
	Update(ctx context.Context, game domain.Game) (domain.Game, error)
	Delete(ctx context.Context, id int64) error
	HasOrders(ctx context.Context, id int64) (bool, error)
}

// GameService define o serviço de lógica de negócio para o catálogo de jogos.
type GameService struct {
	GameRepo GameRepository
	logger   logger.Logger
}

// NewService cria uma nova instância do GameService, injetando o Repositório.
func NewService(repo GameRepository, logger logger.Logger) *GameService {
	return &GameService{
		GameRepo: repo,
		logger:   logger,
	}
}

// Create valida e grava um novo jogo.
func (s *GameService) Create(ctx context.Context, input domain.GameInput) (domain.Game, error) {
	s.logger.Debug("Iniciando criação de jogo no serviço.", map[string]interface{}{"name": input.Name})

	game, err := domain.NewGame(input)
	if err != nil {
		s.logger.Warn("Falha na validação do jogo.", map[string]interface{}{"name": input.Name, "error": err.Error()})
		return domain.Game{}, err
	}

	saved, err := s.GameRepo.Save(ctx, game)
	if err != nil {
		s.logger.Error("Falha ao salvar jogo no repositório.", err)
		return domain.Game{}, apperror.Wrap("Falha interna ao cadastrar jogo.", err)
	}

	s.logger.Info("Jogo criado com sucesso.", map[string]interface{}{"game_id": saved.ID})
	return saved, nil
}

// GetAll lista o catálogo.
func (s *GameService) GetAll(ctx context.Context) ([]domain.Game, error) {
	games, err := s.GameRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao listar jogos.", err)
		return nil, apperror.Wrap("Falha interna ao listar jogos.", err)
	}
	return games, nil
}

// GetByID busca um jogo pelo ID.
func (s *GameService) GetByID(ctx context.Context, id int64) (domain.Game, error) {
	if id <= 0 {
		return domain.Game{}, apperror.NewValidationError("ID de jogo inválido.")
	}
	game, err := s.GameRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Game{}, apperror.Wrap("Falha interna ao buscar jogo.", err)
	}
	return game, nil
}

// Update altera os dados do jogo. Pedidos já calculados mantêm o valor gravado.
func (s *GameService) Update(ctx context.Context, id int64, input domain.GameInput) (domain.Game, error) {
	game, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Game{}, err
	}

	if err := game.Apply(input); err != nil {
		s.logger.Warn("Falha na validação da alteração do jogo.", map[string]interface{}{"game_id": id, "error": err.Error()})
		return domain.Game{}, err
	}

	updated, err := s.GameRepo.Update(ctx, game)
	if err != nil {
		s.logger.Error("Falha ao atualizar jogo no repositório.", err)
		return domain.Game{}, apperror.Wrap("Falha interna ao atualizar jogo.", err)
	}

	s.logger.Info("Jogo atualizado.", map[string]interface{}{"game_id": id})
	return updated, nil
}

// Delete remove um jogo que não aparece em nenhum pedido.
func (s *GameService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidationError("ID de jogo inválido.")
	}

	hasOrders, err := s.GameRepo.HasOrders(ctx, id)
	if err != nil {
		return apperror.Wrap("Falha interna ao verificar pedidos do jogo.", err)
	}
	if hasOrders {
		return apperror.NewConflictError(fmt.Sprintf("Jogo %d possui pedidos e não pode ser excluído.", id))
	}

	if err := s.GameRepo.Delete(ctx, id); err != nil {
		return apperror.Wrap("Falha interna ao excluir jogo.", err)
	}

	s.logger.Info("Jogo excluído.", map[string]interface{}{"game_id": id})
	return nil
}
