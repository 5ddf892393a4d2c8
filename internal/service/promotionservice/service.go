package promotionservice

import (
	"context"
	"fmt"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
)

// PromotionRepository define o contrato que o Serviço de Promoções espera da camada de Persistência.
type PromotionRepository interface {
	Save(ctx context.Context, promo *domain.Promotion) error
	FindByID(ctx context.Context, id int64) (*domain.Promotion, error)
	FindByName(ctx context.Context, name string) (*domain.Promotion, error)
	FindAll(ctx context.Context, onlyActive bool) ([]*domain.Promotion, error)
	Update(ctx context.Context, promo *domain.Promotion) error
	Delete(ctx context.Context, id int64) error
	HasOrders(ctx context.Context, id int64) (bool, error)
}

// PromotionService define o serviço de lógica de negócio para promoções.
type PromotionService struct {
	PromotionRepo PromotionRepository
	logger        logger.Logger
}

// NewService cria uma nova instância do PromotionService, injetando o Repositório.
func NewService(repo PromotionRepository, logger logger.Logger) *PromotionService {
	return &PromotionService{
		PromotionRepo: repo,
		logger:        logger,
	}
}

// Create valida e grava uma nova promoção. O nome é único.
func (s *PromotionService) Create(ctx context.Context, input domain.PromotionInput) (*domain.Promotion, error) {
	s.logger.Debug("Iniciando criação de promoção no serviço.", map[string]interface{}{"name": input.Name})

	// 1. Regras da entidade
	promo, err := domain.NewPromotion(input.Name, input.Discount, input.ValidUntil)
	if err != nil {
		s.logger.Warn("Falha na validação da promoção.", map[string]interface{}{"name": input.Name, "error": err.Error()})
		return nil, err
	}

	// 2. Nome único
	if err := s.ensureNameAvailable(ctx, promo.Name(), 0); err != nil {
		return nil, err
	}

	// 3. Persistência
	if err := s.PromotionRepo.Save(ctx, promo); err != nil {
		s.logger.Error("Falha ao salvar promoção no repositório.", err)
		return nil, apperror.Wrap("Falha interna ao cadastrar promoção.", err)
	}

	s.logger.Info("Promoção criada com sucesso.", map[string]interface{}{"promotion_id": promo.ID, "discount": promo.Discount()})
	return promo, nil
}

// List lista as promoções. Com onlyActive, somente as vigentes.
func (s *PromotionService) List(ctx context.Context, onlyActive bool) ([]*domain.Promotion, error) {
	promos, err := s.PromotionRepo.FindAll(ctx, onlyActive)
	if err != nil {
		s.logger.Error("Falha ao listar promoções.", err)
		return nil, apperror.Wrap("Falha interna ao listar promoções.", err)
	}
	return promos, nil
}

// Get busca uma promoção pelo ID.
func (s *PromotionService) Get(ctx context.Context, id int64) (*domain.Promotion, error) {
	if id <= 0 {
		return nil, apperror.NewValidationError("ID de promoção inválido.")
	}
	promo, err := s.PromotionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap("Falha interna ao buscar promoção.", err)
	}
	return promo, nil
}

// Update altera nome, desconto e validade. As alterações são aplicadas todas ou nenhuma.
// Pedidos já calculados não são recalculados.
func (s *PromotionService) Update(ctx context.Context, id int64, input domain.PromotionInput) (*domain.Promotion, error) {
	promo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := promo.Apply(input); err != nil {
		s.logger.Warn("Falha na validação da alteração da promoção.", map[string]interface{}{"promotion_id": id, "error": err.Error()})
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, promo.Name(), id); err != nil {
		return nil, err
	}

	if err := s.PromotionRepo.Update(ctx, promo); err != nil {
		s.logger.Error("Falha ao atualizar promoção no repositório.", err)
		return nil, apperror.Wrap("Falha interna ao atualizar promoção.", err)
	}

	s.logger.Info("Promoção atualizada.", map[string]interface{}{"promotion_id": id})
	return promo, nil
}

// Delete remove uma promoção que não foi usada em pedidos.
func (s *PromotionService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidationError("ID de promoção inválido.")
	}

	hasOrders, err := s.PromotionRepo.HasOrders(ctx, id)
	if err != nil {
		return apperror.Wrap("Falha interna ao verificar pedidos da promoção.", err)
	}
	if hasOrders {
		return apperror.NewConflictError(fmt.Sprintf("Promoção %d foi usada em pedidos e não pode ser excluída.", id))
	}

	if err := s.PromotionRepo.Delete(ctx, id); err != nil {
		return apperror.Wrap("Falha interna ao excluir promoção.", err)
	}

	s.logger.Info("Promoção excluída.", map[string]interface{}{"promotion_id": id})
	return nil
}

// ensureNameAvailable falha com ConflictError se outra promoção (ID diferente de selfID) já usa o nome.
func (s *PromotionService) ensureNameAvailable(ctx context.Context, name string, selfID int64) error {
	existing, err := s.PromotionRepo.FindByName(ctx, name)
	if apperror.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return apperror.Wrap("Falha interna ao verificar nome da promoção.", err)
	}
	if existing.ID != selfID {
		return apperror.NewConflictError(fmt.Sprintf("Promoção '%s' já cadastrada.", name))
	}
	return nil
}
