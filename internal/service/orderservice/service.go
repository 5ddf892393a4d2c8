package orderservice

import (
	"context"
	"fmt"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
)

// OrderRepository define o contrato de persistência de pedidos. Create e Update recebem
// a função de cálculo, executada pelo repositório com jogo e promoção relidos na transação.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, price domain.PriceFunc) error
	Update(ctx context.Context, order *domain.Order, price domain.PriceFunc) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	FindByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	FindByUserEmail(ctx context.Context, email string) ([]*domain.Order, error)
	FindViews(ctx context.Context) ([]domain.OrderView, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository é o subconjunto do repositório de usuários usado pelos pedidos.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// GameRepository é o subconjunto do repositório de jogos usado pelos pedidos.
type GameRepository interface {
	FindByID(ctx context.Context, id int64) (domain.Game, error)
}

// PromotionRepository é o subconjunto do repositório de promoções usado pelos pedidos.
type PromotionRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Promotion, error)
}

// OrderService orquestra a criação, o cálculo e a consulta de pedidos.
type OrderService struct {
	OrderRepo     OrderRepository
	UserRepo      UserRepository
	GameRepo      GameRepository
	PromotionRepo PromotionRepository
	logger        logger.Logger
}

// NewService cria uma nova instância do OrderService.
func NewService(orderRepo OrderRepository, userRepo UserRepository, gameRepo GameRepository, promoRepo PromotionRepository, logger logger.Logger) *OrderService {
	return &OrderService{
		OrderRepo:     orderRepo,
		UserRepo:      userRepo,
		GameRepo:      gameRepo,
		PromotionRepo: promoRepo,
		logger:        logger,
	}
}

// references agrupa as entidades resolvidas de um pedido.
type references struct {
	user  domain.User
	game  domain.Game
	promo *domain.Promotion
}

// resolve busca usuário, jogo e promoção. Referências inexistentes viram NotFoundError.
func (s *OrderService) resolve(ctx context.Context, userID, gameID int64, ref domain.PromotionRef) (references, error) {
	var refs references
	var err error

	if refs.user, err = s.UserRepo.FindByID(ctx, userID); err != nil {
		return references{}, apperror.Wrap("Falha interna ao buscar usuário do pedido.", err)
	}
	if refs.game, err = s.GameRepo.FindByID(ctx, gameID); err != nil {
		return references{}, apperror.Wrap("Falha interna ao buscar jogo do pedido.", err)
	}
	if promoID, ok := ref.Get(); ok {
		if refs.promo, err = s.PromotionRepo.FindByID(ctx, promoID); err != nil {
			return references{}, apperror.Wrap("Falha interna ao buscar promoção do pedido.", err)
		}
	}
	return refs, nil
}

// repricer devolve a função executada pelo repositório dentro da transação. O usuário
// já foi resolvido; jogo e promoção chegam relidos do banco.
func repricer(order *domain.Order, user domain.User) domain.PriceFunc {
	return func(game *domain.Game, promo *domain.Promotion) error {
		return order.PriceOrder(&user, game, promo)
	}
}

// PlaceOrder cria um pedido para o usuário autenticado.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, input domain.OrderInput) (*domain.Order, error) {
	s.logger.Debug("Iniciando criação de pedido no serviço.", map[string]interface{}{"user_id": userID, "game_id": input.GameID})

	// 1. Construção do pedido (data de criação = agora)
	ref := domain.PromotionRefFromPtr(input.PromotionID)
	order, err := domain.NewOrder(userID, input.GameID, ref)
	if err != nil {
		return nil, err
	}

	// 2. Resolver referências
	refs, err := s.resolve(ctx, userID, input.GameID, ref)
	if err != nil {
		s.logger.Warn("Referência do pedido não encontrada.", map[string]interface{}{"user_id": userID, "game_id": input.GameID, "error": err.Error()})
		return nil, err
	}

	// 3. Cálculo antecipado, para rejeitar sem abrir transação
	if err := order.PriceOrder(&refs.user, &refs.game, refs.promo); err != nil {
		s.logger.Warn("Pedido rejeitado no cálculo.", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return nil, err
	}

	// 4. Persistência com recálculo sobre jogo e promoção relidos
	if err := s.OrderRepo.Create(ctx, order, repricer(order, refs.user)); err != nil {
		s.logger.Error("Falha ao gravar pedido.", err)
		return nil, apperror.Wrap("Falha interna ao gravar pedido.", err)
	}

	s.logger.Info("Pedido criado.", map[string]interface{}{"order_id": order.ID, "paid_value": order.PaidValue().StringFixed(2)})
	return order, nil
}

// PlaceOrderOnBehalf cria um pedido em nome do usuário informado na entrada (uso administrativo).
func (s *OrderService) PlaceOrderOnBehalf(ctx context.Context, input domain.OrderInput) (*domain.Order, error) {
	if input.UserID <= 0 {
		return nil, apperror.NewValidationError("ID de usuário é obrigatório.")
	}
	return s.PlaceOrder(ctx, input.UserID, input)
}

// List lista todos os pedidos.
func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.OrderRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Wrap("Falha interna ao listar pedidos.", err)
	}
	return orders, nil
}

// Get busca um pedido pelo ID.
func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, apperror.NewValidationError("ID de pedido inválido.")
	}
	order, err := s.OrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap("Falha interna ao buscar pedido.", err)
	}
	return order, nil
}

// ListByUser lista os pedidos do usuário.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	orders, err := s.OrderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap("Falha interna ao listar pedidos do usuário.", err)
	}
	return orders, nil
}

// ListByUserEmail lista os pedidos do usuário com o email informado. Email desconhecido resulta em 404.
func (s *OrderService) ListByUserEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if _, err := s.UserRepo.FindByEmail(ctx, normalized); err != nil {
		return nil, apperror.Wrap("Falha interna ao buscar usuário.", err)
	}
	orders, err := s.OrderRepo.FindByUserEmail(ctx, normalized)
	if err != nil {
		return nil, apperror.Wrap("Falha interna ao listar pedidos do usuário.", err)
	}
	return orders, nil
}

// Report devolve os pedidos com nomes de usuário, jogo e promoção.
func (s *OrderService) Report(ctx context.Context) ([]domain.OrderView, error) {
	views, err := s.OrderRepo.FindViews(ctx)
	if err != nil {
		s.logger.Error("Falha ao gerar relatório de pedidos.", err)
		return nil, apperror.Wrap("Falha interna ao gerar relatório de pedidos.", err)
	}
	return views, nil
}

// Update troca as referências de um pedido e o recalcula. A data de criação do pedido
// é mantida, então a promoção nova precisa estar vigente naquela data.
func (s *OrderService) Update(ctx context.Context, id int64, input domain.OrderInput) (*domain.Order, error) {
	s.logger.Debug("Iniciando alteração de pedido no serviço.", map[string]interface{}{"order_id": id})

	// 1. Pedido existente
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. Reatribuir referências (limpa os valores calculados)
	ref := domain.PromotionRefFromPtr(input.PromotionID)
	if err := order.Reassign(input.UserID, input.GameID, ref); err != nil {
		return nil, err
	}
	refs, err := s.resolve(ctx, input.UserID, input.GameID, ref)
	if err != nil {
		return nil, err
	}

	// 3. Vigência da promoção na data do pedido
	if refs.promo != nil && !refs.promo.IsValidAt(order.CreatedAt) {
		s.logger.Warn("Promoção fora da vigência na data do pedido.", map[string]interface{}{"order_id": id, "promotion_id": refs.promo.ID})
		return nil, apperror.NewExpiredPromotionError(fmt.Sprintf(
			"Promoção não estava vigente na data do pedido. Data do pedido: %s, vigência: %s a %s.",
			order.CreatedAt.Format(domain.DateTimeLayout),
			refs.promo.CreatedAt.Format(domain.DateTimeLayout),
			refs.promo.ValidUntil().Format(domain.DateTimeLayout)))
	}

	// 4. Recalcular
	if err := order.PriceOrder(&refs.user, &refs.game, refs.promo); err != nil {
		s.logger.Warn("Alteração de pedido rejeitada no cálculo.", map[string]interface{}{"order_id": id, "error": err.Error()})
		return nil, err
	}

	// 5. Persistência
	if err := s.OrderRepo.Update(ctx, order, repricer(order, refs.user)); err != nil {
		s.logger.Error("Falha ao atualizar pedido.", err)
		return nil, apperror.Wrap("Falha interna ao atualizar pedido.", err)
	}

	s.logger.Info("Pedido atualizado.", map[string]interface{}{"order_id": id, "paid_value": order.PaidValue().StringFixed(2)})
	return order, nil
}

// Delete remove um pedido.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidationError("ID de pedido inválido.")
	}
	if err := s.OrderRepo.Delete(ctx, id); err != nil {
		return apperror.Wrap("Falha interna ao excluir pedido.", err)
	}
	s.logger.Info("Pedido excluído.", map[string]interface{}{"order_id": id})
	return nil
}
