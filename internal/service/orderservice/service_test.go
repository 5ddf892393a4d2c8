package orderservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
	"fiapcloudgames/internal/service/orderservice"
)

// MockOrderRepository simula o repositório de pedidos. Create e Update executam a função
// de cálculo com freshGame e freshPromo, como o repositório real faz dentro da transação.
type MockOrderRepository struct {
	mock.Mock
	freshGame  *domain.Game
	freshPromo *domain.Promotion
}

func (m *MockOrderRepository) persist(args mock.Arguments, order *domain.Order, price domain.PriceFunc) error {
	if err := args.Error(0); err != nil {
		return err
	}
	if err := price(m.freshGame, m.freshPromo); err != nil {
		return err
	}
	if order.ID == 0 {
		order.ID = 99
	}
	return nil
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order, price domain.PriceFunc) error {
	return m.persist(m.Called(ctx, order), order, price)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order, price domain.PriceFunc) error {
	return m.persist(m.Called(ctx, order), order, price)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindViews(ctx context.Context) ([]domain.OrderView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.OrderView), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockGameRepository struct{ mock.Mock }

func (m *MockGameRepository) FindByID(ctx context.Context, id int64) (domain.Game, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Game), args.Error(1)
}

type MockPromotionRepository struct{ mock.Mock }

func (m *MockPromotionRepository) FindByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	args := m.Called(ctx, id)
	promo, _ := args.Get(0).(*domain.Promotion)
	return promo, args.Error(1)
}

type fixture struct {
	svc    *orderservice.OrderService
	orders *MockOrderRepository
	users  *MockUserRepository
	games  *MockGameRepository
	promos *MockPromotionRepository
	user   domain.User
	game   domain.Game
}

func newFixture() *fixture {
	f := &fixture{
		orders: new(MockOrderRepository),
		users:  new(MockUserRepository),
		games:  new(MockGameRepository),
		promos: new(MockPromotionRepository),
		user:   domain.User{Entity: domain.Entity{ID: 1}, Name: "MARIA", Email: "maria@fiap.com", Role: domain.RoleUser},
		game:   domain.Game{Entity: domain.Entity{ID: 2}, Name: "GOPHER QUEST", ReleaseYear: 2020, BasePrice: decimal.RequireFromString("100.00")},
	}
	f.svc = orderservice.NewService(f.orders, f.users, f.games, f.promos, logger.Nop())
	f.orders.freshGame = &f.game
	return f
}

func int64Ptr(v int64) *int64 { return &v }

func TestPlaceOrder_WithoutPromotion(t *testing.T) {
	f := newFixture()
	f.users.On("FindByID", mock.Anything, int64(1)).Return(f.user, nil)
	f.games.On("FindByID", mock.Anything, int64(2)).Return(f.game, nil)
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	order, err := f.svc.PlaceOrder(context.Background(), 1, domain.OrderInput{GameID: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(99), order.ID)
	assert.Equal(t, "100.00", order.OrderValue().StringFixed(2))
	assert.True(t, order.DiscountValue().IsZero())
	assert.Equal(t, "100.00", order.PaidValue().StringFixed(2))
	f.promos.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPlaceOrder_WithPromotion(t *testing.T) {
	f := newFixture()
	promo := domain.RestorePromotion(5, time.Now().Add(-time.Hour), "BLACK FRIDAY", 20, time.Now().AddDate(1, 0, 0))
	f.orders.freshPromo = promo

	f.users.On("FindByID", mock.Anything, int64(1)).Return(f.user, nil)
	f.games.On("FindByID", mock.Anything, int64(2)).Return(f.game, nil)
	f.promos.On("FindByID", mock.Anything, int64(5)).Return(promo, nil)
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	order, err := f.svc.PlaceOrder(context.Background(), 1, domain.OrderInput{GameID: 2, PromotionID: int64Ptr(5)})

	require.NoError(t, err)
	assert.Equal(t, "20.00", order.DiscountValue().StringFixed(2))
	assert.Equal(t, "80.00", order.PaidValue().StringFixed(2))
	id, ok := order.Promotion().Get()
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)
}

func TestPlaceOrder_ExpiredPromotionIsNotPersisted(t *testing.T) {
	f := newFixture()
	yesterday := domain.RestorePromotion(5, time.Now().AddDate(0, -1, 0), "ONTEM", 20, time.Now().AddDate(0, 0, -1))

	f.users.On("FindByID", mock.Anything, int64(1)).Return(f.user, nil)
	f.games.On("FindByID", mock.Anything, int64(2)).Return(f.game, nil)
	f.promos.On("FindByID", mock.Anything, int64(5)).Return(yesterday, nil)

	_, err := f.svc.PlaceOrder(context.Background(), 1, domain.OrderInput{GameID: 2, PromotionID: int64Ptr(5)})

	var expired *apperror.ExpiredPromotionError
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, 422, expired.HTTPStatus())
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlaceOrder_PromotionExpiresBeforeCommit(t *testing.T) {
	f := newFixture()
	valid := domain.RestorePromotion(5, time.Now().Add(-time.Hour), "RELAMPAGO", 20, time.Now().Add(time.Hour))
	// Validade encurtada por outro pedido enquanto este era processado.
	f.orders.freshPromo = domain.RestorePromotion(5, time.Now().Add(-time.Hour), "RELAMPAGO", 20, time.Now().Add(-time.Minute))

	f.users.On("FindByID", mock.Anything, int64(1)).Return(f.user, nil)
	f.games.On("FindByID", mock.Anything, int64(2)).Return(f.game, nil)
	f.promos.On("FindByID", mock.Anything, int64(5)).Return(valid, nil)
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	_, err := f.svc.PlaceOrder(context.Background(), 1, domain.OrderInput{GameID: 2, PromotionID: int64Ptr(5)})

	var expired *apperror.ExpiredPromotionError
	assert.ErrorAs(t, err, &expired)
}

func TestPlaceOrder_GamePriceChangedBeforeCommit(t *testing.T) {
	f := newFixture()
	// Preço alterado por um administrador entre o cálculo e a leitura na transação.
	changed := f.game
	changed.BasePrice = decimal.RequireFromString("120.00")
	f.orders.freshGame = &changed

	f.users.On("FindByID", mock.Anything, int64(1)).Return(f.user, nil)
	f.games.On("FindByID", mock.Anything, int64(2)).Return(f.game, nil)
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	order, err := f.svc.PlaceOrder(context.Background(), 1, domain.OrderInput{GameID: 2})

	var conflict *apperror.ConflictError
	require.ErrorAs(t, err, &conflict)
	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 409, status)
	assert.Nil(t, order)
}

func TestPlaceOrder_MissingReferences(t *testing.T) {
	t.Run("jogo inexistente", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByID", mock.Anything, int64(1)).Return(f.user, nil)
		f.games.On("FindByID", mock.Anything, int64(7)).Return(domain.Game{}, apperror.NewNotFoundError("Jogo 7 não existe."))

		_, err := f.svc.PlaceOrder(context.Background(), 1, domain.OrderInput{GameID: 7})

		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("promoção inexistente", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByID", mock.Anything, int64(1)).Return(f.user, nil)
		f.games.On("FindByID", mock.Anything, int64(2)).Return(f.game, nil)
		f.promos.On("FindByID", mock.Anything, int64(8)).Return(nil, apperror.NewNotFoundError("Promoção 8 não encontrada."))

		_, err := f.svc.PlaceOrder(context.Background(), 1, domain.OrderInput{GameID: 2, PromotionID: int64Ptr(8)})

		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("jogo zerado", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.PlaceOrder(context.Background(), 1, domain.OrderInput{GameID: 0})

		var validation *apperror.ValidationError
		assert.ErrorAs(t, err, &validation)
		f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestPlaceOrderOnBehalf_RequiresUser(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PlaceOrderOnBehalf(context.Background(), domain.OrderInput{GameID: 2})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestUpdate_PromotionMustCoverOrderDate(t *testing.T) {
	f := newFixture()
	orderDate := time.Now().AddDate(0, 0, -10)
	existing := domain.RestoreOrder(40, orderDate, 1, 2, domain.NoPromotion(),
		decimal.RequireFromString("100.00"), decimal.Zero, decimal.RequireFromString("100.00"))
	// Criada depois do pedido: não estava vigente na data dele.
	late := domain.RestorePromotion(6, time.Now().AddDate(0, 0, -1), "NOVA", 30, time.Now().AddDate(0, 1, 0))

	f.orders.On("FindByID", mock.Anything, int64(40)).Return(existing, nil)
	f.users.On("FindByID", mock.Anything, int64(1)).Return(f.user, nil)
	f.games.On("FindByID", mock.Anything, int64(2)).Return(f.game, nil)
	f.promos.On("FindByID", mock.Anything, int64(6)).Return(late, nil)

	_, err := f.svc.Update(context.Background(), 40, domain.OrderInput{UserID: 1, GameID: 2, PromotionID: int64Ptr(6)})

	var expired *apperror.ExpiredPromotionError
	require.ErrorAs(t, err, &expired)
	assert.Contains(t, err.Error(), orderDate.Format(domain.DateTimeLayout))
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_RepricesWithNewPromotion(t *testing.T) {
	f := newFixture()
	orderDate := time.Now().AddDate(0, 0, -10)
	existing := domain.RestoreOrder(40, orderDate, 1, 2, domain.NoPromotion(),
		decimal.RequireFromString("100.00"), decimal.Zero, decimal.RequireFromString("100.00"))
	promo := domain.RestorePromotion(6, time.Now().AddDate(0, 0, -20), "ANTIGA", 30, time.Now().AddDate(0, 1, 0))
	f.orders.freshPromo = promo

	f.orders.On("FindByID", mock.Anything, int64(40)).Return(existing, nil)
	f.users.On("FindByID", mock.Anything, int64(1)).Return(f.user, nil)
	f.games.On("FindByID", mock.Anything, int64(2)).Return(f.game, nil)
	f.promos.On("FindByID", mock.Anything, int64(6)).Return(promo, nil)
	f.orders.On("Update", mock.Anything, existing).Return(nil)

	order, err := f.svc.Update(context.Background(), 40, domain.OrderInput{UserID: 1, GameID: 2, PromotionID: int64Ptr(6)})

	require.NoError(t, err)
	assert.Equal(t, int64(40), order.ID)
	assert.Equal(t, orderDate, order.CreatedAt)
	assert.Equal(t, "30.00", order.DiscountValue().StringFixed(2))
	assert.Equal(t, "70.00", order.PaidValue().StringFixed(2))
	f.orders.AssertExpectations(t)
}

func TestListByUserEmail_UnknownEmail(t *testing.T) {
	f := newFixture()
	f.users.On("FindByEmail", mock.Anything, "ninguem@fiap.com").Return(domain.User{}, apperror.NewNotFoundError("Usuário não encontrado."))

	_, err := f.svc.ListByUserEmail(context.Background(), "Ninguem@FIAP.com")

	assert.True(t, apperror.IsNotFound(err))
	f.orders.AssertNotCalled(t, "FindByUserEmail", mock.Anything, mock.Anything)
}

func TestListByUser(t *testing.T) {
	f := newFixture()
	expected := []*domain.Order{domain.RestoreOrder(1, time.Now(), 1, 2, domain.NoPromotion(), decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(10))}
	f.orders.On("FindByUser", mock.Anything, int64(1)).Return(expected, nil)

	orders, err := f.svc.ListByUser(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, expected, orders)
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture()
	f.orders.On("Delete", mock.Anything, int64(3)).Return(apperror.NewNotFoundError("Pedido com ID 3 não encontrado."))

	err := f.svc.Delete(context.Background(), 3)

	assert.True(t, apperror.IsNotFound(err))
}
