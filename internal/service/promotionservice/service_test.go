package promotionservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
	"fiapcloudgames/internal/service/promotionservice"
)

// MockPromotionRepository é uma implementação mock da interface PromotionRepository
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) Save(ctx context.Context, promo *domain.Promotion) error {
	args := m.Called(ctx, promo)
	if args.Error(0) == nil {
		promo.ID = 10
	}
	return args.Error(0)
}

func (m *MockPromotionRepository) FindByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	args := m.Called(ctx, id)
	promo, _ := args.Get(0).(*domain.Promotion)
	return promo, args.Error(1)
}

func (m *MockPromotionRepository) FindByName(ctx context.Context, name string) (*domain.Promotion, error) {
	args := m.Called(ctx, name)
	promo, _ := args.Get(0).(*domain.Promotion)
	return promo, args.Error(1)
}

func (m *MockPromotionRepository) FindAll(ctx context.Context, onlyActive bool) ([]*domain.Promotion, error) {
	args := m.Called(ctx, onlyActive)
	return args.Get(0).([]*domain.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Update(ctx context.Context, promo *domain.Promotion) error {
	return m.Called(ctx, promo).Error(0)
}

func (m *MockPromotionRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPromotionRepository) HasOrders(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var notFound = apperror.NewNotFoundError("Promoção não encontrada.")

func TestCreate_Success(t *testing.T) {
	repo := new(MockPromotionRepository)
	svc := promotionservice.NewService(repo, logger.Nop())
	validUntil := time.Now().Add(72 * time.Hour)

	repo.On("FindByName", mock.Anything, "BLACK FRIDAY").Return(nil, notFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Promotion")).Return(nil)

	promo, err := svc.Create(context.Background(), domain.PromotionInput{Name: "BLACK FRIDAY", Discount: 20, ValidUntil: validUntil})

	require.NoError(t, err)
	assert.Equal(t, int64(10), promo.ID)
	assert.Equal(t, 20, promo.Discount())
	assert.True(t, promo.IsValid())
	repo.AssertExpectations(t)
}

func TestCreate_RejectedByPolicy(t *testing.T) {
	tests := []struct {
		name  string
		input domain.PromotionInput
	}{
		{"desconto abaixo de 10", domain.PromotionInput{Name: "A", Discount: 9, ValidUntil: time.Now().Add(time.Hour)}},
		{"desconto acima de 90", domain.PromotionInput{Name: "A", Discount: 91, ValidUntil: time.Now().Add(time.Hour)}},
		{"validade no passado", domain.PromotionInput{Name: "A", Discount: 20, ValidUntil: time.Now().Add(-time.Hour)}},
		{"nome vazio", domain.PromotionInput{Name: " ", Discount: 20, ValidUntil: time.Now().Add(time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPromotionRepository)
			svc := promotionservice.NewService(repo, logger.Nop())

			_, err := svc.Create(context.Background(), tt.input)

			var validation *apperror.ValidationError
			assert.ErrorAs(t, err, &validation)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	repo := new(MockPromotionRepository)
	svc := promotionservice.NewService(repo, logger.Nop())
	existing := domain.RestorePromotion(3, time.Now().Add(-time.Hour), "BLACK FRIDAY", 30, time.Now().Add(time.Hour))

	repo.On("FindByName", mock.Anything, "BLACK FRIDAY").Return(existing, nil)

	_, err := svc.Create(context.Background(), domain.PromotionInput{Name: "BLACK FRIDAY", Discount: 20, ValidUntil: time.Now().Add(time.Hour)})

	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestList_OnlyActive(t *testing.T) {
	repo := new(MockPromotionRepository)
	svc := promotionservice.NewService(repo, logger.Nop())
	active := []*domain.Promotion{domain.RestorePromotion(1, time.Now().Add(-time.Hour), "NATAL", 15, time.Now().Add(time.Hour))}

	repo.On("FindAll", mock.Anything, true).Return(active, nil)

	promos, err := svc.List(context.Background(), true)

	require.NoError(t, err)
	assert.Len(t, promos, 1)
}

func TestUpdate_AllOrNothing(t *testing.T) {
	repo := new(MockPromotionRepository)
	svc := promotionservice.NewService(repo, logger.Nop())
	created := time.Now().Add(-48 * time.Hour)
	current := domain.RestorePromotion(4, created, "NATAL", 15, time.Now().Add(time.Hour))

	repo.On("FindByID", mock.Anything, int64(4)).Return(current, nil)

	// Validade anterior à criação: nada muda, nem o nome.
	_, err := svc.Update(context.Background(), 4, domain.PromotionInput{Name: "ANO NOVO", Discount: 50, ValidUntil: created.Add(-time.Minute)})

	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "NATAL", current.Name())
	assert.Equal(t, 15, current.Discount())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_AllowsExpiredValidityAfterCreation(t *testing.T) {
	repo := new(MockPromotionRepository)
	svc := promotionservice.NewService(repo, logger.Nop())
	created := time.Now().Add(-48 * time.Hour)
	current := domain.RestorePromotion(4, created, "NATAL", 15, time.Now().Add(time.Hour))

	repo.On("FindByID", mock.Anything, int64(4)).Return(current, nil)
	repo.On("FindByName", mock.Anything, "NATAL").Return(current, nil)
	repo.On("Update", mock.Anything, current).Return(nil)

	promo, err := svc.Update(context.Background(), 4, domain.PromotionInput{Name: "NATAL", Discount: 25, ValidUntil: created.Add(time.Hour)})

	require.NoError(t, err)
	assert.Equal(t, 25, promo.Discount())
	assert.False(t, promo.IsValid())
	repo.AssertExpectations(t)
}

func TestUpdate_NameTakenByAnotherPromotion(t *testing.T) {
	repo := new(MockPromotionRepository)
	svc := promotionservice.NewService(repo, logger.Nop())
	current := domain.RestorePromotion(4, time.Now().Add(-time.Hour), "NATAL", 15, time.Now().Add(time.Hour))
	other := domain.RestorePromotion(5, time.Now().Add(-time.Hour), "PASCOA", 15, time.Now().Add(time.Hour))

	repo.On("FindByID", mock.Anything, int64(4)).Return(current, nil)
	repo.On("FindByName", mock.Anything, "PASCOA").Return(other, nil)

	_, err := svc.Update(context.Background(), 4, domain.PromotionInput{Name: "PASCOA", Discount: 15, ValidUntil: time.Now().Add(time.Hour)})

	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDelete_UsedInOrders(t *testing.T) {
	repo := new(MockPromotionRepository)
	svc := promotionservice.NewService(repo, logger.Nop())
	repo.On("HasOrders", mock.Anything, int64(4)).Return(true, nil)

	err := svc.Delete(context.Background(), 4)

	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestGet_NotFound(t *testing.T) {
	repo := new(MockPromotionRepository)
	svc := promotionservice.NewService(repo, logger.Nop())
	repo.On("FindByID", mock.Anything, int64(8)).Return(nil, notFound)

	_, err := svc.Get(context.Background(), 8)

	assert.True(t, apperror.IsNotFound(err))
}
