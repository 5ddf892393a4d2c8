package gameservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
	"fiapcloudgames/internal/service/gameservice"
)

// MockGameRepository é uma implementação mock da interface GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Save(ctx context.Context, game domain.Game) (domain.Game, error) {
	args := m.Called(ctx, game)
	return args.Get(0).(domain.Game), args.Error(1)
}

func (m *MockGameRepository) FindByID(ctx context.Context, id int64) (domain.Game, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Game), args.Error(1)
}

func (m *MockGameRepository) FindAll(ctx context.Context) ([]domain.Game, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Game), args.Error(1)
}

func (m *MockGameRepository) Update(ctx context.Context, game domain.Game) (domain.Game, error) {
	args := m.Called(ctx, game)
	return args.Get(0).(domain.Game), args.Error(1)
}

func (m *MockGameRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGameRepository) HasOrders(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func validInput() domain.GameInput {
	return domain.GameInput{Name: "Gopher Quest", ReleaseYear: 2020, BasePrice: decimal.RequireFromString("99.90")}
}

func TestCreate_Success(t *testing.T) {
	repo := new(MockGameRepository)
	svc := gameservice.NewService(repo, logger.Nop())

	repo.On("Save", mock.Anything, mock.MatchedBy(func(g domain.Game) bool {
		return g.Name == "Gopher Quest" && g.BasePrice.Equal(decimal.RequireFromString("99.90"))
	})).Return(domain.Game{Entity: domain.Entity{ID: 1}, Name: "Gopher Quest"}, nil)

	game, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(1), game.ID)
	repo.AssertExpectations(t)
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input domain.GameInput
	}{
		{"nome vazio", domain.GameInput{Name: "  ", ReleaseYear: 2020, BasePrice: decimal.NewFromInt(10)}},
		{"ano anterior a 1980", domain.GameInput{Name: "Pong", ReleaseYear: 1979, BasePrice: decimal.NewFromInt(10)}},
		{"ano futuro", domain.GameInput{Name: "Futuro", ReleaseYear: time.Now().Year() + 1, BasePrice: decimal.NewFromInt(10)}},
		{"preço zero", domain.GameInput{Name: "Grátis", ReleaseYear: 2020, BasePrice: decimal.Zero}},
		{"preço com três casas", domain.GameInput{Name: "Caro", ReleaseYear: 2020, BasePrice: decimal.RequireFromString("10.005")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockGameRepository)
			svc := gameservice.NewService(repo, logger.Nop())

			_, err := svc.Create(context.Background(), tt.input)

			var validation *apperror.ValidationError
			assert.ErrorAs(t, err, &validation)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := new(MockGameRepository)
	svc := gameservice.NewService(repo, logger.Nop())
	repo.On("FindByID", mock.Anything, int64(9)).Return(domain.Game{}, apperror.NewNotFoundError("Jogo com ID 9 não existe."))

	_, err := svc.GetByID(context.Background(), 9)

	assert.True(t, apperror.IsNotFound(err))
}

func TestGetAll_RepositoryError(t *testing.T) {
	repo := new(MockGameRepository)
	svc := gameservice.NewService(repo, logger.Nop())
	repo.On("FindAll", mock.Anything).Return([]domain.Game(nil), errors.New("timeout"))

	_, err := svc.GetAll(context.Background())

	var internal *apperror.InternalError
	assert.ErrorAs(t, err, &internal)
}

func TestUpdate_AppliesInput(t *testing.T) {
	repo := new(MockGameRepository)
	svc := gameservice.NewService(repo, logger.Nop())
	current := domain.Game{Entity: domain.Entity{ID: 3}, Name: "Antigo", ReleaseYear: 2000, BasePrice: decimal.NewFromInt(50)}

	repo.On("FindByID", mock.Anything, int64(3)).Return(current, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(g domain.Game) bool {
		return g.ID == 3 && g.Name == "Gopher Quest" && g.ReleaseYear == 2020
	})).Return(domain.Game{Entity: domain.Entity{ID: 3}, Name: "Gopher Quest"}, nil)

	updated, err := svc.Update(context.Background(), 3, validInput())

	require.NoError(t, err)
	assert.Equal(t, "Gopher Quest", updated.Name)
	repo.AssertExpectations(t)
}

func TestUpdate_InvalidInputIsNotPersisted(t *testing.T) {
	repo := new(MockGameRepository)
	svc := gameservice.NewService(repo, logger.Nop())
	repo.On("FindByID", mock.Anything, int64(3)).
		Return(domain.Game{Entity: domain.Entity{ID: 3}, Name: "Antigo", ReleaseYear: 2000, BasePrice: decimal.NewFromInt(50)}, nil)

	input := validInput()
	input.BasePrice = decimal.NewFromInt(-1)
	_, err := svc.Update(context.Background(), 3, input)

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDelete(t *testing.T) {
	t.Run("com pedidos", func(t *testing.T) {
		repo := new(MockGameRepository)
		svc := gameservice.NewService(repo, logger.Nop())
		repo.On("HasOrders", mock.Anything, int64(5)).Return(true, nil)

		err := svc.Delete(context.Background(), 5)

		var conflict *apperror.ConflictError
		assert.ErrorAs(t, err, &conflict)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("sem pedidos", func(t *testing.T) {
		repo := new(MockGameRepository)
		svc := gameservice.NewService(repo, logger.Nop())
		repo.On("HasOrders", mock.Anything, int64(5)).Return(false, nil)
		repo.On("Delete", mock.Anything, int64(5)).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), 5))
		repo.AssertExpectations(t)
	})
}
