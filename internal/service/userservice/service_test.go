package userservice_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fiapcloudgames/internal/domain"
	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/logger"
	"fiapcloudgames/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) HasOrders(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockTokenService simula a geração de tokens.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newService() (*userservice.UserService, *MockUserRepository, *MockTokenService) {
	repo := new(MockUserRepository)
	tokens := new(MockTokenService)
	return userservice.NewService(repo, tokens, logger.Nop()), repo, tokens
}

func TestRegister_Success(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == "MARIA SILVA" && u.Email == "maria@fiap.com" && u.Role == domain.RoleUser &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Senha@123")) == nil
	})).Return(domain.User{Entity: domain.Entity{ID: 7}, Name: "MARIA SILVA", Email: "maria@fiap.com", Role: domain.RoleUser}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{Name: " Maria Silva ", Email: "Maria@FIAP.com", Password: "Senha@123"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	repo.AssertExpectations(t)
}

func TestRegisterAdmin_SetsAdminRole(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool { return u.Role == domain.RoleAdmin })).
		Return(domain.User{Entity: domain.Entity{ID: 1}, Role: domain.RoleAdmin}, nil)

	user, err := svc.RegisterAdmin(context.Background(), domain.UserRegistration{Name: "Admin", Email: "admin@fiap.com", Password: "Admin@123"})

	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
}

func TestRegister_WeakPasswordNeverReachesRepository(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.Register(context.Background(), domain.UserRegistration{Name: "Maria", Email: "maria@fiap.com", Password: "semnumero"})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegister_PasswordAboveBcryptLimitIsValidation(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.Register(context.Background(), domain.UserRegistration{Name: "Maria", Email: "maria@fiap.com", Password: "Senha@1" + strings.Repeat("a", 80)})

	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 400, status)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmailKeepsConflict(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("Save", mock.Anything, mock.Anything).Return(domain.User{}, apperror.NewConflictError("Email já cadastrado."))

	_, err := svc.Register(context.Background(), domain.UserRegistration{Name: "Maria", Email: "maria@fiap.com", Password: "Senha@123"})

	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestLogin_Success(t *testing.T) {
	svc, repo, tokens := newService()
	stored := domain.User{Entity: domain.Entity{ID: 3}, Email: "joao@fiap.com", PasswordHash: hashOf(t, "Senha@123"), Role: domain.RoleAdmin}

	repo.On("FindByEmail", mock.Anything, "joao@fiap.com").Return(stored, nil)
	tokens.On("GenerateToken", int64(3), domain.ClaimRoleAdmin).Return("jwt-token", nil)

	resp, err := svc.Login(context.Background(), "JOAO@fiap.com", "Senha@123")

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, domain.ClaimRoleAdmin, resp.Role)
	tokens.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, repo *MockUserRepository)
		email    string
		password string
	}{
		{
			name:  "email desconhecido",
			email: "ninguem@fiap.com", password: "Senha@123",
			setup: func(t *testing.T, repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "ninguem@fiap.com").Return(domain.User{}, apperror.NewNotFoundError("não encontrado"))
			},
		},
		{
			name:  "senha errada",
			email: "joao@fiap.com", password: "Errada@123",
			setup: func(t *testing.T, repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "joao@fiap.com").
					Return(domain.User{Entity: domain.Entity{ID: 3}, PasswordHash: hashOf(t, "Senha@123")}, nil)
			},
		},
		{
			name:  "campos vazios",
			email: "", password: "",
			setup: func(*testing.T, *MockUserRepository) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, tokens := newService()
			tt.setup(t, repo)

			_, err := svc.Login(context.Background(), tt.email, tt.password)

			var unauthorized *apperror.UnauthorizedError
			assert.ErrorAs(t, err, &unauthorized)
			tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
		})
	}
}

func TestLogin_RepositoryFailureIsInternal(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("FindByEmail", mock.Anything, "joao@fiap.com").Return(domain.User{}, errors.New("conexão recusada"))

	_, err := svc.Login(context.Background(), "joao@fiap.com", "Senha@123")

	var internal *apperror.InternalError
	assert.ErrorAs(t, err, &internal)
}

func TestGetByID_InvalidID(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.GetByID(context.Background(), 0)

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdate_KeepsPasswordWhenOmitted(t *testing.T) {
	svc, repo, _ := newService()
	current := domain.User{Entity: domain.Entity{ID: 4}, Name: "ANA", Email: "ana@fiap.com", PasswordHash: "hash-antigo", Role: domain.RoleUser}

	repo.On("FindByID", mock.Anything, int64(4)).Return(current, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == "ANA PAULA" && u.Email == "ana.paula@fiap.com" && u.PasswordHash == "hash-antigo"
	})).Return(current, nil)

	_, err := svc.Update(context.Background(), 4, domain.UserUpdate{Name: "Ana Paula", Email: "ana.paula@fiap.com"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdate_RehashesNewPassword(t *testing.T) {
	svc, repo, _ := newService()
	current := domain.User{Entity: domain.Entity{ID: 4}, Name: "ANA", Email: "ana@fiap.com", PasswordHash: "hash-antigo"}

	repo.On("FindByID", mock.Anything, int64(4)).Return(current, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Nova@1234")) == nil
	})).Return(current, nil)

	_, err := svc.Update(context.Background(), 4, domain.UserUpdate{Name: "Ana", Email: "ana@fiap.com", Password: "Nova@1234"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDelete_WithOrdersIsConflict(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("HasOrders", mock.Anything, int64(2)).Return(true, nil)

	err := svc.Delete(context.Background(), 2)

	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_Success(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("HasOrders", mock.Anything, int64(2)).Return(false, nil)
	repo.On("Delete", mock.Anything, int64(2)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), 2))
	repo.AssertExpectations(t)
}

func TestEnsureAdmin(t *testing.T) {
	registration := domain.UserRegistration{Name: "Admin", Email: "admin@fiap.com", Password: "Admin@123"}

	t.Run("já existe", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("FindByEmail", mock.Anything, "admin@fiap.com").Return(domain.User{Entity: domain.Entity{ID: 1}}, nil)

		assert.NoError(t, svc.EnsureAdmin(context.Background(), registration))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cria quando ausente", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("FindByEmail", mock.Anything, "admin@fiap.com").Return(domain.User{}, apperror.NewNotFoundError("não encontrado"))
		repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool { return u.Role == domain.RoleAdmin })).
			Return(domain.User{Entity: domain.Entity{ID: 1}, Role: domain.RoleAdmin}, nil)

		assert.NoError(t, svc.EnsureAdmin(context.Background(), registration))
		repo.AssertExpectations(t)
	})
}
