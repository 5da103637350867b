package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"passvault/internal/domain/errs"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, username, passwordHash string) (Account, error) {
	args := m.Called(ctx, username, passwordHash)
	return args.Get(0).(Account), args.Error(1)
}

func (m *MockRepository) FindByUsername(ctx context.Context, username string) (Account, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(Account), args.Error(1)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, NewBcryptHasher(bcrypt.MinCost), NewInputValidator(), slog.Default())
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_Register(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	var stored string
	mockRepo.On("Create", mock.Anything, "alice", mock.MatchedBy(func(hash string) bool {
		stored = hash
		return hash != "" && hash != "pw1"
	})).Return(Account{ID: 7, Username: "alice", PasswordHash: "x"}, nil)

	acc, err := service.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), acc.ID)
	assert.Equal(t, "alice", acc.Username)
	assert.Empty(t, acc.PasswordHash)

	// the persisted digest verifies against the registration password only
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("pw1")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("pw2")))

	mockRepo.AssertExpectations(t)
}

func TestService_Register_Duplicate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Create", mock.Anything, "alice", mock.AnythingOfType("string")).
		Return(Account{}, ErrUsernameTaken)

	_, err := service.Register(context.Background(), "alice", "pw1")
	assert.ErrorIs(t, err, errs.ErrDuplicateUsername)

	mockRepo.AssertExpectations(t)
}

func TestService_Register_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Create", mock.Anything, "alice", mock.AnythingOfType("string")).
		Return(Account{}, errors.New("pq: duplicate key value violates unique constraint"))

	_, err := service.Register(context.Background(), "alice", "pw1")
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
	assert.NotContains(t, err.Error(), "pq:")

	mockRepo.AssertExpectations(t)
}

func TestService_Register_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "Empty username", username: "", password: "pw1"},
		{name: "Empty password", username: "alice", password: ""},
		{name: "Whitespace username", username: "al ice", password: "pw1"},
		{name: "Password over bcrypt limit", username: "alice", password: strings.Repeat("p", 73)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := newTestService(mockRepo)

			_, err := service.Register(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, errs.ErrInvalidInput)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_Authenticate_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("FindByUsername", mock.Anything, "alice").
		Return(Account{ID: 7, Username: "alice", PasswordHash: hashOf(t, "pw1")}, nil)

	acc, err := service.Authenticate(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), acc.ID)
	assert.Empty(t, acc.PasswordHash)

	mockRepo.AssertExpectations(t)
}

func TestService_Authenticate_Failures(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password  string
		setupMock func(m *MockRepository, hash string)
		wantErr   error
	}{
		{
			name:     "Wrong password",
			username: "alice",
			password: "wrongpw",
			setupMock: func(m *MockRepository, hash string) {
				m.On("FindByUsername", mock.Anything, "alice").
					Return(Account{ID: 7, Username: "alice", PasswordHash: hash}, nil)
			},
			wantErr: errs.ErrInvalidCredentials,
		},
		{
			name:     "One character altered",
			username: "alice",
			password: "pw2",
			setupMock: func(m *MockRepository, hash string) {
				m.On("FindByUsername", mock.Anything, "alice").
					Return(Account{ID: 7, Username: "alice", PasswordHash: hash}, nil)
			},
			wantErr: errs.ErrInvalidCredentials,
		},
		{
			name:     "Unknown username",
			username: "bob",
			password: "pw1",
			setupMock: func(m *MockRepository, _ string) {
				m.On("FindByUsername", mock.Anything, "bob").Return(Account{}, ErrNotFound)
			},
			wantErr: errs.ErrInvalidCredentials,
		},
		{
			name:      "Empty username",
			username:  "",
			password:  "pw1",
			setupMock: func(*MockRepository, string) {},
			wantErr:   errs.ErrInvalidCredentials,
		},
		{
			name:     "Store failure",
			username: "alice",
			password: "pw1",
			setupMock: func(m *MockRepository, _ string) {
				m.On("FindByUsername", mock.Anything, "alice").Return(Account{}, errors.New("connection refused"))
			},
			wantErr: errs.ErrStoreUnavailable,
		},
		{
			name:     "Malformed stored hash",
			username: "alice",
			password: "pw1",
			setupMock: func(m *MockRepository, _ string) {
				m.On("FindByUsername", mock.Anything, "alice").
					Return(Account{ID: 7, Username: "alice", PasswordHash: "invalidhash"}, nil)
			},
			wantErr: errs.ErrStoreUnavailable,
		},
	}

	hash := hashOf(t, "pw1")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := newTestService(mockRepo)
			tt.setupMock(mockRepo, hash)

			_, err := service.Authenticate(context.Background(), tt.username, tt.password)
			assert.Equal(t, tt.wantErr, err)

			mockRepo.AssertExpectations(t)
		})
	}
}

// Unknown user and wrong password must be indistinguishable to the caller.
func TestService_Authenticate_ConstantShape(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("FindByUsername", mock.Anything, "alice").
		Return(Account{ID: 7, Username: "alice", PasswordHash: hashOf(t, "pw1")}, nil)
	mockRepo.On("FindByUsername", mock.Anything, "mallory").Return(Account{}, ErrNotFound)

	accA, errA := service.Authenticate(context.Background(), "alice", "nope")
	accB, errB := service.Authenticate(context.Background(), "mallory", "nope")

	assert.Equal(t, errA, errB)
	assert.Equal(t, errA.Error(), errB.Error())
	assert.Equal(t, accA, accB)
}
