package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bookshare/internal/httpapi/dto"
	"bookshare/internal/httpapi/models"
	"bookshare/internal/httpapi/service"
)

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, name, email, password string, avatar *string) (*models.User, error) {
	args := m.Called(ctx, name, email, password, avatar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Aggregate(ctx context.Context, id string) (*dto.UserAggregateResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserAggregateResponse), args.Error(1)
}

func setupUserRouter(svc service.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	NewUserHandler(svc).RegisterRoutes(api)
	return r
}

func TestCreateUserEndpoint_Success(t *testing.T) {
	svc := new(MockUserService)
	r := setupUserRouter(svc)

	created := &models.User{
		ID:       "user-1",
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "$2a$10$secret-hash",
	}
	svc.On("Register", mock.Anything, "Maria", "maria@example.com", "password123", (*string)(nil)).
		Return(created, nil)

	w := postJSON(r, "/api/users", map[string]string{
		"name":     "Maria",
		"email":    "maria@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	// The password hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.NotContains(t, w.Body.String(), "password")

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp["id"])
	assert.Equal(t, float64(0), resp["points"])
}

func TestCreateUserEndpoint_MissingFields(t *testing.T) {
	svc := new(MockUserService)
	r := setupUserRouter(svc)

	w := postJSON(r, "/api/users", map[string]string{"name": "Maria"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required fields")
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateUserEndpoint_EmailInUse(t *testing.T) {
	svc := new(MockUserService)
	r := setupUserRouter(svc)

	svc.On("Register", mock.Anything, "Maria", "maria@example.com", "password123", (*string)(nil)).
		Return(nil, service.ErrEmailInUse)

	w := postJSON(r, "/api/users", map[string]string{
		"name":     "Maria",
		"email":    "maria@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestGetUserEndpoint_MissingID(t *testing.T) {
	svc := new(MockUserService)
	r := setupUserRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything)
}

func TestGetUserEndpoint_NotFound(t *testing.T) {
	svc := new(MockUserService)
	r := setupUserRouter(svc)

	svc.On("Aggregate", mock.Anything, "ghost").Return(nil, service.ErrUserNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/users?id=ghost", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "user not found")
}

func TestGetUserEndpoint_Success(t *testing.T) {
	svc := new(MockUserService)
	r := setupUserRouter(svc)

	aggregate := &dto.UserAggregateResponse{
		ID:           "user-1",
		Name:         "Maria",
		Points:       10,
		LedgerPoints: 10,
		Books:        []dto.BookResponse{},
		Borrowings:   []models.Borrowing{},
		Transactions: []dto.TransactionResponse{},
		Counts:       dto.AggregateCounts{Books: 1},
	}
	svc.On("Aggregate", mock.Anything, "user-1").Return(aggregate, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users?id=user-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.UserAggregateResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.ID)
	assert.Equal(t, int64(10), resp.LedgerPoints)
}
