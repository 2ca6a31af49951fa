package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ecosprout/internal/adapter/api"
	"ecosprout/internal/adapter/api/handler"
	"ecosprout/internal/adapter/api/middleware"
	"ecosprout/internal/adapter/repository"
	"ecosprout/internal/domain/entity"
	domainrepo "ecosprout/internal/domain/repository"
	"ecosprout/internal/infrastructure/auth"
	"ecosprout/internal/infrastructure/digilocker"
	"ecosprout/internal/usecase"
	"ecosprout/pkg/config"
	"ecosprout/pkg/response"
)

type testServer struct {
	e      *echo.Echo
	tokens *auth.TokenManager
	users  domainrepo.UserRepository
}

type envelope struct {
	Success    bool                  `json:"success"`
	Code       string                `json:"code"`
	Message    string                `json:"message"`
	Data       json.RawMessage       `json:"data"`
	Errors     []response.FieldError `json:"errors"`
	Count      int                   `json:"count"`
	Total      int64                 `json:"total"`
	Pagination response.Pagination   `json:"pagination"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	items := repository.NewMemoryItemRepository()
	transactions := repository.NewMemoryTransactionRepository()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	hasher := auth.PasswordHasher{Cost: bcrypt.MinCost}
	verifier := digilocker.NewSimulator(config.DigiLockerConfig{
		AuthURL:     "https://digilocker.test/authorize",
		ClientID:    "client",
		RedirectURI: "https://ecosprout.test/callback",
	})

	handler.Setup(
		usecase.NewAuthUseCase(users, tokens, hasher),
		usecase.NewUserUseCase(users, hasher),
		usecase.NewItemUseCase(items, users, nil, nil, nil),
		usecase.NewVerificationUseCase(users, verifier, nil),
		usecase.NewTransactionUseCase(transactions, items, users, nil, nil),
	)
	handler.SetupHealthHandler("test", map[string]handler.HealthCheck{
		"database": func(context.Context) error { return nil },
	})

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	Setup(e, middleware.NewAuthMiddleware(tokens), middleware.NewAdminMiddleware(users), Limits{}, nil)

	return &testServer{e: e, tokens: tokens, users: users}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

// register signs up a user and returns its id and bearer token.
func (s *testServer) register(t *testing.T, name, role string) (string, string) {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result struct {
		Token string      `json:"token"`
		User  entity.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(t, result.Token)
	return result.User.ID, result.Token
}

func itemBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"description": "Lightly used, battery holds a full day",
		"category":    "electronics",
		"condition":   "excellent",
		"price":       450,
		"location": map[string]string{
			"address": "12 MG Road",
			"city":    "Bengaluru",
			"state":   "Karnataka",
		},
		"tags": []string{"laptop"},
	}
}

func (s *testServer) createItem(t *testing.T, token, title string) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/items", token, itemBody(title))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var item struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	require.NotEmpty(t, item.ID)
	return item.ID
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)

	rec, env := s.do(t, http.MethodGet, "/api/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register(t, "asha", "buyer")

	t.Run("duplicate email", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Asha", "email": "ASHA@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("client cannot set trust score", func(t *testing.T) {
		rec, _ := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"name": "Ravi", "email": "ravi@example.com", "password": "secret123", "trustScore": 100,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "asha@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(env.Data), `"token"`)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, _ := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "asha@example.com", "password": "nope1234",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var user entity.User
		require.NoError(t, json.Unmarshal(env.Data, &user))
		assert.Equal(t, "asha@example.com", user.Email)
		assert.Equal(t, 75, user.TrustScore)
		assert.NotContains(t, string(env.Data), "secret123")
	})

	t.Run("me without token", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, _ := s.do(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCreateItem(t *testing.T) {
	s := newTestServer(t)
	_, sellerToken := s.register(t, "meera", "seller")
	_, buyerToken := s.register(t, "kabir", "buyer")

	t.Run("unauthenticated", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/items", "", itemBody("Refurbished laptop"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, env.Success)
		assert.Empty(t, env.Data)
	})

	t.Run("buyer role is rejected", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/items", buyerToken, itemBody("Refurbished laptop"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("derived fields are rejected", func(t *testing.T) {
		body := itemBody("Refurbished laptop")
		body["ecoScore"] = 10
		rec, env := s.do(t, http.MethodPost, "/api/items", sellerToken, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Message, "ecoScore")
	})

	t.Run("field level validation", func(t *testing.T) {
		body := itemBody("TV")
		body["category"] = "vehicles"
		rec, env := s.do(t, http.MethodPost, "/api/items", sellerToken, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		fields := make([]string, 0, len(env.Errors))
		for _, fe := range env.Errors {
			fields = append(fields, fe.Field)
		}
		assert.Contains(t, fields, "title")
		assert.Contains(t, fields, "category")
	})

	t.Run("created with eco fields", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/items", sellerToken, itemBody("Refurbished laptop"))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var item struct {
			EcoScore  float64          `json:"ecoScore"`
			EcoImpact entity.EcoImpact `json:"ecoImpact"`
			Status    string           `json:"status"`
			Seller    struct {
				Name string `json:"name"`
			} `json:"seller"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &item))
		assert.Equal(t, 8.5, item.EcoScore)
		assert.Equal(t, 44.2, item.EcoImpact.CO2Saved)
		assert.Equal(t, 108.8, item.EcoImpact.WaterSaved)
		assert.Equal(t, entity.ItemStatusAvailable, item.Status)
		assert.Equal(t, "meera", item.Seller.Name)
	})
}

func TestListItemsPagination(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register(t, "meera", "seller")
	for i := 0; i < 25; i++ {
		s.createItem(t, token, fmt.Sprintf("Item number %02d", i))
	}

	rec, env := s.do(t, http.MethodGet, "/api/items?limit=12&page=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Count)
	assert.Equal(t, int64(25), env.Total)
	assert.Equal(t, 3, env.Pagination.Page)
	assert.Equal(t, 3, env.Pagination.Pages)
	assert.Equal(t, 12, env.Pagination.Limit)

	rec, env = s.do(t, http.MethodGet, "/api/items?category=furniture", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), env.Total)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestListItemsPageBeyondRange(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register(t, "meera", "seller")
	s.createItem(t, token, "Refurbished laptop")

	for _, path := range []string{
		"/api/items?page=1000000000000000000",
		"/api/items?page=9223372036854775807&limit=100",
	} {
		rec, env := s.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, env.Success)
		assert.Equal(t, 0, env.Count)
		assert.Equal(t, int64(1), env.Total)
		assert.JSONEq(t, `[]`, string(env.Data))
	}

	rec, env := s.do(t, http.MethodGet, "/api/items/user/my-items?page=1000000000000000000", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), env.Total)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestItemOwnership(t *testing.T) {
	s := newTestServer(t)
	_, ownerToken := s.register(t, "meera", "seller")
	_, otherToken := s.register(t, "tara", "both")
	id := s.createItem(t, ownerToken, "Refurbished laptop")

	rec, _ := s.do(t, http.MethodPut, "/api/items/"+id, otherToken, map[string]interface{}{"price": 10})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/items/"+id, ownerToken, map[string]interface{}{"views": 9000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := s.do(t, http.MethodPut, "/api/items/"+id, ownerToken, map[string]interface{}{"condition": "fair"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"ecoScore":5.9,`)

	rec, _ = s.do(t, http.MethodDelete, "/api/items/"+id, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/items/"+id, ownerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/items/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleFavoriteAndViews(t *testing.T) {
	s := newTestServer(t)
	_, sellerToken := s.register(t, "meera", "seller")
	_, buyerToken := s.register(t, "kabir", "buyer")
	id := s.createItem(t, sellerToken, "Refurbished laptop")

	_, env := s.do(t, http.MethodPost, "/api/items/"+id+"/favorite", buyerToken, nil)
	assert.JSONEq(t, `{"isFavorited":true}`, string(env.Data))
	assert.Equal(t, "Added to favorites", env.Message)

	_, env = s.do(t, http.MethodPost, "/api/items/"+id+"/favorite", buyerToken, nil)
	assert.JSONEq(t, `{"isFavorited":false}`, string(env.Data))

	s.do(t, http.MethodGet, "/api/items/"+id, "", nil)
	_, env = s.do(t, http.MethodGet, "/api/items/"+id, "", nil)
	var item struct {
		Views int64 `json:"views"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, int64(2), item.Views)
}

func TestMyItems(t *testing.T) {
	s := newTestServer(t)
	_, meera := s.register(t, "meera", "seller")
	_, tara := s.register(t, "tara", "seller")
	s.createItem(t, meera, "Refurbished laptop")
	s.createItem(t, meera, "Wooden study desk")
	s.createItem(t, tara, "Cricket bat")

	rec, env := s.do(t, http.MethodGet, "/api/items/user/my-items", meera, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), env.Total)
	assert.Equal(t, 10, env.Pagination.Limit)

	rec, _ = s.do(t, http.MethodGet, "/api/items/user/my-items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerificationFlow(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register(t, "asha", "seller")

	rec, env := s.do(t, http.MethodPost, "/api/verification/digilocker/initiate", token, map[string]string{"documentType": "aadhaar"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var initiation usecase.VerificationInitiation
	require.NoError(t, json.Unmarshal(env.Data, &initiation))
	assert.Contains(t, initiation.AuthURL, "https://digilocker.test/authorize")
	require.NotEmpty(t, initiation.State)

	rec, _ = s.do(t, http.MethodPost, "/api/verification/digilocker/complete", token, map[string]string{"code": "abc", "state": "forged"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/api/verification/digilocker/complete", token, map[string]string{"code": "abc", "state": initiation.State})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"isVerified":true`)
	assert.Contains(t, string(env.Data), `"trustScore":90`)

	rec, _ = s.do(t, http.MethodPost, "/api/verification/digilocker/complete", token, map[string]string{"code": "abc", "state": initiation.State})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/verification/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"trustScore":90`)
}

func TestSellerProfileRequiresSellerRole(t *testing.T) {
	s := newTestServer(t)
	_, buyer := s.register(t, "kabir", "buyer")

	rec, env := s.do(t, http.MethodPut, "/api/verification/seller-profile", buyer, map[string]interface{}{
		"businessName": "Kabir Traders",
		"businessType": "individual",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.Success)
}

func TestTransactionLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, seller := s.register(t, "meera", "seller")
	_, buyer := s.register(t, "kabir", "buyer")
	itemID := s.createItem(t, seller, "Refurbished laptop")

	rec, _ := s.do(t, http.MethodPost, "/api/transactions", seller, map[string]string{"itemId": itemID, "paymentMethod": "upi"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/transactions", buyer, map[string]string{"itemId": itemID, "paymentMethod": "upi"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tx struct {
		ID     string  `json:"id"`
		Status string  `json:"status"`
		Amount float64 `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tx))
	assert.Equal(t, entity.TransactionPending, tx.Status)
	assert.Equal(t, 450.0, tx.Amount)

	statusPath := "/api/transactions/" + tx.ID + "/status"

	rec, _ = s.do(t, http.MethodPatch, statusPath, buyer, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, statusPath, seller, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(t, http.MethodPatch, statusPath, buyer, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"status":"completed"`)

	rec, _ = s.do(t, http.MethodPost, "/api/transactions/"+tx.ID+"/rating", buyer, map[string]interface{}{"score": 5})
	assert.Equal(t, http.StatusOK, rec.Code)

	_, env = s.do(t, http.MethodGet, "/api/items/"+itemID, "", nil)
	assert.Contains(t, string(env.Data), `"status":"sold"`)

	rec, env = s.do(t, http.MethodGet, "/api/transactions?role=seller", seller, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), env.Total)

	rec, env = s.do(t, http.MethodGet, "/api/transactions/"+tx.ID+"/logs", buyer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	assert.Len(t, logs, 3)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register(t, "meera", "seller")

	rec, _ := s.do(t, http.MethodPost, "/api/admin/items/backfill-eco-scores", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := &entity.User{Name: "root", Email: "root@example.com", Role: entity.RoleBoth, IsAdmin: true}
	require.NoError(t, s.users.Create(context.Background(), admin))
	adminToken, _, err := s.tokens.Issue(admin.ID, admin.Role, true)
	require.NoError(t, err)

	rec, env := s.do(t, http.MethodPost, "/api/admin/items/backfill-eco-scores", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"updated":0}`, string(env.Data))

	rec, _ = s.do(t, http.MethodGet, "/api/admin/transactions?status=disputed", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
