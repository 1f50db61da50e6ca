package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"physicsclass-be/internal/logger"
	"physicsclass-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signed(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestCors(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := NewCORS("http://localhost:3000")(nextHandler)

	t.Run("OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/orders", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/orders", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuth(t *testing.T) {
	auth := NewAuthMiddleware(testSecret)

	t.Run("Missing Token", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok, "Context should not contain user ID")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/orders", nil)
		w := httptest.NewRecorder()

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		auth(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		tokenString := signed(t, jwt.MapClaims{"user_id": "u-1"}, "other-secret")

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		auth(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid Token", func(t *testing.T) {
		tokenString := signed(t, jwt.MapClaims{
			"user_id": "u-1",
			"email":   "u1@example.com",
			"role":    "user",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, "u-1", userID)
			assert.Equal(t, "u1@example.com", r.Context().Value(utils.UserEmailKey))
			assert.NotNil(t, r.Context().Value(TokenClaimsKey))
			w.WriteHeader(http.StatusOK)
		})

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Numeric user id", func(t *testing.T) {
		tokenString := signed(t, jwt.MapClaims{"user_id": float64(42)}, testSecret)

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := utils.GetUserIDFromContext(r.Context())
			assert.Equal(t, "42", userID)
		})

		auth(next).ServeHTTP(w, req)
	})

	t.Run("Cookie Token", func(t *testing.T) {
		tokenString := signed(t, jwt.MapClaims{"user_id": "u-7"}, testSecret)

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: tokenString})
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := utils.GetUserIDFromContext(r.Context())
			assert.Equal(t, "u-7", userID)
			w.WriteHeader(http.StatusOK)
		})

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		tokenString := signed(t, jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}, testSecret)

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		auth(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("Authorization", "Basic user:pass")
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		})

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := NewRateLimiter("svc-secret")(ok)

	t.Run("Checkout is strict", func(t *testing.T) {
		codes := map[int]int{}
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes[w.Code]++
		}

		assert.Equal(t, burstStrict, codes[http.StatusOK])
		assert.Equal(t, 1, codes[http.StatusTooManyRequests])
	})

	t.Run("Listing uses general tier", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.RemoteAddr = "10.0.0.1:1234"

		limit, burst, tier := resolveRateTier(req, "svc-secret")
		assert.Equal(t, limitGeneral, limit)
		assert.Equal(t, burstGeneral, burst)
		assert.Equal(t, "general", tier)
	})

	t.Run("Trusted service is marked internal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
		req.Header.Set("X-Service-Auth", "svc-secret")
		w := httptest.NewRecorder()

		NewRateLimiter("svc-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, utils.IsInternalRequest(r.Context()))
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Wrong or unset service key is not internal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("X-Service-Auth", "guess")

		_, _, tier := resolveRateTier(req, "svc-secret")
		assert.Equal(t, "general", tier)

		req.Header.Set("X-Service-Auth", "")
		_, _, tier = resolveRateTier(req, "")
		assert.Equal(t, "general", tier)
	})

	t.Run("Users get their own bucket", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req = req.WithContext(utils.SetUserContext(req.Context(), "u-77", "", ""))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestChain(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, logger.RequestIDFrom(r.Context()))
		order = append(order, "handler")
	}), logger.RequestIDMiddleware, mw("a"), mw("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"a", "b", "handler"}, order)
}
