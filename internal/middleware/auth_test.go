package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userdesk/internal/models"
	"userdesk/internal/repositories"
)

var testSecret = []byte("test-secret")

func newTestRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/admin", AuthMiddleware(testSecret), RequireRoles(roles...))
	g.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "role": Role(c)})
	})
	return r
}

func doGet(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter("admin")

	admin, _, err := IssueAccessToken(testSecret, 1, "admin", time.Minute)
	require.NoError(t, err)
	user, _, err := IssueAccessToken(testSecret, 2, "user", time.Minute)
	require.NoError(t, err)
	foreign, _, err := IssueAccessToken([]byte("other"), 1, "admin", time.Minute)
	require.NoError(t, err)
	expired, _, err := IssueAccessToken(testSecret, 1, "admin", -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"non admin", "Bearer " + user, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
		{"lowercase scheme", "bearer " + admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.header)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestAuthMiddleware_RejectsNoneAlg(t *testing.T) {
	r := newTestRouter("admin")
	claims := &Claims{UserID: 1, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	w := doGet(r, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles_NoAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireRoles("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCurrentAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	accounts := map[int64]*models.User{
		1: {ID: 1, Role: "admin", Status: "active"},
		2: {ID: 2, Role: "user", Status: "active"},
		3: {ID: 3, Role: "admin", Status: "inactive"},
	}
	lookup := func(_ context.Context, id int64) (*models.User, error) {
		if id == 5 {
			return nil, errors.New("db down")
		}
		u, ok := accounts[id]
		if !ok {
			return nil, repositories.ErrNotFound
		}
		return u, nil
	}
	r := gin.New()
	r.GET("/admin/ping", AuthMiddleware(testSecret), CurrentAccount(lookup), RequireRoles("admin"),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	// every token below claims admin; the stored account decides
	cases := map[int64]int{
		1: http.StatusOK,
		2: http.StatusForbidden,
		3: http.StatusForbidden,
		4: http.StatusUnauthorized,
		5: http.StatusInternalServerError,
	}
	for id, want := range cases {
		token, _, err := IssueAccessToken(testSecret, id, "admin", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, doGet(r, "Bearer "+token).Code, "user_id=%d", id)
	}
}
