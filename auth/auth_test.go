package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"issuetrack-restful/models"
	"issuetrack-restful/policy"
	"issuetrack-restful/repositories"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestGenerateAndParseToken(t *testing.T) {
	identity := policy.Identity{ID: 42, Username: "dev", Role: models.RoleDeveloper}

	token, err := GenerateToken(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAndValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, claims.UserID)
	assert.Equal(t, identity.Username, claims.Username)
	assert.Equal(t, identity.Role, claims.Role)
	assert.Equal(t, identity, claims.Identity())
}

func TestParseRejectsExpiredToken(t *testing.T) {
	claims := &CustomClaims{
		UserID:   1,
		Username: "dev",
		Role:     models.RoleDeveloper,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(mySigningKey)
	require.NoError(t, err)

	_, err = ParseAndValidateToken(signed)
	assert.ErrorContains(t, err, "expired")
}

func TestParseRejectsUnknownRole(t *testing.T) {
	claims := &CustomClaims{
		UserID:   1,
		Username: "dev",
		Role:     models.Role("superuser"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(mySigningKey)
	require.NoError(t, err)

	_, err = ParseAndValidateToken(signed)
	assert.ErrorContains(t, err, "unknown role")
}

func protectedContainer(t *testing.T) *restful.Container {
	t.Helper()
	ws := new(restful.WebService)
	ws.Path("/protected").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("").Filter(AuthFilter()).To(func(req *restful.Request, resp *restful.Response) {
		identity, ok := GetIdentity(req)
		require.True(t, ok)
		_ = resp.WriteHeaderAndJson(http.StatusOK, identity.Username, restful.MIME_JSON)
	}))
	container := restful.NewContainer()
	container.Add(ws)
	return container
}

func TestAuthFilter(t *testing.T) {
	container := protectedContainer(t)
	token, err := GenerateToken(policy.Identity{ID: 1, Username: "dev", Role: models.RoleDeveloper})
	require.NoError(t, err)

	t.Run("no token fails closed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		w := httptest.NewRecorder()
		container.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "NotBearerToken")
		w := httptest.NewRecorder()
		container.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid authorization header format")
	})

	t.Run("bearer header accepted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		container.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "dev")
	})

	t.Run("session cookie accepted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		container.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("tampered token rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		w := httptest.NewRecorder()
		container.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestVerifier(t *testing.T) {
	db := setupTestDB(t)
	users := repositories.NewUserRepository(db)
	verifier := NewVerifier(users)

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Username: "dev",
		Email:    "dev@example.com",
		Name:     "Dev",
		Password: string(hashed),
		Role:     models.RoleDeveloper,
	}).Error)
	require.NoError(t, db.Create(&models.User{
		Username: "oauth-only",
		Email:    "oauth@example.com",
		Name:     "OAuth",
		Role:     models.RoleReporter,
	}).Error)

	t.Run("success returns identity without hash", func(t *testing.T) {
		identity, err := verifier.Verify("dev@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "dev", identity.Username)
		assert.Equal(t, models.RoleDeveloper, identity.Role)
		assert.NotZero(t, identity.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := verifier.Verify("nobody@example.com", "whatever")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("account without password", func(t *testing.T) {
		_, err := verifier.Verify("oauth@example.com", "whatever")
		assert.ErrorIs(t, err, ErrNoPassword)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := verifier.Verify("dev@example.com", "incorrect horse")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})
}

func TestLoginAndRefreshRoutes(t *testing.T) {
	db := setupTestDB(t)
	users := repositories.NewUserRepository(db)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		Username: "rep",
		Email:    "rep@example.com",
		Name:     "Reporter",
		Password: string(hashed),
		Role:     models.RoleReporter,
	}
	require.NoError(t, db.Create(&user).Error)

	ws := new(restful.WebService)
	NewAuthResource(NewVerifier(users), users).RegisterRoutes(ws)
	container := restful.NewContainer()
	container.Add(ws)

	t.Run("login issues token and cookie", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login", jsonBody(`{"email":"rep@example.com","password":"password123"}`))
		req.Header.Set("Content-Type", restful.MIME_JSON)
		w := httptest.NewRecorder()
		container.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "token")
		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, SessionCookieName, cookies[0].Name)

		claims, err := ParseAndValidateToken(cookies[0].Value)
		require.NoError(t, err)
		assert.Equal(t, models.RoleReporter, claims.Role)
	})

	t.Run("login with wrong password is a generic 401", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login", jsonBody(`{"email":"rep@example.com","password":"nope-nope"}`))
		req.Header.Set("Content-Type", restful.MIME_JSON)
		w := httptest.NewRecorder()
		container.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})

	t.Run("refresh re-embeds the current role without re-authentication", func(t *testing.T) {
		token, err := GenerateToken(policy.Identity{ID: user.ID, Username: user.Username, Role: user.Role})
		require.NoError(t, err)

		// Promote the account after the token was issued.
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("role", models.RoleDeveloper).Error)

		req := httptest.NewRequest("POST", "/api/auth/refresh", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		container.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		claims, err := ParseAndValidateToken(cookies[0].Value)
		require.NoError(t, err)
		assert.Equal(t, models.RoleDeveloper, claims.Role)
	})
}
