package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"issuetrack-restful/config"
	"issuetrack-restful/models"
	"issuetrack-restful/policy"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/golang-jwt/jwt/v4"
)

// mySigningKey should be a strong, randomly generated secret key,
// and it should be stored securely (e.g., in environment variables,
// a key management service, etc.), NOT hardcoded in your source code.
var mySigningKey = []byte("mySigningKey")

// SetSigningKey allows setting the key from outside the package.
func SetSigningKey(key []byte) {
	if len(key) > 0 {
		mySigningKey = key
	}
}

// SessionCookieName is the cookie the browser client carries the token in.
// The Authorization bearer header takes precedence when both are present.
const SessionCookieName = "session_token"

// identityAttribute is the request attribute the filter stores the resolved
// identity under.
const identityAttribute = "identity"

// CustomClaims is the token payload: the session identity plus the
// registered JWT claims. The role travels in the token so authorization
// never trusts a client-supplied body field.
type CustomClaims struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the policy-layer identity.
func (c *CustomClaims) Identity() policy.Identity {
	return policy.Identity{ID: c.UserID, Username: c.Username, Role: c.Role}
}

// GenerateToken creates a new signed session token for the given identity.
func GenerateToken(identity policy.Identity) (string, error) {
	ttl := time.Duration(config.AppConfig.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := &CustomClaims{
		UserID:   identity.ID,
		Username: identity.Username,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "issue-tracker",
			Subject:   "user-auth",
			Audience:  []string{"issue-tracker-users"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(mySigningKey)
}

// ParseAndValidateToken verifies the signature and registered claims. Any
// failure leaves the request unauthenticated; there is no default role.
func ParseAndValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return mySigningKey, nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok {
			if ve.Errors&jwt.ValidationErrorMalformed != 0 {
				return nil, errors.New("malformed token")
			} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				return nil, errors.New("token is either expired or not active yet")
			} else if ve.Errors&jwt.ValidationErrorSignatureInvalid != 0 {
				return nil, errors.New("invalid token signature")
			}
		}
		return nil, fmt.Errorf("couldn't handle this token: %w", err)
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		if !claims.Role.Valid() {
			return nil, errors.New("token carries an unknown role")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// AuthFilter creates a go-restful FilterFunction that resolves the session
// identity from the bearer header or the session cookie and stores it as a
// request attribute. Missing or invalid tokens stop the chain with 401.
func AuthFilter() restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		tokenString, err := extractToken(req)
		if err != nil {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": err.Error()}, restful.MIME_JSON)
			return
		}

		claims, err := ParseAndValidateToken(tokenString)
		if err != nil {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": err.Error()}, restful.MIME_JSON)
			return
		}

		req.SetAttribute(identityAttribute, claims.Identity())
		chain.ProcessFilter(req, resp)
	}
}

// GetIdentity returns the identity resolved by AuthFilter for this request.
func GetIdentity(req *restful.Request) (policy.Identity, bool) {
	identity, ok := req.Attribute(identityAttribute).(policy.Identity)
	return identity, ok
}

func extractToken(req *restful.Request) (string, error) {
	authHeader := req.HeaderParameter("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}

	cookie, err := req.Request.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", errors.New("authorization header or session cookie required")
	}
	return cookie.Value, nil
}
