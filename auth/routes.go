package auth

import (
	"errors"
	"net/http"
	"time"

	"issuetrack-restful/policy"
	"issuetrack-restful/repositories"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"gorm.io/gorm"
)

// LoginCredentials defines the structure of the login request.
type LoginCredentials struct {
	Email    string `json:"email" description:"Email for login"`
	Password string `json:"password" description:"Password for login"`
}

// LoginResponse defines the structure of the login response.
type LoginResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// AuthResource owns the session lifecycle routes: sign-in, sign-out and
// token refresh.
type AuthResource struct {
	verifier *Verifier
	users    repositories.UserRepository
}

// NewAuthResource creates a new AuthResource instance.
func NewAuthResource(verifier *Verifier, users repositories.UserRepository) *AuthResource {
	return &AuthResource{verifier: verifier, users: users}
}

// RegisterRoutes sets up the session routes on a go-restful WebService.
func (r *AuthResource) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/api/auth").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.POST("/login").To(r.loginHandler).
		Doc("Sign in with email and password").
		Metadata(restfulspec.KeyOpenAPITags, []string{"auth"}).
		Reads(LoginCredentials{}).
		Returns(http.StatusOK, "Signed in", LoginResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", nil).
		Returns(http.StatusUnauthorized, "Invalid credentials", nil))

	ws.Route(ws.POST("/logout").To(r.logoutHandler).
		Doc("Sign out and expire the session cookie").
		Metadata(restfulspec.KeyOpenAPITags, []string{"auth"}).
		Returns(http.StatusOK, "Signed out", LoginResponse{}))

	ws.Route(ws.POST("/refresh").Filter(AuthFilter()).To(r.refreshHandler).
		Doc("Re-issue the session token with the account's current username and role").
		Metadata(restfulspec.KeyOpenAPITags, []string{"auth"}).
		Returns(http.StatusOK, "Token refreshed", LoginResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusNotFound, "Account no longer exists", nil))
}

// loginHandler handles POST /api/auth/login.
func (r *AuthResource) loginHandler(request *restful.Request, response *restful.Response) {
	creds := new(LoginCredentials)
	if err := request.ReadEntity(creds); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, LoginResponse{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	if creds.Email == "" || creds.Password == "" {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, LoginResponse{Message: "Email and password are required"}, restful.MIME_JSON)
		return
	}

	identity, err := r.verifier.Verify(creds.Email, creds.Password)
	if err != nil {
		// Avoid revealing whether the account exists or is OAuth-only.
		_ = response.WriteHeaderAndJson(http.StatusUnauthorized, LoginResponse{Message: "Invalid credentials"}, restful.MIME_JSON)
		return
	}

	r.issueSession(response, identity, "Signed in successfully")
}

// logoutHandler handles POST /api/auth/logout. The token is stateless, so
// signing out is expiring the cookie; bearer clients just drop the token.
func (r *AuthResource) logoutHandler(request *restful.Request, response *restful.Response) {
	http.SetCookie(response.ResponseWriter, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	_ = response.WriteHeaderAndJson(http.StatusOK, LoginResponse{Message: "Signed out"}, restful.MIME_JSON)
}

// refreshHandler handles POST /api/auth/refresh. It re-reads the account so
// profile edits (username, role) are embedded into a fresh token without
// requiring re-authentication.
func (r *AuthResource) refreshHandler(request *restful.Request, response *restful.Response) {
	identity, ok := GetIdentity(request)
	if !ok {
		_ = response.WriteHeaderAndJson(http.StatusUnauthorized, LoginResponse{Message: "Unauthorized"}, restful.MIME_JSON)
		return
	}

	user, err := r.users.FindByID(identity.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = response.WriteHeaderAndJson(http.StatusNotFound, LoginResponse{Message: "Account no longer exists"}, restful.MIME_JSON)
			return
		}
		_ = response.WriteHeaderAndJson(http.StatusInternalServerError, LoginResponse{Message: "Could not refresh token"}, restful.MIME_JSON)
		return
	}

	fresh := policy.Identity{ID: user.ID, Username: user.Username, Role: user.Role}
	r.issueSession(response, fresh, "Token refreshed")
}

func (r *AuthResource) issueSession(response *restful.Response, identity policy.Identity, message string) {
	token, err := GenerateToken(identity)
	if err != nil {
		_ = response.WriteHeaderAndJson(http.StatusInternalServerError, LoginResponse{Message: "Could not generate token"}, restful.MIME_JSON)
		return
	}

	http.SetCookie(response.ResponseWriter, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	_ = response.WriteHeaderAndJson(http.StatusOK, LoginResponse{Token: token, Message: message}, restful.MIME_JSON)
}
