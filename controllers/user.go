package controllers

import (
	"errors"
	"net/http"

	"issuetrack-restful/auth"
	"issuetrack-restful/models"
	"issuetrack-restful/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// UserController exposes the /api/user routes.
type UserController struct {
	userService services.UserService
}

// NewUserController creates a UserController instance.
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// userEnvelope is the `{user, message}` response shape shared by the user
// routes.
type userEnvelope struct {
	User    *models.User `json:"user"`
	Message string       `json:"message,omitempty"`
}

type userListEnvelope struct {
	Users   []services.UserProjection `json:"users"`
	Message string                    `json:"message,omitempty"`
}

// RegisterRoutes sets up the user routes for a go-restful WebService.
func (ctl *UserController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/api/user").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	// Sign-up is the only public route; everything else needs a session.
	ws.Route(ws.POST("").To(ctl.createUserHandler).
		Doc("Register a new user").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Reads(services.CreateUserInput{}).
		Returns(http.StatusCreated, "User created successfully", userEnvelope{}).
		Returns(http.StatusBadRequest, "Malformed request body", nil).
		Returns(http.StatusRequestTimeout, "Email or username already used", nil).
		Returns(http.StatusInternalServerError, "Validation or store failure", nil))

	ws.Route(ws.GET("").Filter(auth.AuthFilter()).To(ctl.listUsersHandler).
		Doc("List all users (admin projection: name, email, role)").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Writes(userListEnvelope{}).
		Returns(http.StatusOK, "Users listed (placeholder body for non-admin callers)", userListEnvelope{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil))

	ws.Route(ws.GET("/{user-id}").Filter(auth.AuthFilter()).To(ctl.getUserByIDHandler).
		Doc("Get user by ID").
		Param(ws.PathParameter("user-id", "Identifier of the user").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Writes(userEnvelope{}).
		Returns(http.StatusOK, "User found", userEnvelope{}).
		Returns(http.StatusBadRequest, "Missing or non-numeric ID", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusNotFound, "User not found", nil))

	ws.Route(ws.PUT("/{user-id}").Filter(auth.AuthFilter()).To(ctl.updateUserHandler).
		Doc("Update user by ID (partial merge; self or admin)").
		Param(ws.PathParameter("user-id", "Identifier of the user to update").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Reads(services.UpdateUserInput{}).
		Writes(userEnvelope{}).
		Returns(http.StatusOK, "User updated successfully", userEnvelope{}).
		Returns(http.StatusBadRequest, "Missing ID or invalid body", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusForbidden, "Not the record owner or an admin", nil).
		Returns(http.StatusNotFound, "User not found", nil).
		Returns(http.StatusConflict, "Email or username conflict", nil))

	ws.Route(ws.DELETE("/{user-id}").Filter(auth.AuthFilter()).To(ctl.deleteUserHandler).
		Doc("Delete user by ID (self or admin); returns the deleted record").
		Param(ws.PathParameter("user-id", "Identifier of the user to delete").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Writes(userEnvelope{}).
		Returns(http.StatusOK, "User deleted successfully", userEnvelope{}).
		Returns(http.StatusBadRequest, "Missing or non-numeric ID", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusForbidden, "Not the record owner or an admin", nil).
		Returns(http.StatusNotFound, "User not found", nil))
}

// createUserHandler handles POST /api/user. Validation failures return 500
// (the documented sign-up contract); only malformed JSON is a 400.
func (ctl *UserController) createUserHandler(request *restful.Request, response *restful.Response) {
	input := new(services.CreateUserInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, userEnvelope{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	user, err := ctl.userService.CreateUser(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			_ = response.WriteHeaderAndJson(http.StatusRequestTimeout, userEnvelope{Message: "User's email is already used"}, restful.MIME_JSON)
		case errors.Is(err, services.ErrUsernameTaken):
			_ = response.WriteHeaderAndJson(http.StatusRequestTimeout, userEnvelope{Message: "User's username is already used"}, restful.MIME_JSON)
		default:
			_ = response.WriteHeaderAndJson(http.StatusInternalServerError, userEnvelope{Message: "Failed to create user"}, restful.MIME_JSON)
		}
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusCreated, userEnvelope{User: user, Message: "User registered successfully!"}, restful.MIME_JSON)
}

// listUsersHandler handles GET /api/user. Non-admin callers receive a
// placeholder body with 200 rather than an error.
func (ctl *UserController) listUsersHandler(request *restful.Request, response *restful.Response) {
	identity, ok := requireIdentity(request, response)
	if !ok {
		return
	}

	projections, err := ctl.userService.ListUsers(identity)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			_ = response.WriteHeaderAndJson(http.StatusOK, userListEnvelope{Message: "Nothing"}, restful.MIME_JSON)
			return
		}
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, userListEnvelope{Users: projections, Message: "You get what you want"}, restful.MIME_JSON)
}

// getUserByIDHandler handles GET /api/user/{user-id}.
func (ctl *UserController) getUserByIDHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "user-id")
	if err != nil {
		writeBadID(response)
		return
	}

	user, err := ctl.userService.GetUserByID(id)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, userEnvelope{User: user}, restful.MIME_JSON)
}

// updateUserHandler handles PUT /api/user/{user-id}.
func (ctl *UserController) updateUserHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "user-id")
	if err != nil {
		writeBadID(response)
		return
	}

	identity, ok := requireIdentity(request, response)
	if !ok {
		return
	}

	input := new(services.UpdateUserInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, userEnvelope{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	user, err := ctl.userService.UpdateUser(identity, id, input)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, userEnvelope{User: user, Message: "User updated successfully!"}, restful.MIME_JSON)
}

// deleteUserHandler handles DELETE /api/user/{user-id}. The deleted
// record's prior state is returned for optimistic UI rollback.
func (ctl *UserController) deleteUserHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "user-id")
	if err != nil {
		writeBadID(response)
		return
	}

	identity, ok := requireIdentity(request, response)
	if !ok {
		return
	}

	user, err := ctl.userService.DeleteUser(identity, id)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, userEnvelope{User: user, Message: "User deleted successfully!"}, restful.MIME_JSON)
}
