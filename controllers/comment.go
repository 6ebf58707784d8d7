package controllers

import (
	"net/http"

	"issuetrack-restful/auth"
	"issuetrack-restful/models"
	"issuetrack-restful/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// CommentController exposes the /api/comment routes.
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a CommentController instance.
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// commentEnvelope carries the comment plus, on creation, a warning when the
// notification side effect failed. The warning never turns a successful
// comment write into an error.
type commentEnvelope struct {
	Comment *models.Comment `json:"comment"`
	Message string          `json:"message,omitempty"`
	Warning string          `json:"warning,omitempty"`
}

type commentListEnvelope struct {
	Comments []models.Comment `json:"comments"`
	Message  string           `json:"message,omitempty"`
}

// RegisterRoutes sets up the comment routes for a go-restful WebService.
func (ctl *CommentController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/api/comment").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.POST("").Filter(auth.AuthFilter()).To(ctl.createCommentHandler).
		Doc("Create a comment; notifies the parent issue's assignee when present").
		Metadata(restfulspec.KeyOpenAPITags, []string{"comments"}).
		Reads(services.CreateCommentInput{}).
		Returns(http.StatusCreated, "Comment created successfully (warning set if notification failed)", commentEnvelope{}).
		Returns(http.StatusBadRequest, "Missing content or invalid body", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusNotFound, "Parent issue not found", nil))

	ws.Route(ws.GET("").Filter(auth.AuthFilter()).To(ctl.listCommentsHandler).
		Doc("List all comments with author and issue included").
		Metadata(restfulspec.KeyOpenAPITags, []string{"comments"}).
		Writes(commentListEnvelope{}).
		Returns(http.StatusOK, "Comments listed", commentListEnvelope{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil))

	ws.Route(ws.GET("/{comment-id}").Filter(auth.AuthFilter()).To(ctl.getCommentByIDHandler).
		Doc("Get comment by ID with author and issue included").
		Param(ws.PathParameter("comment-id", "Identifier of the comment").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"comments"}).
		Writes(commentEnvelope{}).
		Returns(http.StatusOK, "Comment found", commentEnvelope{}).
		Returns(http.StatusBadRequest, "Missing or non-numeric ID", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusNotFound, "Comment not found", nil))

	ws.Route(ws.PUT("/{comment-id}").Filter(auth.AuthFilter()).To(ctl.updateCommentHandler).
		Doc("Update comment content/attachment (author or admin; authorship is immutable)").
		Param(ws.PathParameter("comment-id", "Identifier of the comment to update").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"comments"}).
		Reads(services.UpdateCommentInput{}).
		Writes(commentEnvelope{}).
		Returns(http.StatusOK, "Comment updated successfully", commentEnvelope{}).
		Returns(http.StatusBadRequest, "Missing ID or invalid body", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusForbidden, "Not the author or an admin", nil).
		Returns(http.StatusNotFound, "Comment not found", nil))

	ws.Route(ws.DELETE("/{comment-id}").Filter(auth.AuthFilter()).To(ctl.deleteCommentHandler).
		Doc("Delete comment by ID (author or admin); returns the deleted record").
		Param(ws.PathParameter("comment-id", "Identifier of the comment to delete").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"comments"}).
		Writes(commentEnvelope{}).
		Returns(http.StatusOK, "Comment deleted successfully", commentEnvelope{}).
		Returns(http.StatusBadRequest, "Missing or non-numeric ID", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusForbidden, "Not the author or an admin", nil).
		Returns(http.StatusNotFound, "Comment not found", nil))
}

// createCommentHandler handles POST /api/comment. The acting identity
// becomes the author; a client-supplied author id is ignored.
func (ctl *CommentController) createCommentHandler(request *restful.Request, response *restful.Response) {
	identity, ok := requireIdentity(request, response)
	if !ok {
		return
	}

	input := new(services.CreateCommentInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, commentEnvelope{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	comment, warn, err := ctl.commentService.CreateComment(identity, input)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	envelope := commentEnvelope{Comment: comment, Message: "Comment created successfully!"}
	if warn != nil {
		envelope.Warning = warn.Error()
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, envelope, restful.MIME_JSON)
}

// listCommentsHandler handles GET /api/comment. Full collection; the
// visibility package narrows it per identity on the client.
func (ctl *CommentController) listCommentsHandler(request *restful.Request, response *restful.Response) {
	comments, err := ctl.commentService.ListComments()
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, commentListEnvelope{Comments: comments}, restful.MIME_JSON)
}

// getCommentByIDHandler handles GET /api/comment/{comment-id}.
func (ctl *CommentController) getCommentByIDHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "comment-id")
	if err != nil {
		writeBadID(response)
		return
	}

	comment, err := ctl.commentService.GetCommentByID(id)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, commentEnvelope{Comment: comment}, restful.MIME_JSON)
}

// updateCommentHandler handles PUT /api/comment/{comment-id}.
func (ctl *CommentController) updateCommentHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "comment-id")
	if err != nil {
		writeBadID(response)
		return
	}

	identity, ok := requireIdentity(request, response)
	if !ok {
		return
	}

	input := new(services.UpdateCommentInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, commentEnvelope{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	comment, err := ctl.commentService.UpdateComment(identity, id, input)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, commentEnvelope{Comment: comment, Message: "Comment updated successfully!"}, restful.MIME_JSON)
}

// deleteCommentHandler handles DELETE /api/comment/{comment-id}.
func (ctl *CommentController) deleteCommentHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "comment-id")
	if err != nil {
		writeBadID(response)
		return
	}

	identity, ok := requireIdentity(request, response)
	if !ok {
		return
	}

	comment, err := ctl.commentService.DeleteComment(identity, id)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, commentEnvelope{Comment: comment, Message: "Comment deleted successfully!"}, restful.MIME_JSON)
}
