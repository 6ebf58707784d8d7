package controllers

import (
	"net/http"

	"issuetrack-restful/auth"
	"issuetrack-restful/models"
	"issuetrack-restful/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// IssueController exposes the /api/issue routes.
type IssueController struct {
	issueService services.IssueService
}

// NewIssueController creates an IssueController instance.
func NewIssueController(issueService services.IssueService) *IssueController {
	return &IssueController{issueService: issueService}
}

type issueEnvelope struct {
	Issue   *models.Issue `json:"issue"`
	Message string        `json:"message,omitempty"`
}

type issueListEnvelope struct {
	Issues  []models.Issue `json:"issues"`
	Message string         `json:"message,omitempty"`
}

// RegisterRoutes sets up the issue routes for a go-restful WebService. All
// routes require a session; creation is open to any authenticated role,
// mutation to the assignee or an admin.
func (ctl *IssueController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/api/issue").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.POST("").Filter(auth.AuthFilter()).To(ctl.createIssueHandler).
		Doc("Create an issue (any authenticated role)").
		Metadata(restfulspec.KeyOpenAPITags, []string{"issues"}).
		Reads(services.CreateIssueInput{}).
		Returns(http.StatusCreated, "Issue created successfully", issueEnvelope{}).
		Returns(http.StatusBadRequest, "Missing required fields or invalid body", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil))

	ws.Route(ws.GET("").Filter(auth.AuthFilter()).To(ctl.listIssuesHandler).
		Doc("List all issues with assignee and comments included").
		Metadata(restfulspec.KeyOpenAPITags, []string{"issues"}).
		Writes(issueListEnvelope{}).
		Returns(http.StatusOK, "Issues listed", issueListEnvelope{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil))

	ws.Route(ws.GET("/{issue-id}").Filter(auth.AuthFilter()).To(ctl.getIssueByIDHandler).
		Doc("Get issue by ID with assignee and comments included").
		Param(ws.PathParameter("issue-id", "Identifier of the issue").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"issues"}).
		Writes(issueEnvelope{}).
		Returns(http.StatusOK, "Issue found", issueEnvelope{}).
		Returns(http.StatusBadRequest, "Missing or non-numeric ID", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusNotFound, "Issue not found", nil))

	ws.Route(ws.PUT("/{issue-id}").Filter(auth.AuthFilter()).To(ctl.updateIssueHandler).
		Doc("Update issue by ID (partial merge; assignee or admin)").
		Param(ws.PathParameter("issue-id", "Identifier of the issue to update").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"issues"}).
		Reads(services.UpdateIssueInput{}).
		Writes(issueEnvelope{}).
		Returns(http.StatusOK, "Issue updated successfully", issueEnvelope{}).
		Returns(http.StatusBadRequest, "Missing ID or invalid body", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusForbidden, "Not the assignee or an admin", nil).
		Returns(http.StatusNotFound, "Issue not found", nil))

	ws.Route(ws.DELETE("/{issue-id}").Filter(auth.AuthFilter()).To(ctl.deleteIssueHandler).
		Doc("Delete issue by ID (assignee or admin); returns the deleted record").
		Param(ws.PathParameter("issue-id", "Identifier of the issue to delete").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"issues"}).
		Writes(issueEnvelope{}).
		Returns(http.StatusOK, "Issue deleted successfully", issueEnvelope{}).
		Returns(http.StatusBadRequest, "Missing or non-numeric ID", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusForbidden, "Not the assignee or an admin", nil).
		Returns(http.StatusNotFound, "Issue not found", nil))
}

// createIssueHandler handles POST /api/issue.
func (ctl *IssueController) createIssueHandler(request *restful.Request, response *restful.Response) {
	if _, ok := requireIdentity(request, response); !ok {
		return
	}

	input := new(services.CreateIssueInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, issueEnvelope{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	issue, err := ctl.issueService.CreateIssue(input)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusCreated, issueEnvelope{Issue: issue, Message: "Issue created successfully!"}, restful.MIME_JSON)
}

// listIssuesHandler handles GET /api/issue. The full collection is
// returned; per-identity narrowing happens client-side (visibility package).
func (ctl *IssueController) listIssuesHandler(request *restful.Request, response *restful.Response) {
	issues, err := ctl.issueService.ListIssues()
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, issueListEnvelope{Issues: issues}, restful.MIME_JSON)
}

// getIssueByIDHandler handles GET /api/issue/{issue-id}.
func (ctl *IssueController) getIssueByIDHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "issue-id")
	if err != nil {
		writeBadID(response)
		return
	}

	issue, err := ctl.issueService.GetIssueByID(id)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, issueEnvelope{Issue: issue}, restful.MIME_JSON)
}

// updateIssueHandler handles PUT /api/issue/{issue-id}.
func (ctl *IssueController) updateIssueHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "issue-id")
	if err != nil {
		writeBadID(response)
		return
	}

	identity, ok := requireIdentity(request, response)
	if !ok {
		return
	}

	input := new(services.UpdateIssueInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, issueEnvelope{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	issue, err := ctl.issueService.UpdateIssue(identity, id, input)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, issueEnvelope{Issue: issue, Message: "Issue updated successfully!"}, restful.MIME_JSON)
}

// deleteIssueHandler handles DELETE /api/issue/{issue-id}.
func (ctl *IssueController) deleteIssueHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "issue-id")
	if err != nil {
		writeBadID(response)
		return
	}

	identity, ok := requireIdentity(request, response)
	if !ok {
		return
	}

	issue, err := ctl.issueService.DeleteIssue(identity, id)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, issueEnvelope{Issue: issue, Message: "Issue deleted successfully!"}, restful.MIME_JSON)
}
