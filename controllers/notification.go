package controllers

import (
	"net/http"

	"issuetrack-restful/auth"
	"issuetrack-restful/models"
	"issuetrack-restful/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// NotificationController exposes the /api/notification routes.
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a NotificationController instance.
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

type notificationEnvelope struct {
	Notification *models.Notification `json:"notification"`
	Message      string               `json:"message,omitempty"`
}

type notificationListEnvelope struct {
	Notifications []models.Notification `json:"notifications"`
	Message       string                `json:"message,omitempty"`
}

// RegisterRoutes sets up the notification routes for a go-restful
// WebService.
func (ctl *NotificationController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/api/notification").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.POST("").Filter(auth.AuthFilter()).To(ctl.createNotificationHandler).
		Doc("Create a notification directly (system messages)").
		Metadata(restfulspec.KeyOpenAPITags, []string{"notifications"}).
		Reads(services.CreateNotificationInput{}).
		Returns(http.StatusCreated, "Notification created successfully", notificationEnvelope{}).
		Returns(http.StatusBadRequest, "Missing message/recipient or invalid body", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil))

	ws.Route(ws.GET("").Filter(auth.AuthFilter()).To(ctl.listNotificationsHandler).
		Doc("List all notifications with recipient included").
		Metadata(restfulspec.KeyOpenAPITags, []string{"notifications"}).
		Writes(notificationListEnvelope{}).
		Returns(http.StatusOK, "Notifications listed", notificationListEnvelope{}).
		Returns(http.StatusUnauthorized, "Unauthorized", nil))

	ws.Route(ws.GET("/{notification-id}").Filter(auth.AuthFilter()).To(ctl.getNotificationByIDHandler).
		Doc("Get notification by ID with recipient included").
		Param(ws.PathParameter("notification-id", "Identifier of the notification").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"notifications"}).
		Writes(notificationEnvelope{}).
		Returns(http.StatusOK, "Notification found", notificationEnvelope{}).
		Returns(http.StatusBadRequest, "Missing or non-numeric ID", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusNotFound, "Notification not found", nil))

	ws.Route(ws.PUT("/{notification-id}").Filter(auth.AuthFilter()).To(ctl.updateNotificationHandler).
		Doc("Update notification {message?, read?} (recipient or admin)").
		Param(ws.PathParameter("notification-id", "Identifier of the notification to update").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"notifications"}).
		Reads(services.UpdateNotificationInput{}).
		Writes(notificationEnvelope{}).
		Returns(http.StatusOK, "Notification updated successfully", notificationEnvelope{}).
		Returns(http.StatusBadRequest, "Missing ID or invalid body", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusForbidden, "Not the recipient or an admin", nil).
		Returns(http.StatusNotFound, "Notification not found", nil))

	ws.Route(ws.DELETE("/{notification-id}").Filter(auth.AuthFilter()).To(ctl.deleteNotificationHandler).
		Doc("Delete notification by ID (recipient or admin); returns the deleted record").
		Param(ws.PathParameter("notification-id", "Identifier of the notification to delete").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, []string{"notifications"}).
		Writes(notificationEnvelope{}).
		Returns(http.StatusOK, "Notification deleted successfully", notificationEnvelope{}).
		Returns(http.StatusBadRequest, "Missing or non-numeric ID", nil).
		Returns(http.StatusUnauthorized, "Unauthorized", nil).
		Returns(http.StatusForbidden, "Not the recipient or an admin", nil).
		Returns(http.StatusNotFound, "Notification not found", nil))
}

// createNotificationHandler handles POST /api/notification.
func (ctl *NotificationController) createNotificationHandler(request *restful.Request, response *restful.Response) {
	if _, ok := requireIdentity(request, response); !ok {
		return
	}

	input := new(services.CreateNotificationInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, notificationEnvelope{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	notification, err := ctl.notificationService.CreateNotification(input)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusCreated, notificationEnvelope{Notification: notification, Message: "Notification created successfully!"}, restful.MIME_JSON)
}

// listNotificationsHandler handles GET /api/notification.
func (ctl *NotificationController) listNotificationsHandler(request *restful.Request, response *restful.Response) {
	notifications, err := ctl.notificationService.ListNotifications()
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, notificationListEnvelope{Notifications: notifications}, restful.MIME_JSON)
}

// getNotificationByIDHandler handles GET /api/notification/{notification-id}.
func (ctl *NotificationController) getNotificationByIDHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "notification-id")
	if err != nil {
		writeBadID(response)
		return
	}

	notification, err := ctl.notificationService.GetNotificationByID(id)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, notificationEnvelope{Notification: notification}, restful.MIME_JSON)
}

// updateNotificationHandler handles PUT /api/notification/{notification-id}.
func (ctl *NotificationController) updateNotificationHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "notification-id")
	if err != nil {
		writeBadID(response)
		return
	}

	identity, ok := requireIdentity(request, response)
	if !ok {
		return
	}

	input := new(services.UpdateNotificationInput)
	if err := request.ReadEntity(input); err != nil {
		_ = response.WriteHeaderAndJson(http.StatusBadRequest, notificationEnvelope{Message: "Invalid request body: " + err.Error()}, restful.MIME_JSON)
		return
	}

	notification, err := ctl.notificationService.UpdateNotification(identity, id, input)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, notificationEnvelope{Notification: notification, Message: "Notification updated successfully!"}, restful.MIME_JSON)
}

// deleteNotificationHandler handles DELETE /api/notification/{notification-id}.
func (ctl *NotificationController) deleteNotificationHandler(request *restful.Request, response *restful.Response) {
	id, err := parseID(request, "notification-id")
	if err != nil {
		writeBadID(response)
		return
	}

	identity, ok := requireIdentity(request, response)
	if !ok {
		return
	}

	notification, err := ctl.notificationService.DeleteNotification(identity, id)
	if err != nil {
		handleServiceError(response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, notificationEnvelope{Notification: notification, Message: "Notification deleted successfully!"}, restful.MIME_JSON)
}
