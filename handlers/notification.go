package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"notifyhub/services/notification"
	"notifyhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const timestampLayout = "2006-01-02 15:04:05"

// NotificationHandler exposes the pipeline over HTTP.
type NotificationHandler struct {
	Service notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

func currentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// ListNotificationsHandler handles GET /api/notification.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	logger := utils.GetLogger()

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	q := notification.InboxQuery{
		UserID:   userID,
		Category: c.Query("category"),
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		q.Offset = offset
	}
	if v := c.Query("perpage"); v != "" {
		perPage, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid perpage"})
			return
		}
		q.PerPage = perPage
	}
	if v := c.Query("status"); v != "" {
		status, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		q.Status = &status
	}
	if v := c.Query("type"); v != "" {
		notifType, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
			return
		}
		q.Type = &notifType
	}

	page, err := h.Service.Inbox(c.Request.Context(), q)
	if err != nil {
		logger.Error("Inbox query failed", zap.Int64("userId", userID), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ReceiveNotificationHandler handles PUT /api/notification_receive/:id.
// Responds 200 with an empty body on success.
func (h *NotificationHandler) ReceiveNotificationHandler(c *gin.Context) {
	logger := utils.GetLogger()

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	var req struct {
		Status int `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.UpdateStatus(c.Request.Context(), notificationID, userID, req.Status); err != nil {
		logger.Error("Status update failed",
			zap.Int64("notificationId", notificationID),
			zap.Int64("userId", userID),
			zap.Error(err),
		)
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// CreateNotificationRequest is the admin create payload.
type CreateNotificationRequest struct {
	Type      int                                 `json:"type" binding:"required"`
	Silent    bool                                `json:"silent"`
	StartedOn string                              `json:"started_on"`
	EndedOn   string                              `json:"ended_on"`
	Meta      map[string]any                      `json:"meta"`
	Contents  map[string]notification.LangContent `json:"contents" binding:"required"`
	UserIDs   []int64                             `json:"user_ids" binding:"required"`
	Image     string                              `json:"image"`
}

// CreateNotificationHandler handles POST /api/admin/notification: the full
// create+dispatch pipeline in one synchronous call.
func (h *NotificationHandler) CreateNotificationHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createReq := notification.CreateRequest{
		Type:     req.Type,
		Silent:   req.Silent,
		Meta:     req.Meta,
		Contents: req.Contents,
		UserIDs:  req.UserIDs,
		Image:    req.Image,
	}
	if req.StartedOn != "" {
		t, err := time.Parse(timestampLayout, req.StartedOn)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid started_on"})
			return
		}
		createReq.StartedOn = t
	}
	if req.EndedOn != "" {
		t, err := time.Parse(timestampLayout, req.EndedOn)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ended_on"})
			return
		}
		createReq.EndedOn = &t
	}

	notificationID, err := h.Service.Create(c.Request.Context(), createReq)
	if err != nil {
		var dispatchErr notification.DispatchError
		if errors.As(err, &dispatchErr) {
			// The cascade is committed; only the fan-out needs a retry.
			logger.Error("Notification created but dispatch failed",
				zap.Int64("notificationId", notificationID),
				zap.Error(err),
			)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":           "notification stored but not dispatched",
				"notification_id": notificationID,
			})
			return
		}
		logger.Error("Notification create failed", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"notification_id": notificationID})
}

// respondServiceError maps the service error taxonomy to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr  notification.ValidationError
		missingLangErr notification.MissingDefaultLanguageError
		refErr         notification.ReferenceNotFoundError
		notFoundErr    notification.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &missingLangErr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.As(err, &refErr), errors.As(err, &notFoundErr):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}
