package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/logger"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/models"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/permissions"
)

// PermissionService is the lifecycle surface the HTTP layer depends on.
type PermissionService interface {
	Fetch(ctx context.Context, id string) (*models.PermissionRequest, error)
	Respond(ctx context.Context, id string, resp models.LandownerResponse) (*models.PermissionRequest, error)
}

type Handler struct {
	svc PermissionService
	log logger.Logger
}

func NewHandler(svc PermissionService, log logger.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

func (h *Handler) handleGetRequest(c *gin.Context) {
	id := c.Param("requestId")

	req, err := h.svc.Fetch(c.Request.Context(), id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "data": req})
	case errors.Is(err, permissions.ErrExpired):
		c.JSON(http.StatusGone, gin.H{
			"error":   "This permission request has expired",
			"expired": true,
		})
	case errors.Is(err, permissions.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Permission request not found"})
	default:
		h.log.WithError(err).Error("fetch failed", map[string]interface{}{"requestId": id})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *Handler) handleRespond(c *gin.Context) {
	id := c.Param("requestId")

	var resp models.LandownerResponse
	if err := c.ShouldBindJSON(&resp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.svc.Respond(c.Request.Context(), id, resp)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Permission request %s successfully", updated.Status),
			"data":    updated,
		})
		return
	}

	var conflict *permissions.ConflictError
	switch {
	case errors.Is(err, permissions.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("This request has already been %s", conflict.Existing),
		})
	case errors.Is(err, permissions.ErrExpired):
		c.JSON(http.StatusGone, gin.H{
			"error":   "This permission request has expired",
			"expired": true,
		})
	case errors.Is(err, permissions.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Permission request not found"})
	default:
		h.log.WithError(err).Error("respond failed", map[string]interface{}{"requestId": id})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// handleLanding serves the marketing/instruction page at the site root.
func (h *Handler) handleLanding(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.html", gin.H{})
}

// handleReviewPage serves the landowner review page. The page itself
// loads the request over the JSON API using the token query parameter,
// so a missing or bad token is reported client-side.
func (h *Handler) handleReviewPage(c *gin.Context) {
	c.HTML(http.StatusOK, "review.html", gin.H{
		"Token": c.Query("token"),
	})
}
