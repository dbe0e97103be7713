package notify

import (
	"context"

	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/logger"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/models"
)

// LogNotifier records response events in the application log. It stands
// in for the push channel that tells the requester their request was
// answered.
// TODO: deliver to the requester's device once the mobile push channel
// is wired up.
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithFields(map[string]interface{}{"component": "notify"})}
}

func (n *LogNotifier) RequestResponded(_ context.Context, req *models.PermissionRequest) {
	n.log.Info("requester notification queued", map[string]interface{}{
		"requestId":     req.ID,
		"requesterId":   req.RequesterUserID,
		"requesterName": req.RequesterName,
		"status":        req.Status,
	})
}
