package services

import (
	"context"
	"encoding/json"

	"rwaconsole/internal/logger"
	"rwaconsole/internal/models"
	"rwaconsole/internal/repository"
)

// auditService records privileged mutations in the admin log.
type auditService struct {
	store repository.AdminStore
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(store repository.AdminStore) AuditServicer {
	return &auditService{store: store}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, actor Actor, action, targetType, targetID string, details map[string]interface{}) {
	var detailsJSON string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			logger.Get().Errorw("failed to marshal admin log details", "error", err, "action", action)
			detailsJSON = "{}"
		} else {
			detailsJSON = string(data)
		}
	}

	entry := &models.AdminLog{
		AdminID:    actor.AdminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    detailsJSON,
		IPAddress:  actor.IPAddress,
	}

	if err := s.store.CreateAdminLog(ctx, entry); err != nil {
		logger.Get().Errorw("failed to create admin log entry",
			"error", err,
			"admin_id", actor.AdminID,
			"action", action,
			"target_type", targetType,
			"target_id", targetID,
		)
	}
}
