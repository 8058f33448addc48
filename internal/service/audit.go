package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"baketrack/internal/models"
	"baketrack/internal/repository"
)

type AuditService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// Record is best-effort: a failed audit write logs a warning and never
// fails the operation it describes.
func (s *AuditService) Record(ctx context.Context, action, entity string, entityID uint64, detail map[string]any) {
	if s == nil || s.Repo == nil {
		return
	}
	var raw datatypes.JSON
	if len(detail) > 0 {
		if b, err := json.Marshal(detail); err == nil {
			raw = datatypes.JSON(b)
		}
	}
	item := &models.AuditLog{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   raw,
	}
	if err := s.Repo.InsertAuditLog(ctx, item); err != nil && s.Logger != nil {
		s.Logger.Warn("audit record failed",
			zap.String("action", action),
			zap.String("entity", entity),
			zap.Error(err),
		)
	}
}
