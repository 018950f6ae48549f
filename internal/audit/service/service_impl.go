package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/zinari/zinari/internal/audit/domain"
	"github.com/zinari/zinari/internal/clock"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Record(ctx context.Context, tc tenant.Context, action, targetType, targetID string, metadata map[string]any) error {
	if !tc.Valid() {
		return auditdomain.ErrInvalidCompany
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	entry := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		CompanyID:  tc.CompanyID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   metadata,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		// Audit writes never fail the business operation.
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
	return nil
}

func (s *Service) List(ctx context.Context, tc tenant.Context, filter auditdomain.ListFilter) ([]auditdomain.AuditLog, error) {
	if !tc.Valid() {
		return nil, auditdomain.ErrInvalidCompany
	}

	stmt := s.db.WithContext(ctx).
		Model(&auditdomain.AuditLog{}).
		Where("company_id = ?", tc.CompanyID)

	if action := strings.TrimSpace(filter.Action); action != "" {
		stmt = stmt.Where("action = ?", action)
	}
	if targetType := strings.TrimSpace(filter.TargetType); targetType != "" {
		stmt = stmt.Where("target_type = ?", targetType)
	}
	if targetID := strings.TrimSpace(filter.TargetID); targetID != "" {
		stmt = stmt.Where("target_id = ?", targetID)
	}
	if filter.StartAt != nil {
		stmt = stmt.Where("created_at >= ?", filter.StartAt.UTC())
	}
	if filter.EndAt != nil {
		stmt = stmt.Where("created_at <= ?", filter.EndAt.UTC())
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []auditdomain.AuditLog
	if err := stmt.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
