package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/zinari/zinari/pkg/tenant"
	"gorm.io/datatypes"
)

// AuditLog is one immutable record of a state-changing operation.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID      `gorm:"not null;index" json:"company_id"`
	Action     string            `gorm:"type:text;not null;index" json:"action"`
	TargetType string            `gorm:"type:text;not null" json:"target_type"`
	TargetID   string            `gorm:"type:text;index" json:"target_id"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

type ListFilter struct {
	Action     string
	TargetType string
	TargetID   string
	StartAt    *time.Time
	EndAt      *time.Time
	Limit      int
}

type Service interface {
	Record(ctx context.Context, tc tenant.Context, action, targetType, targetID string, metadata map[string]any) error
	List(ctx context.Context, tc tenant.Context, filter ListFilter) ([]AuditLog, error)
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidAction  = errors.New("invalid_action")
)
