package repository

import (
	"context"

	auditdomain "github.com/railzwaylabs/supportdesk/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() auditdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, e *auditdomain.AuditLog) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO audit_logs (id, actor_role, action, target_type, target_id, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.ActorRole,
		e.Action,
		e.TargetType,
		e.TargetID,
		e.Metadata,
		e.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, f auditdomain.ListFilter) ([]auditdomain.AuditLog, error) {
	query := db.WithContext(ctx).Model(&auditdomain.AuditLog{}).
		Where("created_at >= ? AND created_at < ?", f.From, f.To)

	if len(f.TargetTypes) > 0 {
		query = query.Where("target_type IN ?", f.TargetTypes)
	}
	if len(f.Actions) > 0 {
		query = query.Where("action IN ?", f.Actions)
	}

	var logs []auditdomain.AuditLog
	if err := query.Order("created_at ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
