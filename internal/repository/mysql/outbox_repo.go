package mysql

import (
	"context"

	"Campus_Portal/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

func (r *OutboxRepository) Add(ctx context.Context, row *model.ClubOutbox) error {
	return r.DB.WithContext(ctx).Create(row).Error
}

// ListPending outbox查询，失败的记录在重试次数内继续投递
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]model.ClubOutbox, error) {
	var list []model.ClubOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, model.OutboxMaxRetry).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ClubOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}

// MarkFailed 失败重试次数加一
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ClubOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}
