package mysql

import (
	"context"

	"Campus_Portal/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	DB *gorm.DB
}

// Add 唯一(user_id, news_id) 幂等插入，RowsAffected 为 0 说明已收藏
func (r *FavoriteRepository) Add(ctx context.Context, userID, newsID uint64) (bool, error) {
	tx := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "news_id"}},
		DoNothing: true,
	}).Create(&model.Favorite{UserID: userID, NewsID: newsID})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, newsID uint64) error {
	return r.DB.WithContext(ctx).Where("user_id = ? AND news_id = ?", userID, newsID).
		Delete(&model.Favorite{}).Error
}

func (r *FavoriteRepository) ListNewsIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("news_id", &ids).Error
	return ids, err
}

func (r *FavoriteRepository) DeleteByNews(ctx context.Context, newsID uint64) error {
	return r.DB.WithContext(ctx).Where("news_id = ?", newsID).Delete(&model.Favorite{}).Error
}
