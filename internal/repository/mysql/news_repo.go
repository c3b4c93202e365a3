package mysql

import (
	"context"

	"Campus_Portal/internal/model"

	"gorm.io/gorm"
)

type NewsRepository struct {
	DB *gorm.DB
}

func (r *NewsRepository) Create(ctx context.Context, news *model.News) error {
	return translate(r.DB.WithContext(ctx).Create(news).Error)
}

func (r *NewsRepository) FindBySlug(ctx context.Context, slug string) (*model.News, error) {
	var news model.News
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&news).Error; err != nil {
		return nil, translate(err)
	}
	return &news, nil
}

func (r *NewsRepository) FindByID(ctx context.Context, id uint64) (*model.News, error) {
	var news model.News
	if err := r.DB.WithContext(ctx).First(&news, id).Error; err != nil {
		return nil, translate(err)
	}
	return &news, nil
}

func (r *NewsRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.News, error) {
	var list []model.News
	if len(ids) == 0 {
		return list, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("date DESC, id DESC").Find(&list).Error
	return list, err
}

// List 最新的在前
func (r *NewsRepository) List(ctx context.Context) ([]model.News, error) {
	var list []model.News
	err := r.DB.WithContext(ctx).Order("date DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *NewsRepository) Update(ctx context.Context, news *model.News) error {
	return translate(r.DB.WithContext(ctx).Model(&model.News{}).Where("id = ?", news.ID).
		Updates(map[string]any{
			"title":     news.Title,
			"summary":   news.Summary,
			"content":   news.Content,
			"image_url": news.ImageURL,
			"slug":      news.Slug,
			"date":      news.Date,
		}).Error)
}

func (r *NewsRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Delete(&model.News{}, id).Error
}

func (r *NewsRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.News{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}
