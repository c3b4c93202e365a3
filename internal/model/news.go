package model

import "time"

type News struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Summary   string    `gorm:"size:512;not null" json:"summary"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  string    `gorm:"size:512;not null" json:"imageUrl"`
	Slug      string    `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Date      time.Time `gorm:"index" json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Favorite 用户收藏的新闻
type Favorite struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_user_news"`
	NewsID    uint64 `gorm:"not null;index;uniqueIndex:uk_user_news"`
	CreatedAt time.Time
}

func (Favorite) TableName() string {
	return "user_favorites"
}
