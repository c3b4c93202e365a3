package mysql

import (
	"context"
	"errors"

	"Campus_Portal/internal/repository"

	"gorm.io/gorm"
)

// Store 基于 gorm 的 repository.Store
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Users() repository.UserRepository         { return &UserRepository{DB: s.DB} }
func (s *Store) Clubs() repository.ClubRepository         { return &ClubRepository{DB: s.DB} }
func (s *Store) News() repository.NewsRepository          { return &NewsRepository{DB: s.DB} }
func (s *Store) Favorites() repository.FavoriteRepository { return &FavoriteRepository{DB: s.DB} }
func (s *Store) Outbox() repository.OutboxRepository      { return &OutboxRepository{DB: s.DB} }

// Transaction fn 返回错误时整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// translate 把 gorm 的错误转换成仓储层错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}
