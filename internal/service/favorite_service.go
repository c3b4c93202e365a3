package service

import (
	"context"
	"errors"
	"fmt"

	"Campus_Portal/internal/model"
	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/repository"
)

type FavoriteService struct {
	store repository.Store
}

func NewFavoriteService(store repository.Store) *FavoriteService {
	return &FavoriteService{store: store}
}

// Add 重复收藏返回 already_favorited
func (s *FavoriteService) Add(ctx context.Context, userID, newsID uint64) error {
	if _, err := s.store.News().FindByID(ctx, newsID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return pkg.ErrNewsNotFound
		}
		return fmt.Errorf("find news: %w", err)
	}
	created, err := s.store.Favorites().Add(ctx, userID, newsID)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	if !created {
		return pkg.ErrAlreadyFavorited
	}
	return nil
}

// Remove 未收藏时也返回成功
func (s *FavoriteService) Remove(ctx context.Context, userID, newsID uint64) error {
	return s.store.Favorites().Remove(ctx, userID, newsID)
}

func (s *FavoriteService) List(ctx context.Context, userID uint64) ([]model.News, error) {
	return listFavorites(ctx, s.store, userID)
}

func listFavorites(ctx context.Context, store repository.Store, userID uint64) ([]model.News, error) {
	ids, err := store.Favorites().ListNewsIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	list, err := store.News().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load favorite news: %w", err)
	}
	if list == nil {
		list = []model.News{}
	}
	return list, nil
}
