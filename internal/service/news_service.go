package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"Campus_Portal/internal/model"
	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/repository"
)

type NewsService struct {
	store    repository.Store
	activity *ActivityService
	now      func() time.Time
}

func NewNewsService(store repository.Store, activity *ActivityService) *NewsService {
	return &NewsService{store: store, activity: activity, now: time.Now}
}

type NewsInput struct {
	Title    string
	Summary  string
	Content  string
	ImageURL string
	Date     time.Time
}

func (s *NewsService) List(ctx context.Context) ([]model.News, error) {
	return s.store.News().List(ctx)
}

func (s *NewsService) Get(ctx context.Context, slug string) (*model.News, error) {
	news, err := s.store.News().FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, pkg.ErrNewsNotFound
		}
		return nil, fmt.Errorf("find news: %w", err)
	}
	return news, nil
}

func (s *NewsService) Create(ctx context.Context, actor Actor, in NewsInput) (*model.News, error) {
	if !actor.IsAdmin() {
		return nil, pkg.ErrForbidden
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, pkg.ErrInvalidInput.WithMsg("title and content are required")
	}
	if in.Date.IsZero() {
		in.Date = s.now()
	}
	slug, err := s.uniqueSlug(ctx, in.Title, "")
	if err != nil {
		return nil, err
	}
	news := &model.News{
		Title:    in.Title,
		Summary:  strings.TrimSpace(in.Summary),
		Content:  in.Content,
		ImageURL: strings.TrimSpace(in.ImageURL),
		Slug:     slug,
		Date:     in.Date,
	}
	if err := s.store.News().Create(ctx, news); err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}
	s.activity.Record(ctx, actor.UserID, model.ActionCreate, model.TargetNews, news.Title,
		fmt.Sprintf("news %q published", news.Title))
	return news, nil
}

// Update 空字段保留原值，标题变化时重新生成 slug
func (s *NewsService) Update(ctx context.Context, actor Actor, slug string, in NewsInput) (*model.News, error) {
	if !actor.IsAdmin() {
		return nil, pkg.ErrForbidden
	}
	news, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Title); v != "" && v != news.Title {
		news.Title = v
		if news.Slug, err = s.uniqueSlug(ctx, v, news.Slug); err != nil {
			return nil, err
		}
	}
	if v := strings.TrimSpace(in.Summary); v != "" {
		news.Summary = v
	}
	if strings.TrimSpace(in.Content) != "" {
		news.Content = in.Content
	}
	if v := strings.TrimSpace(in.ImageURL); v != "" {
		news.ImageURL = v
	}
	if !in.Date.IsZero() {
		news.Date = in.Date
	}
	if err := s.store.News().Update(ctx, news); err != nil {
		return nil, fmt.Errorf("update news: %w", err)
	}
	s.activity.Record(ctx, actor.UserID, model.ActionUpdate, model.TargetNews, news.Title,
		fmt.Sprintf("news %q updated", news.Title))
	return news, nil
}

// Delete 同时清掉用户收藏
func (s *NewsService) Delete(ctx context.Context, actor Actor, slug string) error {
	if !actor.IsAdmin() {
		return pkg.ErrForbidden
	}
	var title string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		news, err := tx.News().FindBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return pkg.ErrNewsNotFound
			}
			return fmt.Errorf("find news: %w", err)
		}
		title = news.Title
		if err := tx.Favorites().DeleteByNews(ctx, news.ID); err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		return tx.News().Delete(ctx, news.ID)
	})
	if err != nil {
		return err
	}
	s.activity.Record(ctx, actor.UserID, model.ActionDelete, model.TargetNews, title,
		fmt.Sprintf("news %q deleted", title))
	return nil
}

// uniqueSlug 冲突时追加数字后缀，current 为当前新闻自己的 slug
func (s *NewsService) uniqueSlug(ctx context.Context, title, current string) (string, error) {
	base := pkg.Slugify(title)
	if base == "" {
		base = "news"
	}
	candidate := base
	for i := 2; ; i++ {
		if candidate == current {
			return candidate, nil
		}
		exists, err := s.store.News().SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}
