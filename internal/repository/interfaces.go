package repository

import (
	"context"
	"errors"
	"time"

	"Campus_Portal/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]model.User, error)
	FindByEmails(ctx context.Context, emails []string) ([]model.User, error)
}

// ClubRepository 社团及其成员、申请、活动
type ClubRepository interface {
	Create(ctx context.Context, club *model.Club) error
	// FindByID 加载成员、申请和活动
	FindByID(ctx context.Context, id uint64) (*model.Club, error)
	// LockByID 同 FindByID，但先对社团行加写锁，只能在事务内调用
	LockByID(ctx context.Context, id uint64) (*model.Club, error)
	List(ctx context.Context) ([]model.Club, error)
	// ListByMember 用户所在的社团，leaderOnly 时只返回担任负责人的
	ListByMember(ctx context.Context, userID uint64, leaderOnly bool) ([]model.Club, error)
	UpdateInfo(ctx context.Context, club *model.Club) error
	Delete(ctx context.Context, id uint64) error

	UpsertMember(ctx context.Context, clubID, userID uint64, role model.MemberRole) error
	RemoveMember(ctx context.Context, clubID, userID uint64) error
	AddRequest(ctx context.Context, clubID, userID uint64) error
	RemoveRequest(ctx context.Context, clubID, userID uint64) (bool, error)
	AddEvent(ctx context.Context, event *model.ClubEvent) error
	RemoveEvent(ctx context.Context, clubID, eventID uint64) (bool, error)
}

type NewsRepository interface {
	Create(ctx context.Context, news *model.News) error
	FindBySlug(ctx context.Context, slug string) (*model.News, error)
	FindByID(ctx context.Context, id uint64) (*model.News, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]model.News, error)
	List(ctx context.Context) ([]model.News, error)
	Update(ctx context.Context, news *model.News) error
	Delete(ctx context.Context, id uint64) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type FavoriteRepository interface {
	// Add 已收藏时返回 created=false
	Add(ctx context.Context, userID, newsID uint64) (bool, error)
	Remove(ctx context.Context, userID, newsID uint64) error
	ListNewsIDs(ctx context.Context, userID uint64) ([]uint64, error)
	DeleteByNews(ctx context.Context, newsID uint64) error
}

type OutboxRepository interface {
	Add(ctx context.Context, row *model.ClubOutbox) error
	// ListPending 待投递和可重试的记录，按 id 升序
	ListPending(ctx context.Context, limit int) ([]model.ClubOutbox, error)
	MarkSent(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64) error
}

// Store 持久化入口，Transaction 内的 tx 共享同一个数据库事务
type Store interface {
	Users() UserRepository
	Clubs() ClubRepository
	News() NewsRepository
	Favorites() FavoriteRepository
	Outbox() OutboxRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionMismatch = errors.New("session mismatch")
)

// Session 每个用户只保留最近一次登录签发的 token
type Session struct {
	AccessToken  string
	RefreshToken string
}

type SessionRepository interface {
	Save(ctx context.Context, userID uint64, s Session, ttl time.Duration) error
	Get(ctx context.Context, userID uint64) (*Session, error)
	Extend(ctx context.Context, userID uint64, ttl time.Duration) error
	Delete(ctx context.Context, userID uint64) error
}

type ActivityRepository interface {
	// Append 写入后 ID 和 CreatedAt 由仓储填充
	Append(ctx context.Context, a *model.Activity) error
	// Recent 保留期内最新的 limit 条，按时间倒序
	Recent(ctx context.Context, limit int) ([]model.Activity, error)
}

type ClubCache interface {
	GetList(ctx context.Context) ([]model.ClubSummary, bool, error)
	SetList(ctx context.Context, list []model.ClubSummary) error
	Invalidate(ctx context.Context) error
}
