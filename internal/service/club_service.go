package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"Campus_Portal/internal/model"
	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/repository"

	"github.com/sirupsen/logrus"
)

type ClubService struct {
	store    repository.Store
	cache    repository.ClubCache
	activity *ActivityService
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time
}

func NewClubService(store repository.Store, cache repository.ClubCache, activity *ActivityService, notifier Notifier, logger *logrus.Logger) *ClubService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ClubService{
		store:    store,
		cache:    cache,
		activity: activity,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

type ClubInput struct {
	Name         string
	Description  string
	CoverImage   string
	LeaderEmails []string
}

// ClubUpdate 空字符串保留原值，LeaderEmails 为 nil 时不修改负责人
type ClubUpdate struct {
	Name         string
	Description  string
	CoverImage   string
	LeaderEmails *[]string
}

type EventInput struct {
	Title       string
	Description string
	Date        time.Time
}

// CreateClub 仅管理员，负责人自动成为成员
func (s *ClubService) CreateClub(ctx context.Context, actor Actor, in ClubInput) (detail *model.ClubDetail, err error) {
	defer func() { observe("create_club", err) }()

	if !actor.IsAdmin() {
		return nil, pkg.ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
	if in.Name == "" || in.Description == "" || in.CoverImage == "" {
		return nil, pkg.ErrInvalidInput.WithMsg("name, description and coverImage are required")
	}
	emails := normalizeEmails(in.LeaderEmails)
	if len(emails) > model.MaxLeaders {
		return nil, pkg.ErrTooManyLeaders
	}

	club := &model.Club{Name: in.Name, Description: in.Description, CoverImage: in.CoverImage}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		leaders, err := resolveLeaders(ctx, tx, emails)
		if err != nil {
			return err
		}
		if err := tx.Clubs().Create(ctx, club); err != nil {
			return fmt.Errorf("create club: %w", err)
		}
		for _, u := range leaders {
			if err := tx.Clubs().UpsertMember(ctx, club.ID, u.ID, model.MemberRoleLeader); err != nil {
				return fmt.Errorf("add leader: %w", err)
			}
		}
		return s.emit(ctx, tx, model.EventClubCreated, club.ID, actor, map[string]any{
			"name":    club.Name,
			"leaders": userIDs(leaders),
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.activity.Record(ctx, actor.UserID, model.ActionCreate, model.TargetClub, club.Name,
		fmt.Sprintf("club %q created", club.Name))
	return s.GetClub(ctx, club.ID)
}

// UpdateClub 负责人或管理员，同一事务内可同时更换负责人
func (s *ClubService) UpdateClub(ctx context.Context, actor Actor, clubID uint64, in ClubUpdate) (detail *model.ClubDetail, err error) {
	defer func() { observe("update_club", err) }()

	var name string
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		club, err := s.lockClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if !actor.CanManage(club) {
			return pkg.ErrForbidden
		}

		if v := strings.TrimSpace(in.Name); v != "" {
			club.Name = v
		}
		if v := strings.TrimSpace(in.Description); v != "" {
			club.Description = v
		}
		if v := strings.TrimSpace(in.CoverImage); v != "" {
			club.CoverImage = v
		}
		name = club.Name

		if in.LeaderEmails != nil {
			if err := s.setLeaders(ctx, tx, actor, club, *in.LeaderEmails); err != nil {
				return err
			}
		}
		if err := tx.Clubs().UpdateInfo(ctx, club); err != nil {
			return fmt.Errorf("update club: %w", err)
		}
		return s.emit(ctx, tx, model.EventClubUpdated, club.ID, actor, map[string]any{"name": club.Name})
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.activity.Record(ctx, actor.UserID, model.ActionUpdate, model.TargetClub, name,
		fmt.Sprintf("club %q updated", name))
	return s.GetClub(ctx, clubID)
}

// SetLeaders 整体替换负责人
func (s *ClubService) SetLeaders(ctx context.Context, actor Actor, clubID uint64, emails []string) (err error) {
	defer func() { observe("set_leaders", err) }()

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		club, err := s.lockClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if !actor.CanManage(club) {
			return pkg.ErrForbidden
		}
		return s.setLeaders(ctx, tx, actor, club, emails)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ClubService) setLeaders(ctx context.Context, tx repository.Store, actor Actor, club *model.Club, emails []string) error {
	emails = normalizeEmails(emails)
	if len(emails) > model.MaxLeaders {
		return pkg.ErrTooManyLeaders
	}
	leaders, err := resolveLeaders(ctx, tx, emails)
	if err != nil {
		return err
	}

	next := make(map[uint64]bool, len(leaders))
	for _, u := range leaders {
		next[u.ID] = true
	}
	// 卸任的负责人保留成员身份
	for _, id := range club.LeaderIDs() {
		if next[id] {
			continue
		}
		if err := tx.Clubs().UpsertMember(ctx, club.ID, id, model.MemberRoleMember); err != nil {
			return fmt.Errorf("demote leader: %w", err)
		}
	}
	for _, u := range leaders {
		if club.IsLeader(u.ID) {
			continue
		}
		if err := tx.Clubs().UpsertMember(ctx, club.ID, u.ID, model.MemberRoleLeader); err != nil {
			return fmt.Errorf("promote leader: %w", err)
		}
		if club.HasRequest(u.ID) {
			if _, err := tx.Clubs().RemoveRequest(ctx, club.ID, u.ID); err != nil {
				return fmt.Errorf("drop request: %w", err)
			}
		}
	}
	return s.emit(ctx, tx, model.EventLeadersChanged, club.ID, actor, map[string]any{
		"leaders": userIDs(leaders),
	})
}

// DeleteClub 仅管理员，成员关系随社团一起删除
func (s *ClubService) DeleteClub(ctx context.Context, actor Actor, clubID uint64) (err error) {
	defer func() { observe("delete_club", err) }()

	if !actor.IsAdmin() {
		return pkg.ErrForbidden
	}
	var name string
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		club, err := s.lockClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		name = club.Name
		if err := tx.Clubs().Delete(ctx, club.ID); err != nil {
			return fmt.Errorf("delete club: %w", err)
		}
		return s.emit(ctx, tx, model.EventClubDeleted, club.ID, actor, map[string]any{
			"name":    club.Name,
			"members": club.MemberIDs(),
		})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	s.activity.Record(ctx, actor.UserID, model.ActionDelete, model.TargetClub, name,
		fmt.Sprintf("club %q deleted", name))
	return nil
}

// RequestJoin 管理员不能加入社团
func (s *ClubService) RequestJoin(ctx context.Context, actor Actor, clubID uint64) (err error) {
	defer func() { observe("request_join", err) }()

	if actor.IsAdmin() {
		return pkg.ErrForbidden.WithMsg("admin users cannot join clubs")
	}
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		club, err := s.lockClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if club.IsMember(actor.UserID) {
			return pkg.ErrAlreadyMember
		}
		if club.HasRequest(actor.UserID) {
			return pkg.ErrAlreadyRequested
		}
		if err := tx.Clubs().AddRequest(ctx, club.ID, actor.UserID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return pkg.ErrAlreadyRequested
			}
			return fmt.Errorf("add request: %w", err)
		}
		return s.emit(ctx, tx, model.EventJoinRequested, club.ID, actor, map[string]any{"user_id": actor.UserID})
	})
}

func (s *ClubService) ApproveRequest(ctx context.Context, actor Actor, clubID, userID uint64) (err error) {
	defer func() { observe("approve_request", err) }()

	var club *model.Club
	var target *model.User
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		c, err := s.lockClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if !actor.CanManage(c) {
			return pkg.ErrForbidden
		}
		if !c.HasRequest(userID) {
			return pkg.ErrRequestNotFound
		}
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return pkg.ErrUserNotFound
			}
			return fmt.Errorf("find user: %w", err)
		}
		// 正常流程下管理员不会出现在申请列表中
		if u.IsAdmin() {
			return pkg.ErrInvalidTarget
		}
		club, target = c, u
		removed, err := tx.Clubs().RemoveRequest(ctx, club.ID, userID)
		if err != nil {
			return fmt.Errorf("remove request: %w", err)
		}
		if !removed {
			return pkg.ErrRequestNotFound
		}
		if err := tx.Clubs().UpsertMember(ctx, club.ID, userID, model.MemberRoleMember); err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		return s.emit(ctx, tx, model.EventRequestApproved, club.ID, actor, map[string]any{"user_id": userID})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	s.notifier.RequestDecided(ctx, *target, *club, true)
	return nil
}

func (s *ClubService) RejectRequest(ctx context.Context, actor Actor, clubID, userID uint64) (err error) {
	defer func() { observe("reject_request", err) }()

	var club *model.Club
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		c, err := s.lockClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if !actor.CanManage(c) {
			return pkg.ErrForbidden
		}
		club = c
		removed, err := tx.Clubs().RemoveRequest(ctx, club.ID, userID)
		if err != nil {
			return fmt.Errorf("remove request: %w", err)
		}
		if !removed {
			return pkg.ErrRequestNotFound
		}
		return s.emit(ctx, tx, model.EventRequestRejected, club.ID, actor, map[string]any{"user_id": userID})
	})
	if err != nil {
		return err
	}

	if target, ferr := s.store.Users().FindByID(ctx, userID); ferr == nil {
		s.notifier.RequestDecided(ctx, *target, *club, false)
	}
	return nil
}

// RemoveMember 负责人不能被移除，需先通过 SetLeaders 卸任
func (s *ClubService) RemoveMember(ctx context.Context, actor Actor, clubID, userID uint64) (err error) {
	defer func() { observe("remove_member", err) }()

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		club, err := s.lockClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if !actor.CanManage(club) {
			return pkg.ErrForbidden
		}
		if club.IsLeader(userID) {
			return pkg.ErrCannotRemoveLeader
		}
		if !club.IsMember(userID) {
			return pkg.ErrNotAMember
		}
		if err := tx.Clubs().RemoveMember(ctx, club.ID, userID); err != nil {
			return fmt.Errorf("remove member: %w", err)
		}
		return s.emit(ctx, tx, model.EventMemberRemoved, club.ID, actor, map[string]any{"user_id": userID})
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ClubService) AddEvent(ctx context.Context, actor Actor, clubID uint64, in EventInput) (event *model.ClubEvent, err error) {
	defer func() { observe("add_event", err) }()

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		club, err := s.lockClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if !actor.CanManage(club) {
			return pkg.ErrForbidden
		}
		in.Title = strings.TrimSpace(in.Title)
		in.Description = strings.TrimSpace(in.Description)
		if in.Title == "" || in.Description == "" || in.Date.IsZero() {
			return pkg.ErrInvalidInput.WithMsg("title, description and date are required")
		}
		event = &model.ClubEvent{ClubID: club.ID, Title: in.Title, Description: in.Description, Date: in.Date}
		if err := tx.Clubs().AddEvent(ctx, event); err != nil {
			return fmt.Errorf("add event: %w", err)
		}
		return s.emit(ctx, tx, model.EventEventAdded, club.ID, actor, map[string]any{
			"event_id": event.ID,
			"title":    event.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return event, nil
}

// RemoveEvent 活动不存在时返回 event_not_found
func (s *ClubService) RemoveEvent(ctx context.Context, actor Actor, clubID, eventID uint64) (err error) {
	defer func() { observe("remove_event", err) }()

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		club, err := s.lockClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if !actor.CanManage(club) {
			return pkg.ErrForbidden
		}
		removed, err := tx.Clubs().RemoveEvent(ctx, club.ID, eventID)
		if err != nil {
			return fmt.Errorf("remove event: %w", err)
		}
		if !removed {
			return pkg.ErrEventNotFound
		}
		return s.emit(ctx, tx, model.EventEventRemoved, club.ID, actor, map[string]any{"event_id": eventID})
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListRequests 待审批的申请人，仅负责人或管理员可见
func (s *ClubService) ListRequests(ctx context.Context, actor Actor, clubID uint64) ([]model.UserBrief, error) {
	club, err := s.findClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(club) {
		return nil, pkg.ErrForbidden
	}
	return s.briefs(ctx, club.RequestIDs())
}

func (s *ClubService) GetClub(ctx context.Context, clubID uint64) (*model.ClubDetail, error) {
	club, err := s.findClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	members, err := s.briefs(ctx, club.MemberIDs())
	if err != nil {
		return nil, err
	}
	leaderSet := make(map[uint64]bool)
	for _, id := range club.LeaderIDs() {
		leaderSet[id] = true
	}
	leaders := make([]model.UserBrief, 0, len(leaderSet))
	for _, m := range members {
		if leaderSet[m.ID] {
			leaders = append(leaders, m)
		}
	}
	club.SortEvents()
	events := club.Events
	if events == nil {
		events = []model.ClubEvent{}
	}
	return &model.ClubDetail{
		ID:          club.ID,
		Name:        club.Name,
		Description: club.Description,
		CoverImage:  club.CoverImage,
		Leaders:     leaders,
		Members:     members,
		Events:      events,
		MemberCount: len(members),
		CreatedAt:   club.CreatedAt,
		UpdatedAt:   club.UpdatedAt,
	}, nil
}

// ListClubs 优先读缓存，未命中时回源并回填
func (s *ClubService) ListClubs(ctx context.Context) ([]model.ClubSummary, error) {
	if list, ok, err := s.cache.GetList(ctx); err != nil {
		s.logger.WithError(err).Warn("club list cache read failed")
	} else if ok {
		return list, nil
	}

	clubs, err := s.store.Clubs().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	var leaderIDs []uint64
	for i := range clubs {
		leaderIDs = append(leaderIDs, clubs[i].LeaderIDs()...)
	}
	users, err := s.store.Users().FindByIDs(ctx, leaderIDs)
	if err != nil {
		return nil, fmt.Errorf("load leaders: %w", err)
	}
	byID := make(map[uint64]model.UserBrief, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Brief()
	}

	list := make([]model.ClubSummary, 0, len(clubs))
	for i := range clubs {
		c := &clubs[i]
		leaders := make([]model.UserBrief, 0, model.MaxLeaders)
		for _, id := range c.LeaderIDs() {
			if b, ok := byID[id]; ok {
				leaders = append(leaders, b)
			}
		}
		list = append(list, model.ClubSummary{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			CoverImage:  c.CoverImage,
			Leaders:     leaders,
			MemberCount: len(c.Members),
			EventCount:  len(c.Events),
		})
	}

	if err := s.cache.SetList(ctx, list); err != nil {
		s.logger.WithError(err).Warn("club list cache write failed")
	}
	return list, nil
}

func (s *ClubService) lockClub(ctx context.Context, tx repository.Store, clubID uint64) (*model.Club, error) {
	club, err := tx.Clubs().LockByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, pkg.ErrClubNotFound
		}
		return nil, fmt.Errorf("lock club: %w", err)
	}
	return club, nil
}

func (s *ClubService) findClub(ctx context.Context, clubID uint64) (*model.Club, error) {
	club, err := s.store.Clubs().FindByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, pkg.ErrClubNotFound
		}
		return nil, fmt.Errorf("find club: %w", err)
	}
	return club, nil
}

// briefs 按 ids 顺序返回用户摘要，已不存在的用户跳过
func (s *ClubService) briefs(ctx context.Context, ids []uint64) ([]model.UserBrief, error) {
	out := make([]model.UserBrief, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.store.Users().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	byID := make(map[uint64]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u.Brief())
		}
	}
	return out, nil
}

// emit 写 outbox，与业务写入同一事务
func (s *ClubService) emit(ctx context.Context, tx repository.Store, event string, clubID uint64, actor Actor, data map[string]any) error {
	payload := map[string]any{
		"event_time": s.now().UTC().Format(time.RFC3339Nano),
		"club_id":    clubID,
		"actor_id":   actor.UserID,
	}
	for k, v := range data {
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := tx.Outbox().Add(ctx, &model.ClubOutbox{
		EventType: event,
		ClubID:    clubID,
		ActorID:   actor.UserID,
		Payload:   string(body),
		Status:    model.OutboxPending,
	}); err != nil {
		return fmt.Errorf("write outbox: %w", err)
	}
	return nil
}

func (s *ClubService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Warn("club list cache invalidate failed")
	}
}

// resolveLeaders 按顺序解析邮箱，遇到第一个不合法的邮箱即失败
func resolveLeaders(ctx context.Context, tx repository.Store, emails []string) ([]model.User, error) {
	leaders := make([]model.User, 0, len(emails))
	for _, email := range emails {
		u, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, pkg.ErrUnknownLeader.WithMsg("user not found: " + email)
			}
			return nil, fmt.Errorf("find leader: %w", err)
		}
		if u.IsAdmin() {
			return nil, pkg.ErrAdminCannotLead
		}
		leaders = append(leaders, *u)
	}
	return leaders, nil
}

func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	seen := make(map[string]bool, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

func userIDs(users []model.User) []uint64 {
	ids := make([]uint64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	return ids
}

// observe 记录业务操作结果
func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if e, ok := pkg.AsError(err); ok {
			result = e.Code
		}
	}
	pkg.WorkflowOps.WithLabelValues(op, result).Inc()
}
