package service

import (
	"context"

	"Campus_Portal/internal/model"
	"Campus_Portal/internal/repository"

	"github.com/sirupsen/logrus"
)

// RecentActivityLimit 后台首页展示的条数
const RecentActivityLimit = 10

type ActivityService struct {
	repo   repository.ActivityRepository
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewActivityService(repo repository.ActivityRepository, users repository.UserRepository, logger *logrus.Logger) *ActivityService {
	return &ActivityService{repo: repo, users: users, logger: logger}
}

// Record 写失败只记日志，不影响触发它的操作
func (s *ActivityService) Record(ctx context.Context, userID uint64, action model.ActivityAction, target model.ActivityTarget, title, description string) {
	entry := logrus.Fields{"user_id": userID, "action": action, "target": target}
	if !action.Valid() || !target.Valid() {
		s.logger.WithFields(entry).Warn("skip invalid activity")
		return
	}
	a := &model.Activity{
		UserID:      userID,
		Action:      action,
		TargetType:  target,
		TargetTitle: title,
		Description: description,
	}
	if err := s.repo.Append(ctx, a); err != nil {
		s.logger.WithError(err).WithFields(entry).Warn("record activity failed")
	}
}

// ListRecent 读失败时返回空列表
func (s *ActivityService) ListRecent(ctx context.Context) []model.Activity {
	list, err := s.repo.Recent(ctx, RecentActivityLimit)
	if err != nil {
		s.logger.WithError(err).Warn("list recent activities failed")
		return []model.Activity{}
	}
	if len(list) == 0 {
		return []model.Activity{}
	}

	ids := make([]uint64, 0, len(list))
	seen := make(map[uint64]bool)
	for _, a := range list {
		if !seen[a.UserID] {
			seen[a.UserID] = true
			ids = append(ids, a.UserID)
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.WithError(err).Warn("resolve activity users failed")
		return list
	}
	byID := make(map[uint64]model.UserBrief, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Brief()
	}
	for i := range list {
		if b, ok := byID[list[i].UserID]; ok {
			brief := b
			list[i].User = &brief
		}
	}
	return list
}
