package service

import "Campus_Portal/internal/model"

// Actor 当前请求的操作者，每个请求构造一次并显式传给业务方法
type Actor struct {
	UserID uint64
	Role   model.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

func (a Actor) IsLeaderOf(club *model.Club) bool {
	return club != nil && club.IsLeader(a.UserID)
}

// CanManage 负责人或管理员
func (a Actor) CanManage(club *model.Club) bool {
	return a.IsAdmin() || a.IsLeaderOf(club)
}
