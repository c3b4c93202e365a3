package model

import "time"

type ActivityAction string

const (
	ActionCreate ActivityAction = "create"
	ActionUpdate ActivityAction = "update"
	ActionDelete ActivityAction = "delete"
)

func (a ActivityAction) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

type ActivityTarget string

const (
	TargetNews         ActivityTarget = "news"
	TargetAnnouncement ActivityTarget = "announcement"
	TargetGallery      ActivityTarget = "gallery"
	TargetPage         ActivityTarget = "page"
	TargetClub         ActivityTarget = "club"
	TargetUser         ActivityTarget = "user"
)

func (t ActivityTarget) Valid() bool {
	switch t {
	case TargetNews, TargetAnnouncement, TargetGallery, TargetPage, TargetClub, TargetUser:
		return true
	}
	return false
}

// Activity 后台动态，保存在 Redis，24 小时后过期
type Activity struct {
	ID          string         `json:"id"`
	UserID      uint64         `json:"userId"`
	User        *UserBrief     `json:"user,omitempty"`
	Action      ActivityAction `json:"action"`
	TargetType  ActivityTarget `json:"targetType"`
	TargetTitle string         `json:"targetTitle"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
}
