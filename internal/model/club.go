package model

import (
	"sort"
	"time"
)

// MaxLeaders 每个社团最多的负责人数量
const MaxLeaders = 3

type MemberRole int

const (
	MemberRoleMember MemberRole = 0
	MemberRoleLeader MemberRole = 1
)

type Club struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null;index" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CoverImage  string    `gorm:"size:512;not null" json:"coverImage"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Members  []ClubMember  `gorm:"foreignKey:ClubID" json:"-"`
	Requests []ClubRequest `gorm:"foreignKey:ClubID" json:"-"`
	Events   []ClubEvent   `gorm:"foreignKey:ClubID" json:"events"`
}

// ClubMember 成员关系，负责人也是成员（Role=1）
type ClubMember struct {
	ID        uint64     `gorm:"primaryKey"`
	ClubID    uint64     `gorm:"not null;uniqueIndex:uk_club_member"`
	UserID    uint64     `gorm:"not null;index;uniqueIndex:uk_club_member"`
	Role      MemberRole `gorm:"not null;default:0"` // 0=member, 1=leader
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClubRequest 待审批的入团申请
type ClubRequest struct {
	ID        uint64 `gorm:"primaryKey"`
	ClubID    uint64 `gorm:"not null;uniqueIndex:uk_club_request"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_club_request"`
	CreatedAt time.Time
}

type ClubEvent struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	ClubID      uint64    `gorm:"not null;index" json:"clubId"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *Club) IsMember(userID uint64) bool {
	for _, m := range c.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (c *Club) IsLeader(userID uint64) bool {
	for _, m := range c.Members {
		if m.UserID == userID && m.Role == MemberRoleLeader {
			return true
		}
	}
	return false
}

func (c *Club) HasRequest(userID uint64) bool {
	for _, r := range c.Requests {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

func (c *Club) MemberIDs() []uint64 {
	ids := make([]uint64, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func (c *Club) LeaderIDs() []uint64 {
	ids := make([]uint64, 0, MaxLeaders)
	for _, m := range c.Members {
		if m.Role == MemberRoleLeader {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}

func (c *Club) RequestIDs() []uint64 {
	ids := make([]uint64, 0, len(c.Requests))
	for _, r := range c.Requests {
		ids = append(ids, r.UserID)
	}
	return ids
}

func (c *Club) FindEvent(eventID uint64) (*ClubEvent, bool) {
	for i := range c.Events {
		if c.Events[i].ID == eventID {
			return &c.Events[i], true
		}
	}
	return nil, false
}

// SortEvents 按活动日期升序，同一日期按 ID
func (c *Club) SortEvents() {
	sort.SliceStable(c.Events, func(i, j int) bool {
		if c.Events[i].Date.Equal(c.Events[j].Date) {
			return c.Events[i].ID < c.Events[j].ID
		}
		return c.Events[i].Date.Before(c.Events[j].Date)
	})
}

// ClubSummary 社团列表项
type ClubSummary struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CoverImage  string      `json:"coverImage"`
	Leaders     []UserBrief `json:"leaders"`
	MemberCount int         `json:"memberCount"`
	EventCount  int         `json:"eventCount"`
}

// ClubDetail 社团详情，负责人和成员已展开
type ClubDetail struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CoverImage  string      `json:"coverImage"`
	Leaders     []UserBrief `json:"leaders"`
	Members     []UserBrief `json:"members"`
	Events      []ClubEvent `json:"events"`
	MemberCount int         `json:"memberCount"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ClubBrief 个人主页中的社团摘要
type ClubBrief struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	CoverImage string `json:"coverImage"`
}

func (c *Club) Brief() ClubBrief {
	return ClubBrief{ID: c.ID, Name: c.Name, CoverImage: c.CoverImage}
}
