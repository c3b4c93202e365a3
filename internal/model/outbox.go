package model

import "time"

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2

	// OutboxMaxRetry 失败超过该次数不再投递
	OutboxMaxRetry = 5
)

const (
	EventClubCreated     = "club_created"
	EventClubUpdated     = "club_updated"
	EventClubDeleted     = "club_deleted"
	EventJoinRequested   = "join_requested"
	EventRequestApproved = "request_approved"
	EventRequestRejected = "request_rejected"
	EventMemberRemoved   = "member_removed"
	EventLeadersChanged  = "leaders_changed"
	EventEventAdded      = "event_added"
	EventEventRemoved    = "event_removed"
)

// ClubOutbox 社团事件表，和业务写入同一事务
type ClubOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"`
	ClubID    uint64 `gorm:"not null;index"`
	ActorID   uint64 `gorm:"not null"`
	Payload   string `gorm:"type:text;not null"`
	Status    int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ClubOutbox) TableName() string { return "club_outbox" }
