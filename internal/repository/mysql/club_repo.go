package mysql

import (
	"context"

	"Campus_Portal/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClubRepository struct {
	DB *gorm.DB
}

func (r *ClubRepository) Create(ctx context.Context, club *model.Club) error {
	// 成员、申请、活动由各自的方法写入
	return translate(r.DB.WithContext(ctx).Omit(clause.Associations).Create(club).Error)
}

func (r *ClubRepository) FindByID(ctx context.Context, id uint64) (*model.Club, error) {
	return r.find(ctx, false, id)
}

// LockByID select for update 锁住社团行，同一社团的写操作串行执行
func (r *ClubRepository) LockByID(ctx context.Context, id uint64) (*model.Club, error) {
	return r.find(ctx, true, id)
}

func (r *ClubRepository) find(ctx context.Context, lock bool, id uint64) (*model.Club, error) {
	db := r.DB.WithContext(ctx)
	q := db
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var club model.Club
	if err := q.First(&club, id).Error; err != nil {
		return nil, translate(err)
	}
	// 子表单独查询，锁只作用在社团行上
	if err := db.Where("club_id = ?", id).Order("id ASC").Find(&club.Members).Error; err != nil {
		return nil, err
	}
	if err := db.Where("club_id = ?", id).Order("id ASC").Find(&club.Requests).Error; err != nil {
		return nil, err
	}
	if err := db.Where("club_id = ?", id).Order("date ASC, id ASC").Find(&club.Events).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *ClubRepository) List(ctx context.Context) ([]model.Club, error) {
	var list []model.Club
	err := r.DB.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC, id ASC") }).
		Order("id DESC").
		Find(&list).Error
	return list, err
}

func (r *ClubRepository) ListByMember(ctx context.Context, userID uint64, leaderOnly bool) ([]model.Club, error) {
	sub := r.DB.Model(&model.ClubMember{}).Select("club_id").Where("user_id = ?", userID)
	if leaderOnly {
		sub = sub.Where("role = ?", model.MemberRoleLeader)
	}
	var list []model.Club
	err := r.DB.WithContext(ctx).Where("id IN (?)", sub).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *ClubRepository) UpdateInfo(ctx context.Context, club *model.Club) error {
	return r.DB.WithContext(ctx).Model(&model.Club{}).Where("id = ?", club.ID).
		Updates(map[string]any{
			"name":        club.Name,
			"description": club.Description,
			"cover_image": club.CoverImage,
		}).Error
}

// Delete 删除社团及其成员、申请和活动
func (r *ClubRepository) Delete(ctx context.Context, id uint64) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("club_id = ?", id).Delete(&model.ClubMember{}).Error; err != nil {
		return err
	}
	if err := db.Where("club_id = ?", id).Delete(&model.ClubRequest{}).Error; err != nil {
		return err
	}
	if err := db.Where("club_id = ?", id).Delete(&model.ClubEvent{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Club{}, id).Error
}

// UpsertMember 幂等加入，已是成员时只更新角色
func (r *ClubRepository) UpsertMember(ctx context.Context, clubID, userID uint64, role model.MemberRole) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "club_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(&model.ClubMember{ClubID: clubID, UserID: userID, Role: role}).Error
}

func (r *ClubRepository) RemoveMember(ctx context.Context, clubID, userID uint64) error {
	return r.DB.WithContext(ctx).Where("club_id = ? AND user_id = ?", clubID, userID).
		Delete(&model.ClubMember{}).Error
}

func (r *ClubRepository) AddRequest(ctx context.Context, clubID, userID uint64) error {
	return translate(r.DB.WithContext(ctx).Create(&model.ClubRequest{ClubID: clubID, UserID: userID}).Error)
}

func (r *ClubRepository) RemoveRequest(ctx context.Context, clubID, userID uint64) (bool, error) {
	tx := r.DB.WithContext(ctx).Where("club_id = ? AND user_id = ?", clubID, userID).
		Delete(&model.ClubRequest{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *ClubRepository) AddEvent(ctx context.Context, event *model.ClubEvent) error {
	return r.DB.WithContext(ctx).Create(event).Error
}

func (r *ClubRepository) RemoveEvent(ctx context.Context, clubID, eventID uint64) (bool, error) {
	tx := r.DB.WithContext(ctx).Where("id = ? AND club_id = ?", eventID, clubID).
		Delete(&model.ClubEvent{})
	return tx.RowsAffected > 0, tx.Error
}
