package inappstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "case-flow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.UserNotification) (id string, err error)
	List(userID string, onlyUnread bool, limit int) (list []dbmodels.UserNotification, err error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID, id string) error
	MarkAllRead(userID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.UserNotification) (string, error) {
	err := i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(userID string, onlyUnread bool, limit int) (list []dbmodels.UserNotification, err error) {
	list = []dbmodels.UserNotification{}
	tx := i.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit)
	if onlyUnread {
		tx = tx.Where("is_read = ?", false)
	}
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) UnreadCount(userID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.UserNotification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Count(&count).
		Error
	return count, err
}

func (i impl) MarkRead(userID, id string) error {
	now := time.Now()
	tx := i.db.
		Model(&dbmodels.UserNotification{}).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

func (i impl) MarkAllRead(userID string) error {
	now := time.Now()
	return i.db.
		Model(&dbmodels.UserNotification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		}).
		Error
}
