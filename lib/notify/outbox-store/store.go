package outboxstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "case-flow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.MailOutbox) (id string, err error)
	List(limit int) (list []dbmodels.MailOutbox, err error)
	Delete(id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.MailOutbox) (string, error) {
	err := i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(limit int) (list []dbmodels.MailOutbox, err error) {
	list = []dbmodels.MailOutbox{}
	err = i.db.
		Order("created_at").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.MailOutbox{}).
		Error
}
