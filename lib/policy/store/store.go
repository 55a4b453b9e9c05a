package policystore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "case-flow-backend/models/db"
)

type Provider interface {
	Get() (rec *dbmodels.NotifyPolicy, err error)
	Save(rec dbmodels.NotifyPolicy) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Get() (*dbmodels.NotifyPolicy, error) {
	rec := dbmodels.NotifyPolicy{}
	err := i.db.
		Order("created_at").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Save(rec dbmodels.NotifyPolicy) error {
	return i.db.
		Save(&rec).
		Error
}
