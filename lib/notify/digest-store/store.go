package digeststore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "case-flow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.DigestQueueItem) (id string, err error)
	ListDue(maxDigestDate string) (list []dbmodels.DigestQueueItem, err error)
	Delete(ids []string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.DigestQueueItem) (string, error) {
	err := i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// ListDue returns items whose digest date is on or before the given day,
// oldest events first, so the digest sender can merge them per day+lang.
func (i impl) ListDue(maxDigestDate string) (list []dbmodels.DigestQueueItem, err error) {
	list = []dbmodels.DigestQueueItem{}
	err = i.db.
		Where("digest_date <= ?", maxDigestDate).
		Order("digest_date, lang, event_at").
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

func (i impl) Delete(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return i.db.Delete(&dbmodels.DigestQueueItem{}, ids).Error
}
