package casestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"case-flow-backend/models"
	caseapimodels "case-flow-backend/models/api/caseapi"
	dbmodels "case-flow-backend/models/db"
)

type Provider interface {
	Create(rec *dbmodels.CaseRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.CaseRequest, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(filter caseapimodels.CaseFilter) (list []dbmodels.CaseRequest, rowCount int64, err error)
	FindDraft(creatorID, draftKey string) (rec *dbmodels.CaseRequest, err error)
	PurgeDraftSiblings(creatorID, draftKey, exceptID string) (int64, error)
	CreateEvent(event dbmodels.CaseEvent) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec *dbmodels.CaseRequest) (string, error) {
	err := i.db.
		Save(rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.CaseRequest, error) {
	rec := dbmodels.CaseRequest{}
	err := i.db.
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("case_events.event_at")
		}).
		Where("id = ?", id).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.CaseRequest{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id string) error {
	err := i.db.
		Where("case_id = ?", id).
		Delete(&dbmodels.CaseEvent{}).
		Error
	if err != nil {
		return err
	}
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.CaseRequest{}).
		Error
}

func (i impl) List(filter caseapimodels.CaseFilter) (list []dbmodels.CaseRequest, rowCount int64, err error) {
	list = []dbmodels.CaseRequest{}
	tx := i.db.Model(&dbmodels.CaseRequest{})
	if len(filter.Statuses) > 0 {
		tx = tx.Where("status IN ?", filter.Statuses)
	}
	if filter.ClientName != "" {
		tx = tx.Where("client_name ILIKE ?", "%"+filter.ClientName+"%")
	}
	if filter.CreatorID != "" {
		tx = tx.Where("creator_id = ?", filter.CreatorID)
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	err = tx.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) FindDraft(creatorID, draftKey string) (*dbmodels.CaseRequest, error) {
	rec := dbmodels.CaseRequest{}
	err := i.db.
		Where("creator_id = ?", creatorID).
		Where("draft_key = ?", draftKey).
		Where("status = ?", models.CaseStatusDraft).
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

// PurgeDraftSiblings removes leftover drafts under the same session key once
// one of them leaves the draft status.
func (i impl) PurgeDraftSiblings(creatorID, draftKey, exceptID string) (int64, error) {
	tx := i.db.
		Where("creator_id = ?", creatorID).
		Where("draft_key = ?", draftKey).
		Where("status = ?", models.CaseStatusDraft).
		Where("id <> ?", exceptID).
		Delete(&dbmodels.CaseRequest{})
	return tx.RowsAffected, tx.Error
}

func (i impl) CreateEvent(event dbmodels.CaseEvent) error {
	return i.db.
		Create(&event).
		Error
}
