package usersstore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"case-flow-backend/models"
	dbmodels "case-flow-backend/models/db"
)

type Provider interface {
	GetByID(id string) (rec *dbmodels.StaffUser, err error)
	FindByEmail(email string) (rec *dbmodels.StaffUser, err error)
	ListActiveByRoles(roles []models.UserRole) (list []dbmodels.StaffUser, err error)
	LangsByEmails(emails []string) (map[string]models.LangCode, error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(id string) (*dbmodels.StaffUser, error) {
	rec := dbmodels.StaffUser{}
	err := i.db.
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

func (i impl) FindByEmail(email string) (*dbmodels.StaffUser, error) {
	rec := dbmodels.StaffUser{}
	err := i.db.
		Where("LOWER(email) = ?", strings.ToLower(email)).
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
		Model(&dbmodels.StaffUser{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) ListActiveByRoles(roles []models.UserRole) (list []dbmodels.StaffUser, err error) {
	list = []dbmodels.StaffUser{}
	err = i.db.
		Where("is_active = ?", true).
		Where("role IN ?", roles).
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

// LangsByEmails resolves stored language preferences, keyed by the
// lower-cased address. Addresses without an account are simply absent.
func (i impl) LangsByEmails(emails []string) (map[string]models.LangCode, error) {
	if len(emails) == 0 {
		return map[string]models.LangCode{}, nil
	}
	lowered := make([]string, 0, len(emails))
	for _, email := range emails {
		lowered = append(lowered, strings.ToLower(email))
	}
	var recs []dbmodels.StaffUser
	err := i.db.
		Select("email", "lang").
		Where("LOWER(email) IN ?", lowered).
		Find(&recs).
		Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]models.LangCode, len(recs))
	for _, rec := range recs {
		result[strings.ToLower(rec.Email)] = rec.Lang
	}
	return result, nil
}
