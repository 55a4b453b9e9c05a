package dbmodels

import (
	"fmt"
	"time"

	"case-flow-backend/models"
)

type StaffUser struct {
	BaseModel
	Password    string `gorm:"type:varchar(128)"`
	FirstName   string `gorm:"type:varchar(150)"`
	LastName    string `gorm:"type:varchar(150)"`
	Email       string `gorm:"type:varchar(255);index"`
	IsActive    bool
	PhoneNumber string          `gorm:"type:varchar(15)"`
	Role        models.UserRole `gorm:"type:varchar(50);index"`
	// Lang is the preferred notification language; empty falls back to the
	// base language.
	Lang      models.LangCode `gorm:"type:varchar(8)"`
	LastLogin time.Time
}

func (r StaffUser) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}
