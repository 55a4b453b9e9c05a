package dbmodels

import (
	"github.com/lib/pq"

	"case-flow-backend/models"
)

// MailOutbox holds rendered immediate mail, one row per language group.
// Rows are write-once; the outbox worker deletes them after sending.
type MailOutbox struct {
	BaseModel
	EventCode models.NotifyEventCode `gorm:"type:varchar(64);index"`
	CaseID    string                 `gorm:"type:varchar(36);index"`
	RefNo     string                 `gorm:"type:varchar(32)"`
	Lang      models.LangCode        `gorm:"type:varchar(8)"`
	ToEmails  pq.StringArray         `gorm:"type:text[]"`
	Subject   string                 `gorm:"type:varchar(512)"`
	BodyHTML  string
}
