package dbmodels

import (
	"time"

	"github.com/lib/pq"

	"case-flow-backend/models"
)

// DigestQueueItem is one pending line of a daily digest mail. Items
// accumulate per (digest_date, lang) and are merged into a single mail by
// the digest worker once the business-day cutoff has passed. The engine does
// not deduplicate beyond a single dispatch call.
type DigestQueueItem struct {
	BaseModel
	EventCode  models.NotifyEventCode `gorm:"type:varchar(64)"`
	CaseID     string                 `gorm:"type:varchar(36);index"`
	RefNo      string                 `gorm:"type:varchar(32)"`
	Role       models.NotifyRole      `gorm:"type:varchar(16)"`
	Status     models.CaseStatus      `gorm:"type:varchar(50)"`
	PrevStatus models.CaseStatus      `gorm:"type:varchar(50)"`
	ActorName  string                 `gorm:"type:varchar(255)"`
	Comment    string
	ToEmails   pq.StringArray  `gorm:"type:text[]"`
	Lang       models.LangCode `gorm:"type:varchar(8);index:idx_digest_batch"`
	// DigestDate is the business-zone calendar day (2006-01-02) the item
	// belongs to, already rolled forward past the cutoff hour.
	DigestDate string `gorm:"type:varchar(10);index:idx_digest_batch"`
	EventAt    time.Time
}
