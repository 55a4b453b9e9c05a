package dbmodels

import (
	"time"

	"case-flow-backend/models"
)

// CaseRequest is a customer product request moving through the
// sales → design → costing → GM pipeline. The Events log is append-only and
// is the source of truth for when a status first or last occurred; Status
// always equals the last event's status except after a GM rejection, where
// the resting status is sales_followup while the raw gm_rejected event stays
// in the log.
type CaseRequest struct {
	BaseModel
	RefNo       string            `gorm:"type:varchar(32);uniqueIndex"`
	Status      models.CaseStatus `gorm:"type:varchar(50);index"`
	CreatorID   string            `gorm:"type:varchar(36);index:idx_creator_draft_key"`
	CreatorName string            `gorm:"type:varchar(255)"`
	// DraftKey is the client-supplied session key used only while the case
	// is a draft; duplicates under the same (creator, key) pair are purged
	// when one of them is submitted.
	DraftKey      string `gorm:"type:varchar(128);index:idx_creator_draft_key"`
	ClientName    string `gorm:"type:varchar(255)"`
	ProductName   string `gorm:"type:varchar(255)"`
	Quantity      int
	TargetPrice   float64
	Currency      string `gorm:"type:varchar(8)"`
	BomFolderLink string `gorm:"type:varchar(512)"`
	Details       string
	Events        []CaseEvent `gorm:"foreignKey:CaseID"`
}

type CaseEvent struct {
	ID        string            `gorm:"primaryKey;default:uuid_generate_v4()"`
	CaseID    string            `gorm:"type:varchar(36);index"`
	Status    models.CaseStatus `gorm:"type:varchar(50)"`
	EventAt   time.Time         `gorm:"index"`
	ActorID   string            `gorm:"type:varchar(36)"`
	ActorName string            `gorm:"type:varchar(255)"`
	Comment   string
}

// LastEvent returns the newest event by EventAt; Events are loaded in
// ascending order.
func (c CaseRequest) LastEvent() *CaseEvent {
	if len(c.Events) == 0 {
		return nil
	}
	return &c.Events[len(c.Events)-1]
}

func (c CaseRequest) HasStatusInHistory(status models.CaseStatus) bool {
	for _, ev := range c.Events {
		if ev.Status == status {
			return true
		}
	}
	return false
}
