package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"case-flow-backend/models"
)

// UserNotification is one in-app feed row per addressed active user per
// event. Only the read-state fields ever change after insert; retention is
// an external concern.
type UserNotification struct {
	BaseModel
	UserID    string                 `gorm:"type:varchar(36);index:idx_user_unread"`
	EventCode models.NotifyEventCode `gorm:"type:varchar(64)"`
	Title     string                 `gorm:"type:varchar(512)"`
	Body      string
	CaseID    *string             `gorm:"type:varchar(36);index"`
	Payload   NotificationPayload `gorm:"type:jsonb"`
	IsRead    bool                `gorm:"index:idx_user_unread"`
	ReadAt    *time.Time
}

type NotificationPayload struct {
	RefNo      string `json:"ref_no"`
	ClientName string `json:"client_name"`
	Status     string `json:"status"`
	PrevStatus string `json:"prev_status"`
	ActorName  string `json:"actor_name"`
}

func (j NotificationPayload) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *NotificationPayload) Scan(value interface{}) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}
