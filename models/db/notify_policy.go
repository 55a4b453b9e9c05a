package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/lib/pq"
)

// NotifyPolicy is the per-deployment notification configuration, one row.
type NotifyPolicy struct {
	BaseModel
	Enabled     bool
	SenderEmail string `gorm:"type:varchar(255)"`
	// TestMode redirects every outbound mail to TestEmail (or SenderEmail
	// when empty) so test traffic never reaches real staff.
	TestMode      bool
	TestEmail     string            `gorm:"type:varchar(255)"`
	SalesEmails   pq.StringArray    `gorm:"type:text[]"`
	DesignEmails  pq.StringArray    `gorm:"type:text[]"`
	CostingEmails pq.StringArray    `gorm:"type:text[]"`
	AdminEmails   pq.StringArray    `gorm:"type:text[]"`
	FlowMap       FlowOverrides     `gorm:"type:jsonb"`
	Templates     TemplateOverrides `gorm:"type:jsonb"`
}

// FlowOverrides maps a status code onto explicit role toggles; a present
// entry replaces the built-in row for email routing entirely.
type FlowOverrides map[string]FlowEntry

type FlowEntry struct {
	Sales   bool `json:"sales"`
	Design  bool `json:"design"`
	Costing bool `json:"costing"`
	Admin   bool `json:"admin"`
}

func (j FlowOverrides) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *FlowOverrides) Scan(value interface{}) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

// TemplateOverrides maps an event code onto stored template overrides.
// Subject/Body are the legacy single-language shape and apply to the base
// language only; ByLang is the language-keyed shape and wins over it.
type TemplateOverrides map[string]TemplateOverride

type TemplateOverride struct {
	Subject string                 `json:"subject,omitempty"`
	Body    string                 `json:"body,omitempty"`
	ByLang  map[string]TemplateDef `json:"by_lang,omitempty"`
}

type TemplateDef struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (j TemplateOverrides) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *TemplateOverrides) Scan(value interface{}) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}
