package notifyapimodels

import (
	"time"

	"case-flow-backend/models"
	dbmodels "case-flow-backend/models/db"
)

type NotificationView struct {
	ID        string                 `json:"id"`
	EventCode models.NotifyEventCode `json:"event_code"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	CaseID    string                 `json:"case_id,omitempty"`
	RefNo     string                 `json:"ref_no,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
}

func NotificationConvert(rec dbmodels.UserNotification) NotificationView {
	view := NotificationView{
		ID:        rec.ID,
		EventCode: rec.EventCode,
		Title:     rec.Title,
		Body:      rec.Body,
		RefNo:     rec.Payload.RefNo,
		IsRead:    rec.IsRead,
		CreatedAt: rec.CreatedAt,
		ReadAt:    rec.ReadAt,
	}
	if rec.CaseID != nil {
		view.CaseID = *rec.CaseID
	}
	return view
}

type PolicyData struct {
	Enabled       bool                       `json:"enabled"`
	SenderEmail   string                     `json:"sender_email"`
	TestMode      bool                       `json:"test_mode"`
	TestEmail     string                     `json:"test_email"`
	SalesEmails   []string                   `json:"sales_emails"`
	DesignEmails  []string                   `json:"design_emails"`
	CostingEmails []string                   `json:"costing_emails"`
	AdminEmails   []string                   `json:"admin_emails"`
	FlowMap       dbmodels.FlowOverrides     `json:"flow_map,omitempty"`
	Templates     dbmodels.TemplateOverrides `json:"templates,omitempty"`
}

func PolicyConvert(rec dbmodels.NotifyPolicy) PolicyData {
	return PolicyData{
		Enabled:       rec.Enabled,
		SenderEmail:   rec.SenderEmail,
		TestMode:      rec.TestMode,
		TestEmail:     rec.TestEmail,
		SalesEmails:   rec.SalesEmails,
		DesignEmails:  rec.DesignEmails,
		CostingEmails: rec.CostingEmails,
		AdminEmails:   rec.AdminEmails,
		FlowMap:       rec.FlowMap,
		Templates:     rec.Templates,
	}
}
