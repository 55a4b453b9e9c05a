package caseapimodels

import (
	"time"

	"github.com/pkg/errors"

	"case-flow-backend/models"
	apimodels "case-flow-backend/models/api"
	dbmodels "case-flow-backend/models/db"
)

type CaseData struct {
	ClientName    string  `json:"client_name"`
	ProductName   string  `json:"product_name"`
	Quantity      int     `json:"quantity"`
	TargetPrice   float64 `json:"target_price"`
	Currency      string  `json:"currency"`
	BomFolderLink string  `json:"bom_folder_link"`
	Details       string  `json:"details"`
}

type CaseCreateData struct {
	CaseData
	// AsDraft keeps the case in the draft status instead of submitting it.
	AsDraft bool `json:"as_draft"`
}

func (r CaseCreateData) Validate() error {
	if r.ClientName == "" {
		return errors.New("client name is required")
	}
	if r.ProductName == "" {
		return errors.New("product name is required")
	}
	if r.Quantity < 0 {
		return errors.New("quantity must not be negative")
	}
	return nil
}

type CaseEditData struct {
	CaseData
	// Renotify re-alerts the next-stage group after an amendment to already
	// submitted data, without touching the status history.
	Renotify bool `json:"renotify"`
}

func (r CaseEditData) Validate() error {
	if r.ClientName == "" {
		return errors.New("client name is required")
	}
	return nil
}

type StatusChangeData struct {
	Status  models.CaseStatus `json:"status"`
	Comment string            `json:"comment"`
}

type CaseFilter struct {
	apimodels.Pagination
	Statuses   []models.CaseStatus `json:"statuses"`
	ClientName string              `json:"client_name"`
	CreatorID  string              `json:"creator_id"`
}

type CaseEventView struct {
	Status    models.CaseStatus `json:"status"`
	EventAt   time.Time         `json:"event_at"`
	ActorID   string            `json:"actor_id"`
	ActorName string            `json:"actor_name"`
	Comment   string            `json:"comment,omitempty"`
}

type CaseView struct {
	ID          string            `json:"id"`
	RefNo       string            `json:"ref_no"`
	Status      models.CaseStatus `json:"status"`
	CreatorID   string            `json:"creator_id"`
	CreatorName string            `json:"creator_name"`
	CreatedAt   time.Time         `json:"created_at"`
	CaseData
	Events []CaseEventView `json:"events"`
}

func CaseConvert(rec dbmodels.CaseRequest) CaseView {
	view := CaseView{
		ID:          rec.ID,
		RefNo:       rec.RefNo,
		Status:      rec.Status,
		CreatorID:   rec.CreatorID,
		CreatorName: rec.CreatorName,
		CreatedAt:   rec.CreatedAt,
		CaseData: CaseData{
			ClientName:    rec.ClientName,
			ProductName:   rec.ProductName,
			Quantity:      rec.Quantity,
			TargetPrice:   rec.TargetPrice,
			Currency:      rec.Currency,
			BomFolderLink: rec.BomFolderLink,
			Details:       rec.Details,
		},
		Events: make([]CaseEventView, 0, len(rec.Events)),
	}
	for _, ev := range rec.Events {
		view.Events = append(view.Events, CaseEventView{
			Status:    ev.Status,
			EventAt:   ev.EventAt,
			ActorID:   ev.ActorID,
			ActorName: ev.ActorName,
			Comment:   ev.Comment,
		})
	}
	return view
}
