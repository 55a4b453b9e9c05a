package wsmodels

import "case-flow-backend/models"

type ServerMessage struct {
	ToUserID string                 `json:"-"`
	ID       string                 `json:"id"`
	Code     models.NotifyEventCode `json:"code"`
	Title    string                 `json:"title"`
	Body     string                 `json:"body"`
	CaseID   string                 `json:"case_id,omitempty"`
}
