package models

type CaseStatus string

const (
	CaseStatusDraft                CaseStatus = "draft"
	CaseStatusSubmitted            CaseStatus = "submitted"
	CaseStatusEdited               CaseStatus = "edited"
	CaseStatusUnderReview          CaseStatus = "under_review"
	CaseStatusClarificationNeeded  CaseStatus = "clarification_needed"
	CaseStatusFeasibilityConfirmed CaseStatus = "feasibility_confirmed"
	CaseStatusDesignResult         CaseStatus = "design_result"
	CaseStatusInCosting            CaseStatus = "in_costing"
	CaseStatusCostingComplete      CaseStatus = "costing_complete"
	CaseStatusSalesFollowup        CaseStatus = "sales_followup"
	CaseStatusGMApprovalPending    CaseStatus = "gm_approval_pending"
	CaseStatusGMApproved           CaseStatus = "gm_approved"
	CaseStatusGMRejected           CaseStatus = "gm_rejected"
	CaseStatusCancelled            CaseStatus = "cancelled"
	CaseStatusClosed               CaseStatus = "closed"
)

// AllCaseStatuses is the closed status set; statuses are not user-definable.
var AllCaseStatuses = []CaseStatus{
	CaseStatusDraft,
	CaseStatusSubmitted,
	CaseStatusEdited,
	CaseStatusUnderReview,
	CaseStatusClarificationNeeded,
	CaseStatusFeasibilityConfirmed,
	CaseStatusDesignResult,
	CaseStatusInCosting,
	CaseStatusCostingComplete,
	CaseStatusSalesFollowup,
	CaseStatusGMApprovalPending,
	CaseStatusGMApproved,
	CaseStatusGMRejected,
	CaseStatusCancelled,
	CaseStatusClosed,
}

func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusCancelled || s == CaseStatusClosed
}

type Actor struct {
	ID   string
	Name string
}

const SystemActorName = "System"
