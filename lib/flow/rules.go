package flow

import (
	"case-flow-backend/models"
)

// Provider is the transition legality table. The rule content is owned by
// the deployment (this default table mirrors the standard pipeline); the
// engine only consults it.
type Provider interface {
	IsKnownStatus(status models.CaseStatus) bool
	IsAllowedTransition(from, to models.CaseStatus) bool
	AllowedTransitions(from models.CaseStatus) []models.CaseStatus
}

var Instance Provider

func NewHandler() {
	Instance = impl{rules: defaultRules}
}

func NewInstanceWithRules(rules map[models.CaseStatus][]models.CaseStatus) Provider {
	return impl{rules: rules}
}

type impl struct {
	rules map[models.CaseStatus][]models.CaseStatus
}

var defaultRules = map[models.CaseStatus][]models.CaseStatus{
	models.CaseStatusDraft:                {models.CaseStatusSubmitted, models.CaseStatusCancelled},
	models.CaseStatusSubmitted:            {models.CaseStatusUnderReview, models.CaseStatusEdited, models.CaseStatusClarificationNeeded, models.CaseStatusCancelled},
	models.CaseStatusEdited:               {models.CaseStatusUnderReview, models.CaseStatusClarificationNeeded, models.CaseStatusCancelled},
	models.CaseStatusUnderReview:          {models.CaseStatusClarificationNeeded, models.CaseStatusFeasibilityConfirmed, models.CaseStatusCancelled},
	models.CaseStatusClarificationNeeded:  {models.CaseStatusSubmitted, models.CaseStatusEdited, models.CaseStatusCancelled},
	models.CaseStatusFeasibilityConfirmed: {models.CaseStatusDesignResult, models.CaseStatusCancelled},
	models.CaseStatusDesignResult:         {models.CaseStatusInCosting, models.CaseStatusCancelled},
	models.CaseStatusInCosting:            {models.CaseStatusCostingComplete, models.CaseStatusCancelled},
	models.CaseStatusCostingComplete:      {models.CaseStatusSalesFollowup, models.CaseStatusGMApprovalPending, models.CaseStatusCancelled},
	models.CaseStatusSalesFollowup:        {models.CaseStatusGMApprovalPending, models.CaseStatusClosed, models.CaseStatusCancelled},
	models.CaseStatusGMApprovalPending:    {models.CaseStatusGMApproved, models.CaseStatusGMRejected, models.CaseStatusCancelled},
	models.CaseStatusGMApproved:           {models.CaseStatusClosed},
	models.CaseStatusGMRejected:           {},
	models.CaseStatusCancelled:            {},
	models.CaseStatusClosed:               {},
}

func (i impl) IsKnownStatus(status models.CaseStatus) bool {
	for _, known := range models.AllCaseStatuses {
		if status == known {
			return true
		}
	}
	return false
}

func (i impl) IsAllowedTransition(from, to models.CaseStatus) bool {
	for _, allowed := range i.rules[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (i impl) AllowedTransitions(from models.CaseStatus) []models.CaseStatus {
	allowed := i.rules[from]
	result := make([]models.CaseStatus, len(allowed))
	copy(result, allowed)
	return result
}
