package flow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"case-flow-backend/models"
)

func TestRules(t *testing.T) {
	NewHandler()

	t.Run(`known status check`, func(t *testing.T) {
		for _, status := range models.AllCaseStatuses {
			require.True(t, Instance.IsKnownStatus(status))
		}
		require.False(t, Instance.IsKnownStatus("launched"))
		require.False(t, Instance.IsKnownStatus(""))
	})

	t.Run(`pipeline walk check`, func(t *testing.T) {
		path := []models.CaseStatus{
			models.CaseStatusDraft,
			models.CaseStatusSubmitted,
			models.CaseStatusUnderReview,
			models.CaseStatusFeasibilityConfirmed,
			models.CaseStatusDesignResult,
			models.CaseStatusInCosting,
			models.CaseStatusCostingComplete,
			models.CaseStatusGMApprovalPending,
			models.CaseStatusGMApproved,
			models.CaseStatusClosed,
		}
		for idx := 0; idx < len(path)-1; idx++ {
			require.True(t, Instance.IsAllowedTransition(path[idx], path[idx+1]),
				"%s -> %s", path[idx], path[idx+1])
		}
	})

	t.Run(`no skipping stages check`, func(t *testing.T) {
		require.False(t, Instance.IsAllowedTransition(models.CaseStatusDraft, models.CaseStatusInCosting))
		require.False(t, Instance.IsAllowedTransition(models.CaseStatusSubmitted, models.CaseStatusGMApproved))
		require.False(t, Instance.IsAllowedTransition(models.CaseStatusUnderReview, models.CaseStatusCostingComplete))
	})

	t.Run(`terminal statuses have no exits`, func(t *testing.T) {
		for _, status := range []models.CaseStatus{
			models.CaseStatusGMRejected,
			models.CaseStatusCancelled,
			models.CaseStatusClosed,
		} {
			require.Empty(t, Instance.AllowedTransitions(status))
		}
	})

	t.Run(`cancel reachable from active statuses`, func(t *testing.T) {
		for _, status := range []models.CaseStatus{
			models.CaseStatusDraft,
			models.CaseStatusSubmitted,
			models.CaseStatusUnderReview,
			models.CaseStatusInCosting,
			models.CaseStatusGMApprovalPending,
		} {
			require.True(t, Instance.IsAllowedTransition(status, models.CaseStatusCancelled), string(status))
		}
		require.False(t, Instance.IsAllowedTransition(models.CaseStatusGMApproved, models.CaseStatusCancelled))
	})

	t.Run(`allowed transitions copy is isolated`, func(t *testing.T) {
		list := Instance.AllowedTransitions(models.CaseStatusDraft)
		require.Equal(t, []models.CaseStatus{models.CaseStatusSubmitted, models.CaseStatusCancelled}, list)
		list[0] = models.CaseStatusClosed
		require.Equal(t, []models.CaseStatus{models.CaseStatusSubmitted, models.CaseStatusCancelled},
			Instance.AllowedTransitions(models.CaseStatusDraft))
	})
}
