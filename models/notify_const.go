package models

type NotifyRole string

const (
	NotifyRoleSales   NotifyRole = "sales"
	NotifyRoleDesign  NotifyRole = "design"
	NotifyRoleCosting NotifyRole = "costing"
	NotifyRoleAdmin   NotifyRole = "admin"
)

var NotifyRoles = []NotifyRole{NotifyRoleSales, NotifyRoleDesign, NotifyRoleCosting, NotifyRoleAdmin}

// RoleFlags marks which of the four addressable groups a status speaks to.
type RoleFlags struct {
	Sales   bool `json:"sales"`
	Design  bool `json:"design"`
	Costing bool `json:"costing"`
	Admin   bool `json:"admin"`
}

func (f RoleFlags) Roles() []NotifyRole {
	roles := make([]NotifyRole, 0, 4)
	if f.Sales {
		roles = append(roles, NotifyRoleSales)
	}
	if f.Design {
		roles = append(roles, NotifyRoleDesign)
	}
	if f.Costing {
		roles = append(roles, NotifyRoleCosting)
	}
	if f.Admin {
		roles = append(roles, NotifyRoleAdmin)
	}
	return roles
}

func (f RoleFlags) Has(role NotifyRole) bool {
	switch role {
	case NotifyRoleSales:
		return f.Sales
	case NotifyRoleDesign:
		return f.Design
	case NotifyRoleCosting:
		return f.Costing
	case NotifyRoleAdmin:
		return f.Admin
	}
	return false
}

// statusNotifyMap is the built-in status→roles table. A policy flowMap entry
// overrides the whole row for email routing; the in-app feed always uses
// this table.
var statusNotifyMap = map[CaseStatus]RoleFlags{
	CaseStatusSubmitted:            {Design: true, Admin: true},
	CaseStatusEdited:               {Design: true, Admin: true},
	CaseStatusUnderReview:          {Sales: true},
	CaseStatusClarificationNeeded:  {Sales: true},
	CaseStatusFeasibilityConfirmed: {Sales: true, Costing: true, Admin: true},
	CaseStatusDesignResult:         {Sales: true, Costing: true, Admin: true},
	CaseStatusInCosting:            {Costing: true},
	CaseStatusCostingComplete:      {Sales: true, Admin: true},
	CaseStatusSalesFollowup:        {Sales: true},
	CaseStatusGMApprovalPending:    {Admin: true},
	CaseStatusGMApproved:           {Sales: true, Admin: true},
	CaseStatusGMRejected:           {Sales: true, Admin: true},
	CaseStatusCancelled:            {Sales: true, Design: true, Costing: true, Admin: true},
	CaseStatusClosed:               {Sales: true, Admin: true},
}

func StatusNotifyRoles(status CaseStatus) RoleFlags {
	return statusNotifyMap[status]
}

// AdminUrgentStatuses lists the statuses for which the admin group gets
// immediate mail instead of the daily digest.
var AdminUrgentStatuses = map[CaseStatus]bool{
	CaseStatusGMApprovalPending: true,
}

type NotifyEventCode string

const (
	EventStatusChanged NotifyEventCode = "status_changed"
	EventCaseAmended   NotifyEventCode = "case_amended"
)
