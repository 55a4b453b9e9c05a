package notify

import (
	"strings"

	"case-flow-backend/models"
	dbmodels "case-flow-backend/models/db"
)

// resolveRecipients turns a policy and a status into the immediate address
// list and the per-role digest lists. A flowMap entry for the status replaces
// the built-in role row entirely. The admin group goes to the digest except
// for the urgent statuses. In test mode every list collapses to the single
// test address.
func resolveRecipients(policy *dbmodels.NotifyPolicy, status models.CaseStatus) (immediate []string, digest map[models.NotifyRole][]string) {
	flags := models.StatusNotifyRoles(status)
	if entry, ok := policy.FlowMap[string(status)]; ok {
		flags = models.RoleFlags{
			Sales:   entry.Sales,
			Design:  entry.Design,
			Costing: entry.Costing,
			Admin:   entry.Admin,
		}
	}

	roleEmails := map[models.NotifyRole][]string{
		models.NotifyRoleSales:   policy.SalesEmails,
		models.NotifyRoleDesign:  policy.DesignEmails,
		models.NotifyRoleCosting: policy.CostingEmails,
		models.NotifyRoleAdmin:   policy.AdminEmails,
	}

	digest = map[models.NotifyRole][]string{}
	seen := map[string]bool{}
	for _, role := range models.NotifyRoles {
		if !flags.Has(role) {
			continue
		}
		if role == models.NotifyRoleAdmin && !models.AdminUrgentStatuses[status] {
			if list := dedup(roleEmails[role], map[string]bool{}); len(list) > 0 {
				digest[role] = list
			}
			continue
		}
		// immediate addresses share one seen-set so an address in two
		// role lists gets a single mail
		immediate = append(immediate, dedup(roleEmails[role], seen)...)
	}

	if policy.TestMode {
		testAddr := policy.TestEmail
		if testAddr == "" {
			testAddr = policy.SenderEmail
		}
		if len(immediate) > 0 {
			immediate = []string{testAddr}
		}
		for role := range digest {
			digest[role] = []string{testAddr}
		}
	}
	return immediate, digest
}

// dedup lower-cases, trims and de-duplicates addresses against seen,
// preserving first-occurrence order.
func dedup(emails []string, seen map[string]bool) []string {
	result := make([]string, 0, len(emails))
	for _, email := range emails {
		addr := strings.ToLower(strings.TrimSpace(email))
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		result = append(result, addr)
	}
	return result
}
