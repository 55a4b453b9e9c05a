package models

type UserRole string

const (
	UserRoleSales   UserRole = "SALES_ROLE"
	UserRoleDesign  UserRole = "DESIGN_ROLE"
	UserRoleCosting UserRole = "COSTING_ROLE"
	UserRoleAdmin   UserRole = "ADMIN_ROLE"
)

var roleHumanName = map[UserRole]string{
	UserRoleSales:   "Sales",
	UserRoleDesign:  "Design",
	UserRoleCosting: "Costing",
	UserRoleAdmin:   "Admin / GM",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// NotifyRole maps an account role onto its addressable notification group.
func (r UserRole) NotifyRole() NotifyRole {
	switch r {
	case UserRoleSales:
		return NotifyRoleSales
	case UserRoleDesign:
		return NotifyRoleDesign
	case UserRoleCosting:
		return NotifyRoleCosting
	case UserRoleAdmin:
		return NotifyRoleAdmin
	}
	return ""
}

func RolesForNotifyGroups(groups []NotifyRole) []UserRole {
	result := make([]UserRole, 0, len(groups))
	for _, g := range groups {
		switch g {
		case NotifyRoleSales:
			result = append(result, UserRoleSales)
		case NotifyRoleDesign:
			result = append(result, UserRoleDesign)
		case NotifyRoleCosting:
			result = append(result, UserRoleCosting)
		case NotifyRoleAdmin:
			result = append(result, UserRoleAdmin)
		}
	}
	return result
}
