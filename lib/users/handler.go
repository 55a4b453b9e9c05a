package usershandler

import (
	"case-flow-backend/db"
	usersstore "case-flow-backend/lib/users/store"
	"case-flow-backend/models"
	authapimodels "case-flow-backend/models/api/authapi"
)

type Provider interface {
	List(roles []models.UserRole) (list []authapimodels.UserView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store usersstore.Provider
}

// List returns the active staff directory, optionally narrowed to roles.
func (i impl) List(roles []models.UserRole) ([]authapimodels.UserView, error) {
	if len(roles) == 0 {
		roles = models.RolesForNotifyGroups(models.NotifyRoles)
	}
	recs, err := i.store.ListActiveByRoles(roles)
	if err != nil {
		return nil, err
	}
	list := make([]authapimodels.UserView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, authapimodels.UserConvert(rec))
	}
	return list, nil
}
