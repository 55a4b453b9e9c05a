package policyhandler

import (
	log "github.com/sirupsen/logrus"

	"case-flow-backend/db"
	policystore "case-flow-backend/lib/policy/store"
	notifyapimodels "case-flow-backend/models/api/notifyapi"
	dbmodels "case-flow-backend/models/db"
)

type Provider interface {
	Get() (view notifyapimodels.PolicyData, err error)
	Update(data notifyapimodels.PolicyData) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: policystore.NewInstance(db.DB),
	}
}

type impl struct {
	store policystore.Provider
}

func (i impl) Get() (notifyapimodels.PolicyData, error) {
	rec, err := i.store.Get()
	if err != nil {
		log.WithError(err).Error("failed to load notification policy")
		return notifyapimodels.PolicyData{}, err
	}
	if rec == nil {
		return notifyapimodels.PolicyData{}, nil
	}
	return notifyapimodels.PolicyConvert(*rec), nil
}

func (i impl) Update(data notifyapimodels.PolicyData) error {
	rec, err := i.store.Get()
	if err != nil {
		log.WithError(err).Error("failed to load notification policy")
		return err
	}
	if rec == nil {
		rec = &dbmodels.NotifyPolicy{}
	}
	rec.Enabled = data.Enabled
	rec.SenderEmail = data.SenderEmail
	rec.TestMode = data.TestMode
	rec.TestEmail = data.TestEmail
	rec.SalesEmails = data.SalesEmails
	rec.DesignEmails = data.DesignEmails
	rec.CostingEmails = data.CostingEmails
	rec.AdminEmails = data.AdminEmails
	rec.FlowMap = data.FlowMap
	rec.Templates = data.Templates
	err = i.store.Save(*rec)
	if err != nil {
		log.WithError(err).Error("failed to save notification policy")
		return err
	}
	log.Info("notification policy updated")
	return nil
}
