package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "case-flow-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.StaffUser{}); err != nil {
		return errors.Wrap(err, "migration failed for StaffUser")
	}
	if err := DB.AutoMigrate(&dbmodels.CaseRequest{}); err != nil {
		return errors.Wrap(err, "migration failed for CaseRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.CaseEvent{}); err != nil {
		return errors.Wrap(err, "migration failed for CaseEvent")
	}
	if err := DB.AutoMigrate(&dbmodels.RefCounter{}); err != nil {
		return errors.Wrap(err, "migration failed for RefCounter")
	}
	if err := DB.AutoMigrate(&dbmodels.NotifyPolicy{}); err != nil {
		return errors.Wrap(err, "migration failed for NotifyPolicy")
	}
	if err := DB.AutoMigrate(&dbmodels.MailOutbox{}); err != nil {
		return errors.Wrap(err, "migration failed for MailOutbox")
	}
	if err := DB.AutoMigrate(&dbmodels.DigestQueueItem{}); err != nil {
		return errors.Wrap(err, "migration failed for DigestQueueItem")
	}
	if err := DB.AutoMigrate(&dbmodels.UserNotification{}); err != nil {
		return errors.Wrap(err, "migration failed for UserNotification")
	}
	log.Info("migrations finished")
	return nil
}
