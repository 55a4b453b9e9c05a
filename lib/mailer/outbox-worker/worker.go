package outboxworker

import (
	"context"
	"time"

	"case-flow-backend/db"
	outboxstore "case-flow-backend/lib/notify/outbox-store"
	policystore "case-flow-backend/lib/policy/store"
	"case-flow-backend/lib/smtp"
	baseworker "case-flow-backend/lib/utils/base-worker"
)

const sendBatchSize = 50

// Worker drains the immediate outbox: one SMTP send per row, delete on
// success. Failed rows stay queued and are retried on the next tick.
type Worker struct {
	baseworker.BaseImpl
	outbox outboxstore.Provider
	policy policystore.Provider
}

func NewInstance(firstRunDelay, runInterval time.Duration) *Worker {
	return &Worker{
		BaseImpl: *baseworker.NewInstance("mail-outbox", firstRunDelay, runInterval),
		outbox:   outboxstore.NewInstance(db.DB),
		policy:   policystore.NewInstance(db.DB),
	}
}

func (w Worker) Start(ctx context.Context) {
	w.Run(ctx, w.job)
}

func (w Worker) job(_ context.Context) {
	logger := w.GetLogger()
	if smtp.Instance == nil || !smtp.Instance.IsConfigured() {
		return
	}
	policy, err := w.policy.Get()
	if err != nil {
		logger.WithError(err).Error("failed to load notification policy")
		return
	}
	if policy == nil || !policy.Enabled {
		return
	}

	list, err := w.outbox.List(sendBatchSize)
	if err != nil {
		logger.WithError(err).Error("failed to list outbox")
		return
	}
	for _, rec := range list {
		recLogger := logger.WithField("mail_id", rec.ID).WithField("case_id", rec.CaseID)
		err = smtp.Instance.SendEMail(policy.SenderEmail, rec.ToEmails, rec.Subject, rec.BodyHTML)
		if err != nil {
			recLogger.WithError(err).Error("failed to send mail, will retry")
			continue
		}
		if err = w.outbox.Delete(rec.ID); err != nil {
			recLogger.WithError(err).Error("failed to delete sent mail")
		}
	}
}
