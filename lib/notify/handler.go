package notify

import (
	"time"

	log "github.com/sirupsen/logrus"

	"case-flow-backend/config"
	"case-flow-backend/db"
	notifytemplate "case-flow-backend/lib/notify-template"
	digeststore "case-flow-backend/lib/notify/digest-store"
	inappstore "case-flow-backend/lib/notify/inapp-store"
	outboxstore "case-flow-backend/lib/notify/outbox-store"
	policystore "case-flow-backend/lib/policy/store"
	"case-flow-backend/lib/smtp"
	usersstore "case-flow-backend/lib/users/store"
	connectionhub "case-flow-backend/lib/ws/hub/connection-hub"
	"case-flow-backend/models"
	dbmodels "case-flow-backend/models/db"
	wsmodels "case-flow-backend/models/ws"
)

// Event is one lifecycle fact to fan out. Status carries the raw status the
// actor chose, even when the persisted case already rests elsewhere.
type Event struct {
	Case       *dbmodels.CaseRequest
	CaseID     string
	EventCode  models.NotifyEventCode
	Status     models.CaseStatus
	PrevStatus models.CaseStatus
	ActorID    string
	ActorName  string
	Comment    string
	At         time.Time
}

// Outcome reports what a dispatch call enqueued. Nothing in it is an error:
// a disabled policy or unconfigured mail yields the zero Outcome.
type Outcome struct {
	ImmediateEnqueued bool
	DigestEnqueued    int
	InAppEnqueued     int
}

type Provider interface {
	Dispatch(event Event) Outcome
}

var Instance Provider

func NewHandler() {
	loc, err := time.LoadLocation(config.Conf.Notify.Timezone)
	if err != nil {
		log.WithError(err).WithField("timezone", config.Conf.Notify.Timezone).
			Error("unknown business timezone, falling back to UTC")
		loc = time.UTC
	}
	Instance = &impl{
		policyStore: policystore.NewInstance(db.DB),
		users:       usersstore.NewInstance(db.DB),
		outbox:      outboxstore.NewInstance(db.DB),
		digest:      digeststore.NewInstance(db.DB),
		inapp:       inappstore.NewInstance(db.DB),
		loc:         loc,
		cutoffHour:  config.Conf.Notify.DigestCutoffHour,
		mailReady: func() bool {
			return smtp.Instance != nil && smtp.Instance.IsConfigured()
		},
		push: func(msg wsmodels.ServerMessage) {
			if connectionhub.Instance != nil {
				connectionhub.Instance.SendMessage(msg)
			}
		},
	}
}

// NewInstanceWith builds a dispatcher with explicit collaborators.
func NewInstanceWith(
	policyStore policystore.Provider,
	users usersstore.Provider,
	outbox outboxstore.Provider,
	digest digeststore.Provider,
	inapp inappstore.Provider,
	loc *time.Location,
	cutoffHour int,
	mailReady func() bool,
	push func(msg wsmodels.ServerMessage),
) Provider {
	return &impl{
		policyStore: policyStore,
		users:       users,
		outbox:      outbox,
		digest:      digest,
		inapp:       inapp,
		loc:         loc,
		cutoffHour:  cutoffHour,
		mailReady:   mailReady,
		push:        push,
	}
}

type impl struct {
	policyStore policystore.Provider
	users       usersstore.Provider
	outbox      outboxstore.Provider
	digest      digeststore.Provider
	inapp       inappstore.Provider
	loc         *time.Location
	cutoffHour  int
	mailReady   func() bool
	push        func(msg wsmodels.ServerMessage)
}

// Dispatch fans one event out to the immediate outbox, the digest queue and
// the in-app feed. Failures are logged per channel and never abort the
// lifecycle change that produced the event.
func (i *impl) Dispatch(event Event) Outcome {
	logger := log.WithField("case_id", event.CaseID).
		WithField("event", string(event.EventCode)).
		WithField("status", string(event.Status))

	policy, err := i.policyStore.Get()
	if err != nil {
		logger.WithError(err).Error("failed to load notification policy")
		return Outcome{}
	}
	if policy == nil || !policy.Enabled {
		logger.Debug("notifications disabled, skipping dispatch")
		return Outcome{}
	}
	if !i.mailReady() {
		logger.Warn("smtp is not configured, skipping dispatch")
		return Outcome{}
	}

	out := Outcome{}
	immediate, digestByRole := resolveRecipients(policy, event.Status)

	for _, group := range i.groupByLanguage(immediate) {
		vars := templateVars(event, group.Lang)
		tpl := notifytemplate.Render(policy.Templates, event.EventCode, group.Lang, vars)
		_, err := i.outbox.Create(dbmodels.MailOutbox{
			EventCode: event.EventCode,
			CaseID:    event.CaseID,
			RefNo:     refNo(event),
			Lang:      group.Lang,
			ToEmails:  group.Emails,
			Subject:   tpl.Subject,
			BodyHTML:  tpl.Body,
		})
		if err != nil {
			logger.WithError(err).WithField("lang", string(group.Lang)).Error("failed to enqueue immediate mail")
			continue
		}
		out.ImmediateEnqueued = true
	}

	digestDate := DigestDate(event.At, i.loc, i.cutoffHour)
	for _, role := range models.NotifyRoles {
		emails, ok := digestByRole[role]
		if !ok {
			continue
		}
		for _, group := range i.groupByLanguage(emails) {
			_, err := i.digest.Create(dbmodels.DigestQueueItem{
				EventCode:  event.EventCode,
				CaseID:     event.CaseID,
				RefNo:      refNo(event),
				Role:       role,
				Status:     event.Status,
				PrevStatus: event.PrevStatus,
				ActorName:  event.ActorName,
				Comment:    event.Comment,
				ToEmails:   group.Emails,
				Lang:       group.Lang,
				DigestDate: digestDate,
				EventAt:    event.At,
			})
			if err != nil {
				logger.WithError(err).WithField("role", string(role)).Error("failed to enqueue digest item")
				continue
			}
			out.DigestEnqueued++
		}
	}

	out.InAppEnqueued = i.dispatchInApp(policy, event, logger)
	return out
}

// dispatchInApp writes one feed row per addressed active user. The feed
// always follows the built-in status table; flowMap overrides apply to mail
// only. The acting user is skipped.
func (i *impl) dispatchInApp(policy *dbmodels.NotifyPolicy, event Event, logger *log.Entry) int {
	roles := models.StatusNotifyRoles(event.Status).Roles()
	if event.EventCode == models.EventCaseAmended && len(roles) == 0 {
		roles = models.StatusNotifyRoles(models.CaseStatusSubmitted).Roles()
	}
	if len(roles) == 0 {
		return 0
	}
	users, err := i.users.ListActiveByRoles(models.RolesForNotifyGroups(roles))
	if err != nil {
		logger.WithError(err).Error("failed to list feed recipients")
		return 0
	}

	count := 0
	for _, user := range users {
		if user.ID == event.ActorID {
			continue
		}
		lang := user.Lang
		if !lang.IsKnown() {
			lang = models.BaseLang
		}
		vars := templateVars(event, lang)
		title := notifytemplate.Render(policy.Templates, event.EventCode, lang, vars).Subject
		body := notifytemplate.Fill(inAppBodyText(event.EventCode, lang), vars)
		caseID := event.CaseID
		rec := dbmodels.UserNotification{
			UserID:    user.ID,
			EventCode: event.EventCode,
			Title:     title,
			Body:      body,
			CaseID:    &caseID,
			Payload: dbmodels.NotificationPayload{
				RefNo:      refNo(event),
				ClientName: clientName(event),
				Status:     string(event.Status),
				PrevStatus: string(event.PrevStatus),
				ActorName:  event.ActorName,
			},
		}
		id, err := i.inapp.Create(rec)
		if err != nil {
			logger.WithError(err).WithField("user_id", user.ID).Error("failed to create feed notification")
			continue
		}
		count++
		if i.push != nil {
			i.push(wsmodels.ServerMessage{
				ToUserID: user.ID,
				ID:       id,
				Code:     event.EventCode,
				Title:    title,
				Body:     body,
				CaseID:   event.CaseID,
			})
		}
	}
	return count
}

// inAppBody holds the short feed phrases per event and language.
var inAppBody = map[models.NotifyEventCode]map[models.LangCode]string{
	models.EventStatusChanged: {
		models.LangEN: "{{actor}} moved case {{ref_no}} from {{prev_status}} to {{status}}.",
		models.LangFR: "{{actor}} a fait passer le dossier {{ref_no}} de {{prev_status}} à {{status}}.",
		models.LangZH: "{{actor}} 将需求单 {{ref_no}} 从“{{prev_status}}”变更为“{{status}}”。",
	},
	models.EventCaseAmended: {
		models.LangEN: "{{actor}} amended the details of case {{ref_no}}.",
		models.LangFR: "{{actor}} a modifié les détails du dossier {{ref_no}}.",
		models.LangZH: "{{actor}} 修改了需求单 {{ref_no}} 的内容。",
	},
}

func inAppBodyText(event models.NotifyEventCode, lang models.LangCode) string {
	if text, ok := inAppBody[event][lang]; ok {
		return text
	}
	return inAppBody[event][models.BaseLang]
}

func templateVars(event Event, lang models.LangCode) map[string]string {
	vars := map[string]string{
		"ref_no":  refNo(event),
		"client":  clientName(event),
		"status":  notifytemplate.StatusLabel(lang, event.Status),
		"actor":   event.ActorName,
		"comment": event.Comment,
	}
	if event.Case != nil {
		vars["product"] = event.Case.ProductName
	}
	if event.PrevStatus != "" {
		vars["prev_status"] = notifytemplate.StatusLabel(lang, event.PrevStatus)
	} else {
		vars["prev_status"] = ""
	}
	return vars
}

func refNo(event Event) string {
	if event.Case != nil {
		return event.Case.RefNo
	}
	return ""
}

func clientName(event Event) string {
	if event.Case != nil {
		return event.Case.ClientName
	}
	return ""
}
