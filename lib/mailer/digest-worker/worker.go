package digestworker

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"case-flow-backend/config"
	"case-flow-backend/db"
	"case-flow-backend/lib/notify"
	notifytemplate "case-flow-backend/lib/notify-template"
	digeststore "case-flow-backend/lib/notify/digest-store"
	policystore "case-flow-backend/lib/policy/store"
	baseworker "case-flow-backend/lib/utils/base-worker"
	"case-flow-backend/models"
	dbmodels "case-flow-backend/models/db"
)

var digestSubject = map[models.LangCode]string{
	models.LangEN: "Daily case digest %s",
	models.LangFR: "Récapitulatif quotidien des dossiers %s",
	models.LangZH: "需求单每日摘要 %s",
}

var digestIntro = map[models.LangCode]string{
	models.LangEN: "The following case updates accumulated for %s:",
	models.LangFR: "Les mises à jour suivantes se sont accumulées pour le %s :",
	models.LangZH: "以下是 %s 累积的需求单更新：",
}

// Worker merges due digest queue items into one mail per day, language and
// role group, and sends them once the business-day cutoff has passed.
type Worker struct {
	baseworker.BaseImpl
	digest digeststore.Provider
	policy policystore.Provider
	loc    *time.Location
}

func NewInstance(firstRunDelay, runInterval time.Duration) *Worker {
	loc, err := time.LoadLocation(config.Conf.Notify.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Worker{
		BaseImpl: *baseworker.NewInstance("mail-digest", firstRunDelay, runInterval),
		digest:   digeststore.NewInstance(db.DB),
		policy:   policystore.NewInstance(db.DB),
		loc:      loc,
	}
}

func (w Worker) Start(ctx context.Context) {
	w.Run(ctx, w.job)
}

func (w Worker) job(_ context.Context) {
	logger := w.GetLogger()
	policy, err := w.policy.Get()
	if err != nil {
		logger.WithError(err).Error("failed to load notification policy")
		return
	}
	if policy == nil || !policy.Enabled {
		return
	}

	// everything dated before the current digest day is past its cutoff
	today := notify.DigestDate(time.Now(), w.loc, config.Conf.Notify.DigestCutoffHour)
	due, err := w.digest.ListDue(beforeDay(today))
	if err != nil {
		logger.WithError(err).Error("failed to list due digest items")
		return
	}
	if len(due) == 0 {
		return
	}

	dialer, err := newDialer()
	if err != nil {
		logger.WithError(err).Error("smtp is not configured for digest sending")
		return
	}

	for _, batch := range groupItems(due) {
		batchLogger := logger.WithField("digest_date", batch.date).
			WithField("lang", string(batch.lang)).
			WithField("role", string(batch.role))
		msg := gomail.NewMessage()
		msg.SetHeader("From", policy.SenderEmail)
		msg.SetHeader("To", batch.emails...)
		msg.SetHeader("Subject", fmt.Sprintf(subjectFor(batch.lang), batch.date))
		msg.SetBody("text/html", renderBody(batch))

		if err = dialer.DialAndSend(msg); err != nil {
			batchLogger.WithError(err).Error("failed to send digest, will retry")
			continue
		}
		if err = w.digest.Delete(batch.itemIDs); err != nil {
			batchLogger.WithError(err).Error("failed to delete sent digest items")
			continue
		}
		batchLogger.WithField("items", len(batch.itemIDs)).Info("digest sent")
	}
}

type digestBatch struct {
	date    string
	lang    models.LangCode
	role    models.NotifyRole
	emails  []string
	items   []dbmodels.DigestQueueItem
	itemIDs []string
}

// groupItems merges items by (date, lang, role), keeping the input order of
// events inside each batch.
func groupItems(due []dbmodels.DigestQueueItem) []*digestBatch {
	byKey := map[string]*digestBatch{}
	order := []*digestBatch{}
	for _, item := range due {
		key := item.DigestDate + "|" + string(item.Lang) + "|" + string(item.Role)
		batch, ok := byKey[key]
		if !ok {
			batch = &digestBatch{
				date: item.DigestDate,
				lang: item.Lang,
				role: item.Role,
			}
			byKey[key] = batch
			order = append(order, batch)
		}
		batch.items = append(batch.items, item)
		batch.itemIDs = append(batch.itemIDs, item.ID)
		for _, email := range item.ToEmails {
			if !containsString(batch.emails, email) {
				batch.emails = append(batch.emails, email)
			}
		}
	}
	return order
}

func renderBody(batch *digestBatch) string {
	var sb strings.Builder
	sb.WriteString("<p>")
	sb.WriteString(fmt.Sprintf(introFor(batch.lang), batch.date))
	sb.WriteString("</p><ul>")
	for _, item := range batch.items {
		line := fmt.Sprintf("<li><b>%s</b>: %s → %s (%s)",
			item.RefNo,
			notifytemplate.StatusLabel(batch.lang, item.PrevStatus),
			notifytemplate.StatusLabel(batch.lang, item.Status),
			item.ActorName)
		if item.Comment != "" {
			line += fmt.Sprintf(": %s", item.Comment)
		}
		line += "</li>"
		sb.WriteString(line)
	}
	sb.WriteString("</ul>")
	return sb.String()
}

func newDialer() (*gomail.Dialer, error) {
	conf := config.Conf.Smtp
	if conf.Host == "" || conf.Port == "" {
		return nil, fmt.Errorf("smtp host or port is empty")
	}
	port, err := strconv.Atoi(conf.Port)
	if err != nil {
		return nil, fmt.Errorf("bad smtp port %q: %w", conf.Port, err)
	}
	return gomail.NewDialer(conf.Host, port, conf.User, conf.Password), nil
}

// beforeDay returns the calendar day before a 2006-01-02 date string.
func beforeDay(day string) string {
	parsed, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return parsed.AddDate(0, 0, -1).Format("2006-01-02")
}

func subjectFor(lang models.LangCode) string {
	if subject, ok := digestSubject[lang]; ok {
		return subject
	}
	return digestSubject[models.BaseLang]
}

func introFor(lang models.LangCode) string {
	if intro, ok := digestIntro[lang]; ok {
		return intro
	}
	return digestIntro[models.BaseLang]
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
