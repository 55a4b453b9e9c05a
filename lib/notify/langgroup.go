package notify

import (
	"time"

	log "github.com/sirupsen/logrus"

	"case-flow-backend/models"
)

// LangGroup is one mail audience sharing a notification language.
type LangGroup struct {
	Lang   models.LangCode
	Emails []string
}

// groupByLanguage splits addresses by the recipients' stored language
// preference. Addresses without an account, or with an unknown language,
// fall back to the base language. A lookup failure degrades to a single
// base-language group rather than dropping the mail.
func (i *impl) groupByLanguage(emails []string) []LangGroup {
	if len(emails) == 0 {
		return nil
	}
	langs, err := i.users.LangsByEmails(emails)
	if err != nil {
		log.WithError(err).Warn("language lookup failed, falling back to base language")
		return []LangGroup{{Lang: models.BaseLang, Emails: emails}}
	}
	byLang := map[models.LangCode][]string{}
	for _, email := range emails {
		lang, ok := langs[email]
		if !ok || !lang.IsKnown() {
			lang = models.BaseLang
		}
		byLang[lang] = append(byLang[lang], email)
	}
	groups := make([]LangGroup, 0, len(byLang))
	for _, lang := range models.LangOrder {
		if list, ok := byLang[lang]; ok {
			groups = append(groups, LangGroup{Lang: lang, Emails: list})
		}
	}
	return groups
}

// DigestDate computes the business-zone digest day for an event instant.
// Events at or past the cutoff hour roll into the next day's digest.
func DigestDate(at time.Time, loc *time.Location, cutoffHour int) string {
	local := at.In(loc)
	if local.Hour() >= cutoffHour {
		local = local.AddDate(0, 0, 1)
	}
	return local.Format("2006-01-02")
}
