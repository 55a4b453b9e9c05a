package notifytemplate

import (
	"regexp"
	"strings"

	"case-flow-backend/models"
	dbmodels "case-flow-backend/models/db"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*[a-zA-Z0-9_.]+\s*\}\}`)

// Render resolves the template for an event and language and substitutes
// the variables. Resolution order: language-keyed override > legacy
// single-language override (base language only, so an old override cannot
// clobber other languages) > built-in default for the language > built-in
// default for the base language.
func Render(overrides dbmodels.TemplateOverrides, event models.NotifyEventCode, lang models.LangCode, vars map[string]string) Template {
	tpl := resolve(overrides, event, lang)
	return Template{
		Subject: substitute(tpl.Subject, vars),
		Body:    substitute(tpl.Body, vars),
	}
}

func resolve(overrides dbmodels.TemplateOverrides, event models.NotifyEventCode, lang models.LangCode) Template {
	if ov, ok := overrides[string(event)]; ok {
		if def, ok := ov.ByLang[string(lang)]; ok && def.Subject != "" {
			return Template{Subject: def.Subject, Body: def.Body}
		}
		if lang == models.BaseLang && ov.Subject != "" {
			return Template{Subject: ov.Subject, Body: ov.Body}
		}
	}
	if tpl, ok := defaultTemplates[event][lang]; ok {
		return tpl
	}
	return defaultTemplates[event][models.BaseLang]
}

// Fill substitutes variables into a free-standing text, with the same token
// rules Render uses.
func Fill(text string, vars map[string]string) string {
	return substitute(text, vars)
}

// substitute replaces literal {{name}} tokens in a single pass over the
// source text, so substituted values are never re-scanned for tokens.
// Variables missing from vars render as empty string, never as the raw
// token.
func substitute(text string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(token string) string {
		name := strings.TrimSpace(token[2 : len(token)-2])
		return vars[name]
	})
}

// StatusLabel translates a status code to its human label for the language,
// falling back to the base language table and then to Humanize for codes
// missing from both.
func StatusLabel(lang models.LangCode, status models.CaseStatus) string {
	if label, ok := statusLabels[lang][status]; ok {
		return label
	}
	if label, ok := statusLabels[models.BaseLang][status]; ok {
		return label
	}
	return Humanize(string(status))
}

// Humanize turns a snake_case code into a title-cased phrase.
func Humanize(code string) string {
	words := strings.Split(strings.ReplaceAll(code, "_", " "), " ")
	for idx, word := range words {
		if word == "" {
			continue
		}
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
