package notifytemplate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"case-flow-backend/models"
	dbmodels "case-flow-backend/models/db"
)

func TestTemplateResolution(t *testing.T) {
	vars := map[string]string{
		"ref_no": "CR260101001",
		"client": "Acme",
		"status": "Submitted",
		"actor":  "Jane Doe",
	}

	t.Run(`built-in default per language`, func(t *testing.T) {
		tpl := Render(nil, models.EventStatusChanged, models.LangFR, vars)
		require.Contains(t, tpl.Subject, "Dossier CR260101001")
		require.Contains(t, tpl.Body, "Acme")
	})

	t.Run(`unknown language falls back to base`, func(t *testing.T) {
		tpl := Render(nil, models.EventStatusChanged, "de", vars)
		require.Equal(t, "Case CR260101001: Submitted", tpl.Subject)
	})

	t.Run(`legacy override applies to base language only`, func(t *testing.T) {
		overrides := dbmodels.TemplateOverrides{
			string(models.EventStatusChanged): {
				Subject: "[[{{ref_no}}]] now {{status}}",
				Body:    "changed by {{actor}}",
			},
		}
		tpl := Render(overrides, models.EventStatusChanged, models.LangEN, vars)
		require.Equal(t, "[[CR260101001]] now Submitted", tpl.Subject)
		require.Equal(t, "changed by Jane Doe", tpl.Body)

		// other languages keep their built-in template
		tpl = Render(overrides, models.EventStatusChanged, models.LangZH, vars)
		require.Contains(t, tpl.Subject, "案件 CR260101001")
	})

	t.Run(`language-keyed override wins over legacy`, func(t *testing.T) {
		overrides := dbmodels.TemplateOverrides{
			string(models.EventStatusChanged): {
				Subject: "legacy {{ref_no}}",
				Body:    "legacy body",
				ByLang: map[string]dbmodels.TemplateDef{
					"en": {Subject: "by-lang {{ref_no}}", Body: "by-lang body"},
				},
			},
		}
		tpl := Render(overrides, models.EventStatusChanged, models.LangEN, vars)
		require.Equal(t, "by-lang CR260101001", tpl.Subject)
		require.Equal(t, "by-lang body", tpl.Body)
	})

	t.Run(`override for one event does not leak to another`, func(t *testing.T) {
		overrides := dbmodels.TemplateOverrides{
			string(models.EventStatusChanged): {Subject: "custom", Body: "custom"},
		}
		tpl := Render(overrides, models.EventCaseAmended, models.LangEN, vars)
		require.Equal(t, "Case CR260101001 updated", tpl.Subject)
	})
}

func TestSubstitution(t *testing.T) {
	t.Run(`missing variables render empty`, func(t *testing.T) {
		out := Fill("ref={{ref_no}} actor={{actor}} end", map[string]string{"ref_no": "CR1"})
		require.Equal(t, "ref=CR1 actor= end", out)
	})

	t.Run(`spaced tokens are stripped`, func(t *testing.T) {
		out := Fill("a {{ unknown_token }} b", nil)
		require.Equal(t, "a  b", out)
	})

	t.Run(`no nested evaluation`, func(t *testing.T) {
		// a value that looks like a token stays literal regardless of
		// which other variables are defined
		out := Fill("{{a}}", map[string]string{"a": "{{b}}", "b": "evil"})
		require.Equal(t, "{{b}}", out)
	})

	t.Run(`substituted values are not re-scanned`, func(t *testing.T) {
		out := Fill("note: {{comment}}", map[string]string{
			"comment": "please fix {{status}} first",
			"status":  "evil",
		})
		require.Equal(t, "note: please fix {{status}} first", out)
	})
}

func TestStatusLabel(t *testing.T) {
	t.Run(`localized labels`, func(t *testing.T) {
		require.Equal(t, "Pending GM Approval", StatusLabel(models.LangEN, models.CaseStatusGMApprovalPending))
		require.Equal(t, "Brouillon", StatusLabel(models.LangFR, models.CaseStatusDraft))
	})

	t.Run(`unknown language falls back to base`, func(t *testing.T) {
		require.Equal(t, "Submitted", StatusLabel("de", models.CaseStatusSubmitted))
	})

	t.Run(`unknown code is humanized`, func(t *testing.T) {
		require.Equal(t, "Some New Stage", StatusLabel(models.LangEN, "some_new_stage"))
	})
}
