package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"case-flow-backend/models"
	dbmodels "case-flow-backend/models/db"
	wsmodels "case-flow-backend/models/ws"
)

type fakePolicyStore struct {
	policy *dbmodels.NotifyPolicy
}

func (f *fakePolicyStore) Get() (*dbmodels.NotifyPolicy, error) { return f.policy, nil }
func (f *fakePolicyStore) Save(rec dbmodels.NotifyPolicy) error { f.policy = &rec; return nil }

type fakeUsersStore struct {
	users []dbmodels.StaffUser
	langs map[string]models.LangCode
}

func (f *fakeUsersStore) GetByID(id string) (*dbmodels.StaffUser, error) {
	for idx := range f.users {
		if f.users[idx].ID == id {
			return &f.users[idx], nil
		}
	}
	return nil, nil
}

func (f *fakeUsersStore) FindByEmail(email string) (*dbmodels.StaffUser, error) { return nil, nil }

func (f *fakeUsersStore) ListActiveByRoles(roles []models.UserRole) ([]dbmodels.StaffUser, error) {
	list := []dbmodels.StaffUser{}
	for _, user := range f.users {
		if !user.IsActive {
			continue
		}
		for _, role := range roles {
			if user.Role == role {
				list = append(list, user)
				break
			}
		}
	}
	return list, nil
}

func (f *fakeUsersStore) LangsByEmails(emails []string) (map[string]models.LangCode, error) {
	return f.langs, nil
}

func (f *fakeUsersStore) Update(id string, updMap map[string]interface{}) error { return nil }

type fakeOutboxStore struct {
	rows []dbmodels.MailOutbox
}

func (f *fakeOutboxStore) Create(rec dbmodels.MailOutbox) (string, error) {
	f.rows = append(f.rows, rec)
	return "outbox-1", nil
}
func (f *fakeOutboxStore) List(limit int) ([]dbmodels.MailOutbox, error) { return f.rows, nil }
func (f *fakeOutboxStore) Delete(id string) error                        { return nil }

type fakeDigestStore struct {
	rows []dbmodels.DigestQueueItem
}

func (f *fakeDigestStore) Create(rec dbmodels.DigestQueueItem) (string, error) {
	f.rows = append(f.rows, rec)
	return "digest-1", nil
}
func (f *fakeDigestStore) ListDue(maxDigestDate string) ([]dbmodels.DigestQueueItem, error) {
	return f.rows, nil
}
func (f *fakeDigestStore) Delete(ids []string) error { return nil }

type fakeInAppStore struct {
	rows []dbmodels.UserNotification
}

func (f *fakeInAppStore) Create(rec dbmodels.UserNotification) (string, error) {
	f.rows = append(f.rows, rec)
	return "feed-1", nil
}
func (f *fakeInAppStore) List(userID string, onlyUnread bool, limit int) ([]dbmodels.UserNotification, error) {
	return f.rows, nil
}
func (f *fakeInAppStore) UnreadCount(userID string) (int64, error) { return int64(len(f.rows)), nil }
func (f *fakeInAppStore) MarkRead(userID, id string) error         { return nil }
func (f *fakeInAppStore) MarkAllRead(userID string) error          { return nil }

type dispatcherFixture struct {
	policy *fakePolicyStore
	users  *fakeUsersStore
	outbox *fakeOutboxStore
	digest *fakeDigestStore
	inapp  *fakeInAppStore
	pushed []wsmodels.ServerMessage
	disp   Provider
}

func newFixture(policy *dbmodels.NotifyPolicy, mailReady bool) *dispatcherFixture {
	f := &dispatcherFixture{
		policy: &fakePolicyStore{policy: policy},
		users:  &fakeUsersStore{langs: map[string]models.LangCode{}},
		outbox: &fakeOutboxStore{},
		digest: &fakeDigestStore{},
		inapp:  &fakeInAppStore{},
	}
	f.disp = NewInstanceWith(
		f.policy, f.users, f.outbox, f.digest, f.inapp,
		time.UTC, 16,
		func() bool { return mailReady },
		func(msg wsmodels.ServerMessage) { f.pushed = append(f.pushed, msg) },
	)
	return f
}

func enabledPolicy() *dbmodels.NotifyPolicy {
	return &dbmodels.NotifyPolicy{
		Enabled:       true,
		SenderEmail:   "noreply@example.com",
		SalesEmails:   []string{"sales1@example.com", "sales2@example.com"},
		DesignEmails:  []string{"design@example.com"},
		CostingEmails: []string{"costing@example.com"},
		AdminEmails:   []string{"gm@example.com"},
	}
}

func caseFixture() *dbmodels.CaseRequest {
	rec := &dbmodels.CaseRequest{
		RefNo:       "CR260101001",
		Status:      models.CaseStatusSubmitted,
		ClientName:  "Acme",
		ProductName: "Widget",
	}
	rec.ID = "case-1"
	return rec
}

func statusEvent(status, prev models.CaseStatus) Event {
	return Event{
		Case:       caseFixture(),
		CaseID:     "case-1",
		EventCode:  models.EventStatusChanged,
		Status:     status,
		PrevStatus: prev,
		ActorID:    "actor-1",
		ActorName:  "Jane Doe",
		At:         time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestDispatchGating(t *testing.T) {
	t.Run(`no policy is a silent no-op`, func(t *testing.T) {
		f := newFixture(nil, true)
		out := f.disp.Dispatch(statusEvent(models.CaseStatusSubmitted, models.CaseStatusDraft))
		require.Equal(t, Outcome{}, out)
		require.Empty(t, f.outbox.rows)
		require.Empty(t, f.inapp.rows)
	})

	t.Run(`disabled policy is a silent no-op`, func(t *testing.T) {
		policy := enabledPolicy()
		policy.Enabled = false
		f := newFixture(policy, true)
		out := f.disp.Dispatch(statusEvent(models.CaseStatusSubmitted, models.CaseStatusDraft))
		require.Equal(t, Outcome{}, out)
		require.Empty(t, f.outbox.rows)
	})

	t.Run(`unconfigured mail skips everything including the feed`, func(t *testing.T) {
		f := newFixture(enabledPolicy(), false)
		f.users.users = []dbmodels.StaffUser{activeUser("u1", models.UserRoleDesign, "en")}
		out := f.disp.Dispatch(statusEvent(models.CaseStatusSubmitted, models.CaseStatusDraft))
		require.Equal(t, Outcome{}, out)
		require.Empty(t, f.inapp.rows)
	})
}

func activeUser(id string, role models.UserRole, lang models.LangCode) dbmodels.StaffUser {
	user := dbmodels.StaffUser{
		FirstName: "User",
		LastName:  id,
		Email:     id + "@example.com",
		IsActive:  true,
		Role:      role,
		Lang:      lang,
	}
	user.ID = id
	return user
}

func TestDispatchRouting(t *testing.T) {
	t.Run(`submitted goes immediate to design, digest to admin`, func(t *testing.T) {
		f := newFixture(enabledPolicy(), true)
		out := f.disp.Dispatch(statusEvent(models.CaseStatusSubmitted, models.CaseStatusDraft))

		require.True(t, out.ImmediateEnqueued)
		require.Len(t, f.outbox.rows, 1)
		require.Equal(t, []string{"design@example.com"}, []string(f.outbox.rows[0].ToEmails))

		require.Equal(t, 1, out.DigestEnqueued)
		require.Len(t, f.digest.rows, 1)
		require.Equal(t, models.NotifyRoleAdmin, f.digest.rows[0].Role)
		require.Equal(t, []string{"gm@example.com"}, []string(f.digest.rows[0].ToEmails))
	})

	t.Run(`gm approval pending mails admin immediately`, func(t *testing.T) {
		f := newFixture(enabledPolicy(), true)
		out := f.disp.Dispatch(statusEvent(models.CaseStatusGMApprovalPending, models.CaseStatusCostingComplete))

		require.True(t, out.ImmediateEnqueued)
		require.Zero(t, out.DigestEnqueued)
		require.Len(t, f.outbox.rows, 1)
		require.Equal(t, []string{"gm@example.com"}, []string(f.outbox.rows[0].ToEmails))
	})

	t.Run(`clarification needed addresses sales only`, func(t *testing.T) {
		f := newFixture(enabledPolicy(), true)
		out := f.disp.Dispatch(statusEvent(models.CaseStatusClarificationNeeded, models.CaseStatusUnderReview))

		require.True(t, out.ImmediateEnqueued)
		require.Zero(t, out.DigestEnqueued)
		require.Len(t, f.outbox.rows, 1)
		require.Equal(t, []string{"sales1@example.com", "sales2@example.com"}, []string(f.outbox.rows[0].ToEmails))
	})

	t.Run(`flow override replaces the whole role row for mail`, func(t *testing.T) {
		policy := enabledPolicy()
		policy.FlowMap = dbmodels.FlowOverrides{
			string(models.CaseStatusSubmitted): {Costing: true},
		}
		f := newFixture(policy, true)
		out := f.disp.Dispatch(statusEvent(models.CaseStatusSubmitted, models.CaseStatusDraft))

		require.True(t, out.ImmediateEnqueued)
		require.Zero(t, out.DigestEnqueued)
		require.Len(t, f.outbox.rows, 1)
		require.Equal(t, []string{"costing@example.com"}, []string(f.outbox.rows[0].ToEmails))
	})

	t.Run(`test mode collapses recipients to the test address`, func(t *testing.T) {
		policy := enabledPolicy()
		policy.TestMode = true
		policy.TestEmail = "qa@example.com"
		f := newFixture(policy, true)
		f.disp.Dispatch(statusEvent(models.CaseStatusSubmitted, models.CaseStatusDraft))

		require.Len(t, f.outbox.rows, 1)
		require.Equal(t, []string{"qa@example.com"}, []string(f.outbox.rows[0].ToEmails))
		require.Len(t, f.digest.rows, 1)
		require.Equal(t, []string{"qa@example.com"}, []string(f.digest.rows[0].ToEmails))
	})

	t.Run(`shared address across immediate roles gets one mail`, func(t *testing.T) {
		policy := enabledPolicy()
		policy.SalesEmails = []string{"shared@example.com"}
		policy.CostingEmails = []string{"Shared@Example.com", "costing@example.com"}
		f := newFixture(policy, true)
		// feasibility_confirmed addresses sales, costing and admin
		f.disp.Dispatch(statusEvent(models.CaseStatusFeasibilityConfirmed, models.CaseStatusUnderReview))

		require.Len(t, f.outbox.rows, 1)
		require.Equal(t, []string{"shared@example.com", "costing@example.com"}, []string(f.outbox.rows[0].ToEmails))
	})
}

func TestDispatchLanguageGroups(t *testing.T) {
	t.Run(`one outbox row per recipient language`, func(t *testing.T) {
		f := newFixture(enabledPolicy(), true)
		f.users.langs = map[string]models.LangCode{
			"sales1@example.com": models.LangFR,
			"sales2@example.com": models.LangEN,
		}
		f.disp.Dispatch(statusEvent(models.CaseStatusUnderReview, models.CaseStatusSubmitted))

		require.Len(t, f.outbox.rows, 2)
		require.Equal(t, models.LangEN, f.outbox.rows[0].Lang)
		require.Equal(t, []string{"sales2@example.com"}, []string(f.outbox.rows[0].ToEmails))
		require.Equal(t, models.LangFR, f.outbox.rows[1].Lang)
		require.Equal(t, []string{"sales1@example.com"}, []string(f.outbox.rows[1].ToEmails))
	})

	t.Run(`unknown preference falls back to base language`, func(t *testing.T) {
		f := newFixture(enabledPolicy(), true)
		f.users.langs = map[string]models.LangCode{"sales1@example.com": "de"}
		f.disp.Dispatch(statusEvent(models.CaseStatusUnderReview, models.CaseStatusSubmitted))

		require.Len(t, f.outbox.rows, 1)
		require.Equal(t, models.LangEN, f.outbox.rows[0].Lang)
		require.ElementsMatch(t, []string{"sales1@example.com", "sales2@example.com"}, []string(f.outbox.rows[0].ToEmails))
	})
}

func TestDispatchInApp(t *testing.T) {
	t.Run(`feed rows for addressed roles, actor excluded`, func(t *testing.T) {
		f := newFixture(enabledPolicy(), true)
		f.users.users = []dbmodels.StaffUser{
			activeUser("actor-1", models.UserRoleDesign, "en"),
			activeUser("design-2", models.UserRoleDesign, "fr"),
			activeUser("admin-1", models.UserRoleAdmin, "en"),
		}
		out := f.disp.Dispatch(statusEvent(models.CaseStatusSubmitted, models.CaseStatusDraft))

		require.Equal(t, 2, out.InAppEnqueued)
		require.Len(t, f.inapp.rows, 2)
		for _, row := range f.inapp.rows {
			require.NotEqual(t, "actor-1", row.UserID)
			require.Equal(t, "CR260101001", row.Payload.RefNo)
		}
		require.Len(t, f.pushed, 2)
	})

	t.Run(`feed ignores flow overrides`, func(t *testing.T) {
		policy := enabledPolicy()
		policy.FlowMap = dbmodels.FlowOverrides{
			string(models.CaseStatusSubmitted): {Costing: true},
		}
		f := newFixture(policy, true)
		f.users.users = []dbmodels.StaffUser{
			activeUser("design-2", models.UserRoleDesign, "en"),
			activeUser("costing-1", models.UserRoleCosting, "en"),
		}
		out := f.disp.Dispatch(statusEvent(models.CaseStatusSubmitted, models.CaseStatusDraft))

		// built-in table says submitted speaks to design and admin
		require.Equal(t, 1, out.InAppEnqueued)
		require.Equal(t, "design-2", f.inapp.rows[0].UserID)
	})
}

func TestDigestDate(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)

	t.Run(`before cutoff stays on the same day`, func(t *testing.T) {
		at := time.Date(2026, 1, 5, 15, 59, 59, 0, est)
		require.Equal(t, "2026-01-05", DigestDate(at, est, 16))
	})

	t.Run(`at cutoff rolls to the next day`, func(t *testing.T) {
		at := time.Date(2026, 1, 5, 16, 0, 0, 0, est)
		require.Equal(t, "2026-01-06", DigestDate(at, est, 16))
	})

	t.Run(`instant converts into the business zone first`, func(t *testing.T) {
		// 20:30 UTC is 15:30 EST, before the cutoff
		at := time.Date(2026, 1, 5, 20, 30, 0, 0, time.UTC)
		require.Equal(t, "2026-01-05", DigestDate(at, est, 16))
		// 21:30 UTC is 16:30 EST, past the cutoff
		at = time.Date(2026, 1, 5, 21, 30, 0, 0, time.UTC)
		require.Equal(t, "2026-01-06", DigestDate(at, est, 16))
	})

	t.Run(`digest row carries the rolled date`, func(t *testing.T) {
		f := newFixture(enabledPolicy(), true)
		event := statusEvent(models.CaseStatusSubmitted, models.CaseStatusDraft)
		event.At = time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC)
		f.disp.Dispatch(event)
		require.Len(t, f.digest.rows, 1)
		require.Equal(t, "2026-01-06", f.digest.rows[0].DigestDate)
	})
}
