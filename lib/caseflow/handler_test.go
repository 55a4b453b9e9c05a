package caseflow

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	casestore "case-flow-backend/lib/caseflow/store"
	"case-flow-backend/lib/flow"
	"case-flow-backend/lib/notify"
	"case-flow-backend/models"
	caseapimodels "case-flow-backend/models/api/caseapi"
	dbmodels "case-flow-backend/models/db"
)

type memStore struct {
	cases  map[string]*dbmodels.CaseRequest
	events map[string][]dbmodels.CaseEvent
	nextID int
}

func newMemStore() *memStore {
	return &memStore{
		cases:  map[string]*dbmodels.CaseRequest{},
		events: map[string][]dbmodels.CaseEvent{},
	}
}

func (s *memStore) Create(rec *dbmodels.CaseRequest) (string, error) {
	s.nextID++
	rec.ID = fmt.Sprintf("case-%d", s.nextID)
	clone := *rec
	s.cases[rec.ID] = &clone
	return rec.ID, nil
}

func (s *memStore) GetByID(id string) (*dbmodels.CaseRequest, error) {
	rec, ok := s.cases[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	clone.Events = append([]dbmodels.CaseEvent{}, s.events[id]...)
	sort.SliceStable(clone.Events, func(a, b int) bool {
		return clone.Events[a].EventAt.Before(clone.Events[b].EventAt)
	})
	return &clone, nil
}

func (s *memStore) Update(id string, updMap map[string]interface{}) error {
	rec, ok := s.cases[id]
	if !ok {
		return nil
	}
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.CaseStatus)
		case "client_name":
			rec.ClientName = value.(string)
		case "product_name":
			rec.ProductName = value.(string)
		case "quantity":
			rec.Quantity = value.(int)
		case "target_price":
			rec.TargetPrice = value.(float64)
		case "currency":
			rec.Currency = value.(string)
		case "bom_folder_link":
			rec.BomFolderLink = value.(string)
		case "details":
			rec.Details = value.(string)
		}
	}
	return nil
}

func (s *memStore) Delete(id string) error {
	delete(s.cases, id)
	delete(s.events, id)
	return nil
}

func (s *memStore) List(filter caseapimodels.CaseFilter) ([]dbmodels.CaseRequest, int64, error) {
	list := []dbmodels.CaseRequest{}
	for _, rec := range s.cases {
		list = append(list, *rec)
	}
	return list, int64(len(list)), nil
}

func (s *memStore) FindDraft(creatorID, draftKey string) (*dbmodels.CaseRequest, error) {
	for _, rec := range s.cases {
		if rec.CreatorID == creatorID && rec.DraftKey == draftKey && rec.Status == models.CaseStatusDraft {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *memStore) PurgeDraftSiblings(creatorID, draftKey, exceptID string) (int64, error) {
	purged := int64(0)
	for id, rec := range s.cases {
		if id != exceptID && rec.CreatorID == creatorID && rec.DraftKey == draftKey && rec.Status == models.CaseStatusDraft {
			delete(s.cases, id)
			delete(s.events, id)
			purged++
		}
	}
	return purged, nil
}

func (s *memStore) CreateEvent(event dbmodels.CaseEvent) error {
	s.events[event.CaseID] = append(s.events[event.CaseID], event)
	return nil
}

type noopLock struct{}

func (noopLock) AcquireXact(tx *gorm.DB, key1, key2 string) error { return nil }

type engineFixture struct {
	store    *memStore
	events   []notify.Event
	engine   Provider
	now      time.Time
	refCount int
}

func newEngineFixture() *engineFixture {
	flow.NewHandler()
	f := &engineFixture{
		store: newMemStore(),
		now:   time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
	f.engine = NewInstanceWith(
		f.store,
		func(tx *gorm.DB) casestore.Provider { return f.store },
		func(fn func(tx *gorm.DB) error) error { return fn(nil) },
		noopLock{},
		flow.Instance,
		func(event notify.Event) notify.Outcome {
			f.events = append(f.events, event)
			return notify.Outcome{}
		},
		"CR",
		func(tx *gorm.DB, prefix string, day time.Time) (string, error) {
			f.refCount++
			return fmt.Sprintf("%s%s%03d", prefix, day.Format("060102"), f.refCount), nil
		},
		func() time.Time { return f.now },
	)
	return f
}

var testActor = models.Actor{ID: "user-1", Name: "Jane Doe"}

func createData(asDraft bool) caseapimodels.CaseCreateData {
	return caseapimodels.CaseCreateData{
		CaseData: caseapimodels.CaseData{
			ClientName:  "Acme",
			ProductName: "Widget",
			Quantity:    100,
		},
		AsDraft: asDraft,
	}
}

func TestCreate(t *testing.T) {
	t.Run(`direct submit creates case with history and alert`, func(t *testing.T) {
		f := newEngineFixture()
		view, created, err := f.engine.Create(testActor, "", createData(false))
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, models.CaseStatusSubmitted, view.Status)
		require.Equal(t, "CR260105001", view.RefNo)
		require.Len(t, view.Events, 1)
		require.Equal(t, models.CaseStatusSubmitted, view.Events[0].Status)
		require.Len(t, f.events, 1)
		require.Equal(t, models.EventStatusChanged, f.events[0].EventCode)
		require.Equal(t, models.CaseStatusSubmitted, f.events[0].Status)
	})

	t.Run(`draft creation sends no alert`, func(t *testing.T) {
		f := newEngineFixture()
		view, created, err := f.engine.Create(testActor, "session-1", createData(true))
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, models.CaseStatusDraft, view.Status)
		require.Empty(t, f.events)
	})

	t.Run(`repeated draft create merges into the same case`, func(t *testing.T) {
		f := newEngineFixture()
		first, created, err := f.engine.Create(testActor, "session-1", createData(true))
		require.NoError(t, err)
		require.True(t, created)

		data := createData(true)
		data.ClientName = "Acme Updated"
		second, created, err := f.engine.Create(testActor, "session-1", data)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, first.ID, second.ID)
		require.Equal(t, first.RefNo, second.RefNo)
		require.Equal(t, "Acme Updated", second.ClientName)
		require.Len(t, f.store.cases, 1)
	})

	t.Run(`submit through the draft key reuses the draft`, func(t *testing.T) {
		f := newEngineFixture()
		draft, _, err := f.engine.Create(testActor, "session-1", createData(true))
		require.NoError(t, err)

		view, created, err := f.engine.Create(testActor, "session-1", createData(false))
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, draft.ID, view.ID)
		require.Equal(t, models.CaseStatusSubmitted, view.Status)
		require.Len(t, f.events, 1)
		require.Equal(t, models.CaseStatusDraft, f.events[0].PrevStatus)
	})

	t.Run(`new case under the same key once the draft is gone`, func(t *testing.T) {
		f := newEngineFixture()
		first, _, err := f.engine.Create(testActor, "session-1", createData(false))
		require.NoError(t, err)

		second, created, err := f.engine.Create(testActor, "session-1", createData(false))
		require.NoError(t, err)
		require.True(t, created)
		require.NotEqual(t, first.ID, second.ID)
		require.NotEqual(t, first.RefNo, second.RefNo)
	})

	t.Run(`validation rejects empty client`, func(t *testing.T) {
		f := newEngineFixture()
		data := createData(false)
		data.ClientName = ""
		_, _, err := f.engine.Create(testActor, "", data)
		require.Error(t, err)
	})
}

func TestChangeStatus(t *testing.T) {
	submit := func(f *engineFixture) string {
		view, _, err := f.engine.Create(testActor, "", createData(false))
		require.NotNil(t, view)
		require.NoError(t, err)
		f.events = nil
		return view.ID
	}

	advance := func(t *testing.T, f *engineFixture, id string, statuses ...models.CaseStatus) {
		for _, status := range statuses {
			f.now = f.now.Add(time.Minute)
			_, err := f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{Status: status}, testActor)
			require.NoError(t, err, string(status))
		}
	}

	t.Run(`legal transition appends one event and alerts`, func(t *testing.T) {
		f := newEngineFixture()
		id := submit(f)
		view, err := f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{Status: models.CaseStatusUnderReview}, testActor)
		require.NoError(t, err)
		require.Equal(t, models.CaseStatusUnderReview, view.Status)
		require.Len(t, view.Events, 2)
		require.Len(t, f.events, 1)
		require.Equal(t, models.CaseStatusUnderReview, f.events[0].Status)
		require.Equal(t, models.CaseStatusSubmitted, f.events[0].PrevStatus)
	})

	t.Run(`illegal transition fails and leaves history unchanged`, func(t *testing.T) {
		f := newEngineFixture()
		id := submit(f)
		_, err := f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{Status: models.CaseStatusGMApproved}, testActor)
		require.Error(t, err)
		var illegal IllegalTransitionError
		require.ErrorAs(t, err, &illegal)
		require.Equal(t, models.CaseStatusSubmitted, illegal.From)
		require.Contains(t, illegal.Allowed, models.CaseStatusUnderReview)

		view, err := f.engine.GetByID(id)
		require.NoError(t, err)
		require.Equal(t, models.CaseStatusSubmitted, view.Status)
		require.Len(t, view.Events, 1)
		require.Empty(t, f.events)
	})

	t.Run(`unknown status is rejected before the rules`, func(t *testing.T) {
		f := newEngineFixture()
		id := submit(f)
		_, err := f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{Status: "launched"}, testActor)
		var unknown UnknownStatusError
		require.ErrorAs(t, err, &unknown)
	})

	t.Run(`cancel requires a comment`, func(t *testing.T) {
		f := newEngineFixture()
		id := submit(f)
		_, err := f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{Status: models.CaseStatusCancelled}, testActor)
		var missing MissingFieldError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "comment", missing.Field)

		_, err = f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{
			Status:  models.CaseStatusCancelled,
			Comment: "duplicate request",
		}, testActor)
		require.NoError(t, err)
	})

	t.Run(`design result requires the BOM link`, func(t *testing.T) {
		f := newEngineFixture()
		id := submit(f)
		advance(t, f, id, models.CaseStatusUnderReview, models.CaseStatusFeasibilityConfirmed)

		_, err := f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{Status: models.CaseStatusDesignResult}, testActor)
		var missing MissingFieldError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "bom_folder_link", missing.Field)

		data := caseapimodels.CaseEditData{CaseData: caseapimodels.CaseData{
			ClientName:    "Acme",
			ProductName:   "Widget",
			Quantity:      100,
			BomFolderLink: "https://files.example.com/bom/case-1",
		}}
		_, err = f.engine.Update(id, testActor, data)
		require.NoError(t, err)
		_, err = f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{Status: models.CaseStatusDesignResult}, testActor)
		require.NoError(t, err)
	})

	t.Run(`gm rejection rewrites to sales followup`, func(t *testing.T) {
		f := newEngineFixture()
		id := submit(f)
		advance(t, f, id,
			models.CaseStatusUnderReview,
			models.CaseStatusFeasibilityConfirmed,
		)
		data := caseapimodels.CaseEditData{CaseData: caseapimodels.CaseData{
			ClientName: "Acme", ProductName: "Widget", Quantity: 100,
			BomFolderLink: "https://files.example.com/bom/case-1",
		}}
		_, err := f.engine.Update(id, testActor, data)
		require.NoError(t, err)
		advance(t, f, id,
			models.CaseStatusDesignResult,
			models.CaseStatusInCosting,
			models.CaseStatusCostingComplete,
			models.CaseStatusGMApprovalPending,
		)
		f.events = nil

		view, err := f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{
			Status:  models.CaseStatusGMRejected,
			Comment: "price too high",
		}, testActor)
		require.NoError(t, err)
		require.Equal(t, models.CaseStatusSalesFollowup, view.Status)

		last := view.Events[len(view.Events)-1]
		prev := view.Events[len(view.Events)-2]
		require.Equal(t, models.CaseStatusSalesFollowup, last.Status)
		require.Equal(t, models.SystemActorName, last.ActorName)
		require.Equal(t, models.CaseStatusGMRejected, prev.Status)
		require.Equal(t, "price too high", prev.Comment)
		require.True(t, last.EventAt.After(prev.EventAt))

		// the alert carries the raw rejected status
		require.Len(t, f.events, 1)
		require.Equal(t, models.CaseStatusGMRejected, f.events[0].Status)
	})

	t.Run(`resubmission to GM after a rejection needs an explanation`, func(t *testing.T) {
		f := newEngineFixture()
		id := submit(f)
		advance(t, f, id,
			models.CaseStatusUnderReview,
			models.CaseStatusFeasibilityConfirmed,
		)
		data := caseapimodels.CaseEditData{CaseData: caseapimodels.CaseData{
			ClientName: "Acme", ProductName: "Widget", Quantity: 100,
			BomFolderLink: "https://files.example.com/bom/case-1",
		}}
		_, err := f.engine.Update(id, testActor, data)
		require.NoError(t, err)
		advance(t, f, id,
			models.CaseStatusDesignResult,
			models.CaseStatusInCosting,
			models.CaseStatusCostingComplete,
			models.CaseStatusGMApprovalPending,
		)
		f.now = f.now.Add(time.Minute)
		_, err = f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{
			Status:  models.CaseStatusGMRejected,
			Comment: "price too high",
		}, testActor)
		require.NoError(t, err)

		f.now = f.now.Add(time.Minute)
		_, err = f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{Status: models.CaseStatusGMApprovalPending}, testActor)
		var missing MissingFieldError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "comment", missing.Field)

		_, err = f.engine.ChangeStatus(id, caseapimodels.StatusChangeData{
			Status:  models.CaseStatusGMApprovalPending,
			Comment: "reduced price by 10%",
		}, testActor)
		require.NoError(t, err)
	})

	t.Run(`submitting a draft purges its siblings`, func(t *testing.T) {
		f := newEngineFixture()
		draft, _, err := f.engine.Create(testActor, "session-1", createData(true))
		require.NoError(t, err)
		// a stray sibling under the same session key
		sibling := &dbmodels.CaseRequest{
			Status:    models.CaseStatusDraft,
			CreatorID: testActor.ID,
			DraftKey:  "session-1",
		}
		_, err = f.store.Create(sibling)
		require.NoError(t, err)
		require.Len(t, f.store.cases, 2)

		_, err = f.engine.ChangeStatus(draft.ID, caseapimodels.StatusChangeData{Status: models.CaseStatusSubmitted}, testActor)
		require.NoError(t, err)
		require.Len(t, f.store.cases, 1)
	})
}

func TestUpdateAndRenotify(t *testing.T) {
	t.Run(`renotify replays a case_amended alert`, func(t *testing.T) {
		f := newEngineFixture()
		view, _, err := f.engine.Create(testActor, "", createData(false))
		require.NoError(t, err)
		f.events = nil

		require.NoError(t, f.engine.Renotify(view.ID, testActor))
		require.Len(t, f.events, 1)
		require.Equal(t, models.EventCaseAmended, f.events[0].EventCode)
		require.Equal(t, models.CaseStatusSubmitted, f.events[0].Status)
	})

	t.Run(`update with renotify flag alerts without history change`, func(t *testing.T) {
		f := newEngineFixture()
		view, _, err := f.engine.Create(testActor, "", createData(false))
		require.NoError(t, err)
		f.events = nil

		data := caseapimodels.CaseEditData{
			CaseData: caseapimodels.CaseData{ClientName: "Acme", ProductName: "Widget v2", Quantity: 100},
			Renotify: true,
		}
		updated, err := f.engine.Update(view.ID, testActor, data)
		require.NoError(t, err)
		require.Equal(t, "Widget v2", updated.ProductName)
		require.Len(t, updated.Events, 1)
		require.Len(t, f.events, 1)
		require.Equal(t, models.EventCaseAmended, f.events[0].EventCode)
	})

	t.Run(`terminal cases can not be edited`, func(t *testing.T) {
		f := newEngineFixture()
		view, _, err := f.engine.Create(testActor, "", createData(false))
		require.NoError(t, err)
		_, err = f.engine.ChangeStatus(view.ID, caseapimodels.StatusChangeData{
			Status:  models.CaseStatusCancelled,
			Comment: "dropped by client",
		}, testActor)
		require.NoError(t, err)

		data := caseapimodels.CaseEditData{CaseData: caseapimodels.CaseData{ClientName: "Acme"}}
		_, err = f.engine.Update(view.ID, testActor, data)
		require.Error(t, err)
	})

	t.Run(`only drafts can be deleted`, func(t *testing.T) {
		f := newEngineFixture()
		draft, _, err := f.engine.Create(testActor, "session-1", createData(true))
		require.NoError(t, err)
		submitted, _, err := f.engine.Create(testActor, "", createData(false))
		require.NoError(t, err)

		require.NoError(t, f.engine.Delete(draft.ID))
		require.Error(t, f.engine.Delete(submitted.ID))
	})
}
