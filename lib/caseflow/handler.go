package caseflow

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"case-flow-backend/config"
	"case-flow-backend/db"
	casestore "case-flow-backend/lib/caseflow/store"
	"case-flow-backend/lib/flow"
	"case-flow-backend/lib/notify"
	"case-flow-backend/lib/seq"
	"case-flow-backend/lib/utils/lock"
	"case-flow-backend/models"
	caseapimodels "case-flow-backend/models/api/caseapi"
	dbmodels "case-flow-backend/models/db"
)

type Provider interface {
	// Create is idempotent under a (creator, draftKey) pair: a repeated call
	// while the draft exists merges the data into it instead of creating a
	// second case. created reports whether a new row was made.
	Create(actor models.Actor, draftKey string, data caseapimodels.CaseCreateData) (view *caseapimodels.CaseView, created bool, err error)
	GetByID(id string) (view *caseapimodels.CaseView, err error)
	Update(id string, actor models.Actor, data caseapimodels.CaseEditData) (view *caseapimodels.CaseView, err error)
	List(filter caseapimodels.CaseFilter) (list []caseapimodels.CaseView, rowCount int64, err error)
	ChangeStatus(id string, data caseapimodels.StatusChangeData, actor models.Actor) (view *caseapimodels.CaseView, err error)
	// Renotify replays a case_amended alert for the current status without
	// touching the history.
	Renotify(id string, actor models.Actor) error
	AllowedTransitions(id string) (list []models.CaseStatus, err error)
	Delete(id string) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:    casestore.NewInstance(db.DB),
		newStore: casestore.NewInstance,
		inTx: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
		lock:  lock.NewInstance(),
		rules: flow.Instance,
		dispatch: func(event notify.Event) notify.Outcome {
			if notify.Instance == nil {
				return notify.Outcome{}
			}
			return notify.Instance.Dispatch(event)
		},
		refPrefix: config.Conf.Notify.RefPrefix,
		nextRefNo: seq.NextRefNo,
		now:       time.Now,
	}
}

// NewInstanceWith builds an engine with explicit collaborators.
func NewInstanceWith(
	store casestore.Provider,
	newStore func(tx *gorm.DB) casestore.Provider,
	inTx func(fn func(tx *gorm.DB) error) error,
	lockProvider lock.Provider,
	rules flow.Provider,
	dispatch func(event notify.Event) notify.Outcome,
	refPrefix string,
	nextRefNo func(tx *gorm.DB, prefix string, day time.Time) (string, error),
	now func() time.Time,
) Provider {
	return &impl{
		store:     store,
		newStore:  newStore,
		inTx:      inTx,
		lock:      lockProvider,
		rules:     rules,
		dispatch:  dispatch,
		refPrefix: refPrefix,
		nextRefNo: nextRefNo,
		now:       now,
	}
}

type impl struct {
	store     casestore.Provider
	newStore  func(tx *gorm.DB) casestore.Provider
	inTx      func(fn func(tx *gorm.DB) error) error
	lock      lock.Provider
	rules     flow.Provider
	dispatch  func(event notify.Event) notify.Outcome
	refPrefix string
	nextRefNo func(tx *gorm.DB, prefix string, day time.Time) (string, error)
	now       func() time.Time
}

func (i *impl) Create(actor models.Actor, draftKey string, data caseapimodels.CaseCreateData) (*caseapimodels.CaseView, bool, error) {
	if err := data.Validate(); err != nil {
		return nil, false, err
	}
	logger := log.WithField("creator_id", actor.ID).WithField("draft_key", draftKey)

	var (
		caseID  string
		created bool
	)
	status := models.CaseStatusSubmitted
	if data.AsDraft {
		status = models.CaseStatusDraft
	}
	now := i.now()

	err := i.inTx(func(tx *gorm.DB) error {
		store := i.newStore(tx)
		var existing *dbmodels.CaseRequest
		if draftKey != "" {
			// the advisory lock serializes concurrent submits of the same
			// draft session
			if err := i.lock.AcquireXact(tx, actor.ID, draftKey); err != nil {
				return err
			}
			rec, err := store.FindDraft(actor.ID, draftKey)
			if err != nil {
				return err
			}
			existing = rec
		}

		if existing != nil {
			caseID = existing.ID
			updMap := caseUpdMap(data.CaseData)
			updMap["status"] = status
			if err := store.Update(existing.ID, updMap); err != nil {
				return err
			}
			if status == models.CaseStatusDraft {
				return nil
			}
			if err := store.CreateEvent(dbmodels.CaseEvent{
				CaseID:    existing.ID,
				Status:    status,
				EventAt:   now,
				ActorID:   actor.ID,
				ActorName: actor.Name,
			}); err != nil {
				return err
			}
			purged, err := store.PurgeDraftSiblings(actor.ID, draftKey, existing.ID)
			if err != nil {
				return err
			}
			if purged > 0 {
				logger.WithField("purged", purged).Info("purged leftover draft siblings")
			}
			return nil
		}

		refNo, err := i.nextRefNo(tx, i.refPrefix, now)
		if err != nil {
			return err
		}
		rec := dbmodels.CaseRequest{
			RefNo:         refNo,
			Status:        status,
			CreatorID:     actor.ID,
			CreatorName:   actor.Name,
			DraftKey:      draftKey,
			ClientName:    data.ClientName,
			ProductName:   data.ProductName,
			Quantity:      data.Quantity,
			TargetPrice:   data.TargetPrice,
			Currency:      data.Currency,
			BomFolderLink: data.BomFolderLink,
			Details:       data.Details,
		}
		id, err := store.Create(&rec)
		if err != nil {
			return err
		}
		caseID = id
		created = true
		return store.CreateEvent(dbmodels.CaseEvent{
			CaseID:    id,
			Status:    status,
			EventAt:   now,
			ActorID:   actor.ID,
			ActorName: actor.Name,
		})
	})
	if err != nil {
		logger.WithError(err).Error("failed to create case")
		return nil, false, err
	}

	rec, err := i.store.GetByID(caseID)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, errors.New("case not found after create")
	}
	if status != models.CaseStatusDraft {
		i.dispatch(notify.Event{
			Case:       rec,
			CaseID:     rec.ID,
			EventCode:  models.EventStatusChanged,
			Status:     models.CaseStatusSubmitted,
			PrevStatus: models.CaseStatusDraft,
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			At:         now,
		})
	}
	view := caseapimodels.CaseConvert(*rec)
	return &view, created, nil
}

func (i *impl) GetByID(id string) (*caseapimodels.CaseView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("case not found")
	}
	view := caseapimodels.CaseConvert(*rec)
	return &view, nil
}

func (i *impl) Update(id string, actor models.Actor, data caseapimodels.CaseEditData) (*caseapimodels.CaseView, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("case not found")
	}
	if rec.Status.IsTerminal() {
		return nil, errors.Errorf("case is %s and can not be edited", rec.Status)
	}
	if err := i.store.Update(id, caseUpdMap(data.CaseData)); err != nil {
		return nil, err
	}
	rec, err = i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("case not found")
	}
	if data.Renotify && rec.Status != models.CaseStatusDraft {
		i.dispatch(notify.Event{
			Case:       rec,
			CaseID:     rec.ID,
			EventCode:  models.EventCaseAmended,
			Status:     rec.Status,
			PrevStatus: rec.Status,
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			At:         i.now(),
		})
	}
	view := caseapimodels.CaseConvert(*rec)
	return &view, nil
}

func (i *impl) List(filter caseapimodels.CaseFilter) ([]caseapimodels.CaseView, int64, error) {
	list, rowCount, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	views := make([]caseapimodels.CaseView, 0, len(list))
	for _, rec := range list {
		views = append(views, caseapimodels.CaseConvert(rec))
	}
	return views, rowCount, nil
}

// ChangeStatus applies one lifecycle transition: legality check, guards,
// append-only history write, then a best-effort notification dispatch with
// the raw target status. A GM rejection additionally writes the automatic
// hand-back event and rests the case at sales_followup.
func (i *impl) ChangeStatus(id string, data caseapimodels.StatusChangeData, actor models.Actor) (*caseapimodels.CaseView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("case not found")
	}
	target := data.Status
	from := rec.Status

	if !i.rules.IsKnownStatus(target) {
		return nil, UnknownStatusError{Status: target}
	}
	if !i.rules.IsAllowedTransition(from, target) {
		return nil, IllegalTransitionError{
			From:    from,
			To:      target,
			Allowed: i.rules.AllowedTransitions(from),
		}
	}
	if err := i.checkGuards(rec, target, data.Comment); err != nil {
		return nil, err
	}

	now := i.now()
	resting := target
	if target == models.CaseStatusGMRejected {
		resting = models.CaseStatusSalesFollowup
	}

	err = i.inTx(func(tx *gorm.DB) error {
		store := i.newStore(tx)
		if err := store.Update(id, map[string]interface{}{"status": resting}); err != nil {
			return err
		}
		if err := store.CreateEvent(dbmodels.CaseEvent{
			CaseID:    id,
			Status:    target,
			EventAt:   now,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Comment:   data.Comment,
		}); err != nil {
			return err
		}
		if resting != target {
			// the hand-back event sorts strictly after the rejection
			if err := store.CreateEvent(dbmodels.CaseEvent{
				CaseID:    id,
				Status:    resting,
				EventAt:   now.Add(time.Millisecond),
				ActorName: models.SystemActorName,
			}); err != nil {
				return err
			}
		}
		if from == models.CaseStatusDraft && target == models.CaseStatusSubmitted && rec.DraftKey != "" {
			_, err := store.PurgeDraftSiblings(rec.CreatorID, rec.DraftKey, id)
			return err
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("case_id", id).Error("failed to change case status")
		return nil, err
	}

	rec, err = i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("case not found")
	}
	i.dispatch(notify.Event{
		Case:       rec,
		CaseID:     rec.ID,
		EventCode:  models.EventStatusChanged,
		Status:     target,
		PrevStatus: from,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Comment:    data.Comment,
		At:         now,
	})
	view := caseapimodels.CaseConvert(*rec)
	return &view, nil
}

func (i *impl) checkGuards(rec *dbmodels.CaseRequest, target models.CaseStatus, comment string) error {
	if target == models.CaseStatusCancelled && comment == "" {
		return MissingFieldError{Field: "comment", Reason: "cancellation requires a reason"}
	}
	if target == models.CaseStatusGMApprovalPending && comment == "" &&
		rec.HasStatusInHistory(models.CaseStatusGMRejected) {
		return MissingFieldError{Field: "comment", Reason: "resubmission after a rejection requires an explanation"}
	}
	if target == models.CaseStatusDesignResult && rec.BomFolderLink == "" {
		return MissingFieldError{Field: "bom_folder_link", Reason: "design result requires the BOM folder link"}
	}
	return nil
}

func (i *impl) Renotify(id string, actor models.Actor) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.New("case not found")
	}
	if rec.Status == models.CaseStatusDraft {
		return errors.New("draft cases have no notification audience")
	}
	i.dispatch(notify.Event{
		Case:       rec,
		CaseID:     rec.ID,
		EventCode:  models.EventCaseAmended,
		Status:     rec.Status,
		PrevStatus: rec.Status,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		At:         i.now(),
	})
	return nil
}

func (i *impl) AllowedTransitions(id string) ([]models.CaseStatus, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("case not found")
	}
	return i.rules.AllowedTransitions(rec.Status), nil
}

func (i *impl) Delete(id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.New("case not found")
	}
	if rec.Status != models.CaseStatusDraft {
		return errors.New("only draft cases can be deleted")
	}
	return i.store.Delete(id)
}

func caseUpdMap(data caseapimodels.CaseData) map[string]interface{} {
	return map[string]interface{}{
		"client_name":     data.ClientName,
		"product_name":    data.ProductName,
		"quantity":        data.Quantity,
		"target_price":    data.TargetPrice,
		"currency":        data.Currency,
		"bom_folder_link": data.BomFolderLink,
		"details":         data.Details,
	}
}
