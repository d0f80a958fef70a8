package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"malldepot/config"
	"malldepot/core/lock"
	"malldepot/model/entity"
	syncRepo "malldepot/model/repository/sync"
)

// ErrorCode identifies why a run failed. One enumeration serves both the
// sync and the reset flow so audit rows are unambiguous across flows.
type ErrorCode int

const (
	CodeOK                    ErrorCode = 0
	CodeDownloadFailed        ErrorCode = 1
	CodePurchasePersistFailed ErrorCode = 2
	CodeStockApplyFailed      ErrorCode = 3
	CodeUploadFailed          ErrorCode = 4
	CodeResetRejected         ErrorCode = 5
	CodeResetConnectivity     ErrorCode = 6
	CodeInternal              ErrorCode = 7
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeDownloadFailed:
		return "download failed"
	case CodePurchasePersistFailed:
		return "purchase history persistence failed"
	case CodeStockApplyFailed:
		return "stock apply failed"
	case CodeUploadFailed:
		return "upload failed"
	case CodeResetRejected:
		return "store rejected reset"
	case CodeResetConnectivity:
		return "store unreachable during reset"
	case CodeInternal:
		return "internal error"
	}
	return fmt.Sprintf("error %d", int(c))
}

// RunError is the failure surfaced to whoever triggered a run.
type RunError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sync failed (%s): %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("sync failed (%s): %s", e.Code, e.Message)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Report summarises a finished run for the caller; the audit row is the
// persistent counterpart.
type Report struct {
	ErrorCode       ErrorCode             `json:"error_code"`
	Message         string                `json:"message"`
	UpdatesReceived int                   `json:"updates_received"`
	UpdatesSent     int                   `json:"updates_sent"`
	IssuesRaised    int                   `json:"issues_raised"`
	Categories      map[string]int        `json:"categories,omitempty"`
	Flags           map[string]FlagResult `json:"flags,omitempty"`
}

// connection is the resolved remote endpoint set for one run, fetched once
// before the first phase.
type connection struct {
	remoteName string
	token      string
	purchases  string
	bulkUpdate string
	reset      string
}

// Syncer drives the pull-apply-build-upload-reset-flags pipeline. Phases are
// strictly ordered; the run lock is held from before the download until the
// flags were reset.
type Syncer struct {
	db     *gorm.DB
	cfg    *config.Config
	client *Client
	lock   *lock.RunLock
	now    func() time.Time
}

func NewSyncer(db *gorm.DB, cfg *config.Config, runLock *lock.RunLock) *Syncer {
	return &Syncer{
		db:     db,
		cfg:    cfg,
		client: NewClient(cfg),
		lock:   runLock,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run executes one full synchronization. Returns lock.ErrHeld without
// touching any state when another run is in progress.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	if err := s.lock.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.lock.Release(ctx)

	repo := syncRepo.NewSyncRepository(s.db)
	start := s.now()
	conn, err := s.resolveConnection(repo)
	if err != nil {
		log.Printf("Could not load store connection settings: %v", err)
		s.audit(repo, s.cfg.DefaultStoreName, entity.ConnectionSync, start, CodeInternal, 0, 0, nil)
		return nil, &RunError{Code: CodeInternal, Message: "failed to load store connection settings", Err: err}
	}

	log.Printf("Sync with %s initiated.", conn.remoteName)

	fail := func(code ErrorCode, message string, cause error, received int) (*Report, error) {
		s.audit(repo, conn.remoteName, entity.ConnectionSync, start, code, received, 0, nil)
		report := &Report{ErrorCode: code, Message: message, UpdatesReceived: received}
		return report, &RunError{Code: code, Message: message, Err: cause}
	}

	// DOWNLOADING
	raw, err := s.client.Download(ctx, conn.purchases, conn.token)
	if err != nil {
		log.Printf("Error downloading purchase data: %v", err)
		return fail(CodeDownloadFailed, "error downloading purchase data", err, 0)
	}
	events, malformed := DecodeEvents(raw, s.cfg.DatetimeFormat)
	if malformed > 0 {
		log.Printf("Skipped %d malformed purchase rows.", malformed)
		RaiseMalformedIssues(s.db, malformed, s.now())
	}

	// Applying is a no-op success when the store had no purchases.
	if err := StorePurchases(s.db, events, s.now()); err != nil {
		log.Printf("Failed to update purchase history: %v", err)
		return fail(CodePurchasePersistFailed, "failed to update purchase history in warehouse", err, len(events))
	}
	applied, err := ApplyStock(s.db, events, s.now())
	if err != nil {
		log.Printf("Failed to update stock data: %v", err)
		return fail(CodeStockApplyFailed, "failed to update stock data in warehouse", err, len(events))
	}

	// BUILDING
	payload, err := BuildSyncPayload(s.db)
	if err != nil {
		return fail(CodeInternal, "failed to prepare updates for the store", err, len(events))
	}

	// UPLOADING
	if _, err := s.client.Upload(ctx, payload, conn.bulkUpdate, conn.token); err != nil {
		log.Printf("Error uploading updates to the store: %v", err)
		return fail(CodeUploadFailed, "error uploading updates to the store", err, len(events))
	}

	// Flag lowering is best-effort, partial application shows up in counts.
	flags := map[string]FlagResult{
		DeletedKey:      ClearSyncFlags(s.db, &entity.DeletedItem{}, payload.Deleted),
		NotForSaleKey:   ClearSyncFlags(s.db, &entity.Item{}, payload.NotForSale),
		OutOfStockKey:   ClearSyncFlags(s.db, &entity.Item{}, payload.OutOfStock),
		StockUpdatesKey: ClearSyncFlags(s.db, &entity.Item{}, payload.StockUpdates),
	}

	// COMPLETE
	report := &Report{
		ErrorCode:       CodeOK,
		Message:         applied.Message,
		UpdatesReceived: len(events),
		UpdatesSent:     payload.Total(),
		IssuesRaised:    applied.IssuesRaised + malformed,
		Categories:      payload.Counts(),
		Flags:           flags,
	}
	s.audit(repo, conn.remoteName, entity.ConnectionSync, start, CodeOK, report.UpdatesReceived, report.UpdatesSent, report)
	log.Printf("Sync complete: %d updates received, %d sent, %d issues raised.",
		report.UpdatesReceived, report.UpdatesSent, report.IssuesRaised)
	return report, nil
}

// Resetter wipes the remote store and reseeds it with the full for-sale
// catalog, bypassing incremental delta computation.
type Resetter struct {
	db     *gorm.DB
	cfg    *config.Config
	client *Client
	lock   *lock.RunLock
	now    func() time.Time
}

func NewResetter(db *gorm.DB, cfg *config.Config, runLock *lock.RunLock) *Resetter {
	return &Resetter{
		db:     db,
		cfg:    cfg,
		client: NewClient(cfg),
		lock:   runLock,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *Resetter) Run(ctx context.Context) (*Report, error) {
	if err := r.lock.Acquire(ctx); err != nil {
		return nil, err
	}
	defer r.lock.Release(ctx)

	repo := syncRepo.NewSyncRepository(r.db)
	start := r.now()
	syncer := &Syncer{db: r.db, cfg: r.cfg, now: r.now}
	conn, err := syncer.resolveConnection(repo)
	if err != nil {
		log.Printf("Could not load store connection settings: %v", err)
		r.audit(repo, r.cfg.DefaultStoreName, start, CodeInternal, 0, nil)
		return nil, &RunError{Code: CodeInternal, Message: "failed to load store connection settings", Err: err}
	}

	log.Printf("Store reset initiated for %s.", conn.remoteName)

	fail := func(code ErrorCode, message string, cause error) (*Report, error) {
		r.audit(repo, conn.remoteName, start, code, 0, nil)
		return &Report{ErrorCode: code, Message: message}, &RunError{Code: code, Message: message, Err: cause}
	}

	// Step 1: tell the store to wipe its catalog and purchase history.
	if err := r.client.Reset(ctx, conn.reset, conn.token); err != nil {
		var terr *TransportError
		if errors.As(err, &terr) && terr.Kind == KindConnectivity {
			log.Printf("Could not connect to the store: %v", err)
			return fail(CodeResetConnectivity, "could not connect to store, is the store server running?", err)
		}
		log.Printf("Store refused the reset: %v", err)
		return fail(CodeResetRejected, "non-200 response from store, could not reset", err)
	}

	// Step 2: reseed with everything currently sellable. The wipe is never
	// retried on upload failure.
	payload, err := BuildResetPayload(r.db)
	if err != nil {
		return fail(CodeInternal, "failed to prepare catalog for the store", err)
	}
	if _, err := r.client.Upload(ctx, payload, conn.bulkUpdate, conn.token); err != nil {
		log.Printf("Could not upload catalog to store after reset: %v", err)
		return fail(CodeUploadFailed, "could not upload data to store after reset", err)
	}

	flags := map[string]FlagResult{
		StockUpdatesKey: ClearSyncFlags(r.db, &entity.Item{}, payload.StockUpdates),
	}

	report := &Report{
		ErrorCode:   CodeOK,
		Message:     "Store reset successful.",
		UpdatesSent: payload.Total(),
		Categories:  payload.Counts(),
		Flags:       flags,
	}
	r.audit(repo, conn.remoteName, start, CodeOK, report.UpdatesSent, report)
	log.Printf("Store reset complete: %d items reseeded.", report.UpdatesSent)
	return report, nil
}

// resolveConnection fetches the connection settings row once per run,
// falling back to configured defaults when none exists.
func (s *Syncer) resolveConnection(repo *syncRepo.SyncRepository) (*connection, error) {
	name := s.cfg.DefaultStoreName
	host := s.cfg.DefaultStoreIPv4
	port := s.cfg.DefaultStorePort
	token := s.cfg.DefaultStoreToken

	settings, err := repo.Connection()
	if err != nil {
		return nil, err
	}
	if settings != nil {
		name = settings.StoreName
		host = settings.IPv4Address
		port = settings.PortNumber
		token = settings.BearerToken
	}

	return &connection{
		remoteName: name,
		token:      token,
		purchases:  BuildAPIURL(s.cfg.UseHTTPS, host, port, s.cfg.PurchasesEndpoint),
		bulkUpdate: BuildAPIURL(s.cfg.UseHTTPS, host, port, s.cfg.BulkUpdateEndpoint),
		reset:      BuildAPIURL(s.cfg.UseHTTPS, host, port, s.cfg.StoreResetEndpoint),
	}, nil
}

func (s *Syncer) audit(repo *syncRepo.SyncRepository, remote string, kind entity.ConnectionType,
	start time.Time, code ErrorCode, received, sent int, report *Report) {
	session := entity.SyncHistory{
		RemoteName:      remote,
		TimestampStart:  start,
		TimestampEnd:    s.now(),
		ErrorCode:       int(code),
		ConnectionType:  kind,
		UpdatesReceived: received,
		UpdatesSent:     sent,
	}
	if report != nil {
		if b, err := json.Marshal(report); err == nil {
			session.Details = datatypes.JSON(b)
		}
	}
	if err := repo.RecordSession(&session); err != nil {
		log.Printf("Could not write sync history record: %v", err)
	}
}

func (r *Resetter) audit(repo *syncRepo.SyncRepository, remote string, start time.Time,
	code ErrorCode, sent int, report *Report) {
	s := &Syncer{db: r.db, cfg: r.cfg, now: r.now}
	s.audit(repo, remote, entity.ConnectionReset, start, code, 0, sent, report)
}
