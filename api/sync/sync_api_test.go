package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"malldepot/config"
	"malldepot/core/lock"
	"malldepot/model/entity"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sync_api_test.db")), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.Vendor{},
		&entity.Item{},
		&entity.DeletedItem{},
		&entity.PurchaseHistory{},
		&entity.Issue{},
		&entity.SyncHistory{},
		&entity.StoreConnectionSettings{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testServer(t *testing.T, db *gorm.DB) *echo.Echo {
	t.Helper()
	e := echo.New()
	RegisterSyncRoutes(e.Group("/api"), db)
	return e
}

// pointAppConfigAt wires the global config at a fake store for the duration
// of one test.
func pointAppConfigAt(t *testing.T, ts *httptest.Server) {
	t.Helper()
	u, _ := url.Parse(ts.URL)
	port, _ := strconv.Atoi(u.Port())
	old := config.AppConfig
	config.AppConfig = &config.Config{
		DatetimeFormat:     "2006-01-02 15:04:05.000000",
		HTTPTimeout:        5 * time.Second,
		PurchasesEndpoint:  "api/purchases",
		BulkUpdateEndpoint: "api/bulk_update",
		StoreResetEndpoint: "api/items/delete_all",
		DefaultStoreName:   "Test Store",
		DefaultStoreIPv4:   u.Hostname(),
		DefaultStorePort:   port,
	}
	t.Cleanup(func() { config.AppConfig = old })
}

func fakeStore(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/purchases", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})
	mux.HandleFunc("/api/bulk_update", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("/api/items/delete_all", func(w http.ResponseWriter, r *http.Request) {})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestSyncAPI_Run(t *testing.T) {
	db := testDB(t)
	ts := fakeStore(t)
	pointAppConfigAt(t, ts)
	e := testServer(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/run", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var report map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if report["error_code"].(float64) != 0 {
		t.Errorf("report = %v", report)
	}
}

func TestSyncAPI_RunConflictWhileHeld(t *testing.T) {
	db := testDB(t)
	ts := fakeStore(t)
	pointAppConfigAt(t, ts)
	e := testServer(t, db)

	if err := lock.Shared().Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer lock.Shared().Release(context.Background())

	req := httptest.NewRequest(http.MethodPost, "/api/sync/run", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestSyncAPI_ConnectionRoundTrip(t *testing.T) {
	db := testDB(t)
	ts := fakeStore(t)
	pointAppConfigAt(t, ts)
	e := testServer(t, db)

	body := `{"store_name": "My Store", "ipv4_address": "10.1.2.3", "port_number": 5050, "bearer_token": "secret"}`
	req := httptest.NewRequest(http.MethodPut, "/api/sync/connection", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Error("bearer token echoed back in PUT response")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sync/connection", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var got map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got["store_name"] != "My Store" || got["configured"] != true {
		t.Errorf("connection = %v", got)
	}
	if _, leaked := got["bearer_token"]; leaked {
		t.Error("bearer token exposed over GET")
	}
}

func TestSyncAPI_ConnectionValidation(t *testing.T) {
	db := testDB(t)
	ts := fakeStore(t)
	pointAppConfigAt(t, ts)
	e := testServer(t, db)

	body := `{"store_name": "", "ipv4_address": "10.1.2.3", "port_number": 5050}`
	req := httptest.NewRequest(http.MethodPut, "/api/sync/connection", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSyncAPI_History(t *testing.T) {
	db := testDB(t)
	ts := fakeStore(t)
	pointAppConfigAt(t, ts)
	e := testServer(t, db)

	db.Create(&entity.SyncHistory{RemoteName: "Store", ConnectionType: entity.ConnectionSync, ErrorCode: 0})

	req := httptest.NewRequest(http.MethodGet, "/api/sync/history", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got["total"].(float64) != 1 {
		t.Errorf("history = %v", got)
	}
}
