package sync

import (
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"malldepot/config"
	"malldepot/model/entity"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "sync_test.db")
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

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

// testConfig points the connection defaults at a fake store server.
func testConfig(t *testing.T, ts *httptest.Server) *config.Config {
	t.Helper()
	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse test server port: %v", err)
	}
	return &config.Config{
		DatetimeFormat:     "2006-01-02 15:04:05.000000",
		HTTPTimeout:        5 * time.Second,
		PurchasesEndpoint:  "api/purchases",
		BulkUpdateEndpoint: "api/bulk_update",
		StoreResetEndpoint: "api/items/delete_all",
		DefaultStoreName:   "Test Store",
		DefaultStoreIPv4:   u.Hostname(),
		DefaultStorePort:   port,
		DefaultStoreToken:  "test-token",
	}
}

func seedItem(t *testing.T, db *gorm.DB, code string, stock int, status entity.ItemStatus, pending bool) *entity.Item {
	t.Helper()
	item := entity.Item{
		Code:         code,
		Name:         "Item " + code,
		Description:  "Description for " + code,
		PricePerUnit: 9.95,
		UnitsInStock: stock,
		Status:       status,
		RequiresSync: pending,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item %s: %v", code, err)
	}
	// Create honors struct zero values only via explicit update for
	// requires_sync because the column default is true.
	if !pending {
		if err := db.Model(&item).Update("requires_sync", false).Error; err != nil {
			t.Fatalf("lower flag for %s: %v", code, err)
		}
	}
	return &item
}

func countIssues(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&entity.Issue{}).Count(&n).Error; err != nil {
		t.Fatalf("count issues: %v", err)
	}
	return n
}
