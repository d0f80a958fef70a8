package sync

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"malldepot/model/entity"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sync_repo_test.db")), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.SyncHistory{}, &entity.StoreConnectionSettings{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSyncRepository_SessionsNewestFirst(t *testing.T) {
	db := testDB(t)
	repo := NewSyncRepository(db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := repo.RecordSession(&entity.SyncHistory{
			RemoteName:     "Store",
			ConnectionType: entity.ConnectionSync,
			TimestampStart: base.Add(time.Duration(i) * time.Hour),
			TimestampEnd:   base.Add(time.Duration(i)*time.Hour + time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordSession: %v", err)
		}
	}

	rows, total, err := repo.ListSessions(2, 0)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].ID < rows[1].ID {
		t.Error("sessions not newest first")
	}
}

func TestSyncRepository_ConnectionNilWhenUnset(t *testing.T) {
	db := testDB(t)
	repo := NewSyncRepository(db)

	conn, err := repo.Connection()
	if err != nil {
		t.Fatalf("Connection: %v", err)
	}
	if conn != nil {
		t.Fatalf("conn = %+v, want nil", conn)
	}
}

func TestSyncRepository_SaveConnectionUpserts(t *testing.T) {
	db := testDB(t)
	repo := NewSyncRepository(db)

	first := &entity.StoreConnectionSettings{StoreName: "One", IPv4Address: "10.0.0.1", PortNumber: 5050, BearerToken: "t1"}
	if err := repo.SaveConnection(first); err != nil {
		t.Fatalf("SaveConnection: %v", err)
	}

	second := &entity.StoreConnectionSettings{StoreName: "Two", IPv4Address: "10.0.0.2", PortNumber: 5051, BearerToken: "t2"}
	if err := repo.SaveConnection(second); err != nil {
		t.Fatalf("SaveConnection (update): %v", err)
	}

	var count int64
	db.Model(&entity.StoreConnectionSettings{}).Count(&count)
	if count != 1 {
		t.Fatalf("settings rows = %d, want single row", count)
	}

	conn, err := repo.Connection()
	if err != nil {
		t.Fatalf("Connection: %v", err)
	}
	if conn.StoreName != "Two" || conn.IPv4Address != "10.0.0.2" || conn.BearerToken != "t2" {
		t.Errorf("conn = %+v", conn)
	}
}
