package issue

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
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "issue_test.db")), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.Issue{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestIssueRepository_ResolveIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewIssueRepository(db)

	issue := entity.Issue{Message: "something off", RaisedTime: time.Now().UTC(), Status: entity.IssueUnresolved}
	if err := db.Create(&issue).Error; err != nil {
		t.Fatalf("seed issue: %v", err)
	}

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got, err := repo.Resolve(issue.ID, first)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Status != entity.IssueResolved || got.SolvedTime == nil || !got.SolvedTime.Equal(first) {
		t.Fatalf("resolved = %+v", got)
	}

	// Second resolve keeps the original resolution time.
	later := first.Add(time.Hour)
	again, err := repo.Resolve(issue.ID, later)
	if err != nil {
		t.Fatalf("Resolve (second): %v", err)
	}
	if !again.SolvedTime.Equal(first) {
		t.Errorf("solved_time changed on repeat resolve: %v", again.SolvedTime)
	}
}

func TestIssueRepository_CountUnresolved(t *testing.T) {
	db := testDB(t)
	repo := NewIssueRepository(db)

	db.Create(&entity.Issue{Message: "a", RaisedTime: time.Now(), Status: entity.IssueUnresolved})
	db.Create(&entity.Issue{Message: "b", RaisedTime: time.Now(), Status: entity.IssueUnresolved})
	if _, err := repo.Resolve(1, time.Now()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	n, err := repo.CountUnresolved()
	if err != nil {
		t.Fatalf("CountUnresolved: %v", err)
	}
	if n != 1 {
		t.Errorf("unresolved = %d, want 1", n)
	}
}
