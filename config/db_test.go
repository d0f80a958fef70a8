package config

import (
	"path/filepath"
	"testing"
)

func TestSharedDBReusesOnePool(t *testing.T) {
	t.Setenv("GORM_LOG", "off")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("MYSQL_HOST", "")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "shared_test.db"))

	first, err := SharedDB()
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	second, err := SharedDB()
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	if first != second {
		t.Error("SharedDB opened a second pool; scheduler ticks would leak connections")
	}

	sqlDB, err := first.DB()
	if err != nil {
		t.Fatalf("unwrap pool: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Errorf("shared pool not usable: %v", err)
	}
}
