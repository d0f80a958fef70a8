package sync

import (
	"errors"

	"gorm.io/gorm"

	"malldepot/model/entity"
)

type SyncRepository struct {
	db *gorm.DB
}

func NewSyncRepository(db *gorm.DB) *SyncRepository {
	return &SyncRepository{db: db}
}

// RecordSession appends one audit row. Rows are never updated afterwards.
func (r *SyncRepository) RecordSession(session *entity.SyncHistory) error {
	return r.db.Create(session).Error
}

// ListSessions returns one page of the audit log, newest first.
func (r *SyncRepository) ListSessions(limit, offset int) ([]entity.SyncHistory, int64, error) {
	var total int64
	if err := r.db.Model(&entity.SyncHistory{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []entity.SyncHistory
	err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

// Connection returns the stored connection settings, or nil when none were
// set up yet (callers fall back to config defaults).
func (r *SyncRepository) Connection() (*entity.StoreConnectionSettings, error) {
	var conn entity.StoreConnectionSettings
	err := r.db.First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// SaveConnection creates or updates the single settings row.
func (r *SyncRepository) SaveConnection(conn *entity.StoreConnectionSettings) error {
	existing, err := r.Connection()
	if err != nil {
		return err
	}
	if existing != nil {
		conn.ID = existing.ID
		return r.db.Save(conn).Error
	}
	return r.db.Create(conn).Error
}
