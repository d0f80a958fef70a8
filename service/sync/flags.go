package sync

import "gorm.io/gorm"

// Keyed is implemented by all payload entries; SyncKey returns the business
// code identifying the delivered record.
type Keyed interface {
	SyncKey() string
}

// FlagResult counts the outcome of one flag-clearing pass.
type FlagResult struct {
	Updated   int `json:"updated"`
	NotFound  int `json:"not_found"`
	Malformed int `json:"malformed"`
}

// ClearSyncFlags lowers requires_sync on the live records matching the
// delivered entries. Entries without a key count as malformed, keys without
// a matching record count as not found; neither is an error. Must only run
// after a confirmed successful push; database errors are tolerated per
// entry (best-effort) and show up as not-found counts.
func ClearSyncFlags[T Keyed](db *gorm.DB, model interface{}, delivered []T) FlagResult {
	var result FlagResult
	for _, entry := range delivered {
		key := entry.SyncKey()
		if key == "" {
			result.Malformed++
			continue
		}
		res := db.Model(model).Where("code = ?", key).Update("requires_sync", false)
		if res.Error != nil || res.RowsAffected == 0 {
			result.NotFound++
			continue
		}
		result.Updated++
	}
	return result
}
