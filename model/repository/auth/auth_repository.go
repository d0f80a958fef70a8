package auth

import (
	"time"

	"gorm.io/gorm"

	"malldepot/model/entity"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

// FindActiveToken returns the token row when it exists, is not revoked and
// has not expired. Updates LastUsedAt on a hit, best-effort.
func (r *AuthRepository) FindActiveToken(token string) (*entity.APIToken, error) {
	var row entity.APIToken
	if err := r.db.Where("token = ?", token).First(&row).Error; err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if !row.Valid(now) {
		return nil, gorm.ErrRecordNotFound
	}
	r.db.Model(&row).Update("last_used_at", now)
	return &row, nil
}
