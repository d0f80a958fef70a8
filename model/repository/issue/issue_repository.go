package issue

import (
	"time"

	"gorm.io/gorm"

	"malldepot/model/entity"
)

type IssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

func (r *IssueRepository) FindByID(id uint) (*entity.Issue, error) {
	var issue entity.Issue
	if err := r.db.First(&issue, id).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// List returns one page of issues, unresolved and newest first.
func (r *IssueRepository) List(limit, offset int) ([]entity.Issue, int64, error) {
	var total int64
	if err := r.db.Model(&entity.Issue{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []entity.Issue
	err := r.db.Order("status DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

// Resolve flags an issue as resolved. Resolving twice is a no-op.
func (r *IssueRepository) Resolve(id uint, now time.Time) (*entity.Issue, error) {
	var issue entity.Issue
	if err := r.db.First(&issue, id).Error; err != nil {
		return nil, err
	}
	if !issue.IsResolved() {
		issue.Resolve(now)
		if err := r.db.Save(&issue).Error; err != nil {
			return nil, err
		}
	}
	return &issue, nil
}

func (r *IssueRepository) CountUnresolved() (int64, error) {
	var n int64
	err := r.db.Model(&entity.Issue{}).Where("status = ?", entity.IssueUnresolved).Count(&n).Error
	return n, err
}
