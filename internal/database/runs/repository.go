// Package runs stores the history of imports.
//
//	var _ importers.Recorder = (*Repository)(nil)
package runs

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/journo/internal/entities"
)

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 20

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateImportRun(run *entities.ImportRun) error {
	return r.db.Create(run).Error
}

func (r *Repository) UpdateImportRun(run *entities.ImportRun) error {
	return r.db.Save(run).Error
}

func (r *Repository) GetImportRun(id uint) (*entities.ImportRun, error) {
	var run entities.ImportRun
	if err := r.db.First(&run, id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns the most recent runs first.
func (r *Repository) List(limit int) ([]entities.ImportRun, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var out []entities.ImportRun
	err := r.db.Order("started_at DESC").Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// LastCompleted returns the newest completed run for target, or nil.
func (r *Repository) LastCompleted(target string) (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.Where("target = ? AND status = ?", target, entities.ImportStatusCompleted).
		Order("started_at DESC").First(&run).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteOlderThan removes runs started before now minus retention.
func (r *Repository) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.Where("started_at < ?", cutoff).Delete(&entities.ImportRun{})
	return result.RowsAffected, result.Error
}
