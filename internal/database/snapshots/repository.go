// Package snapshots keeps the last processed thought corpus in SQLite.
package snapshots

import (
	"gorm.io/gorm"

	"github.com/mrlokans/journo/internal/entities"
)

const batchSize = 500

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Replace swaps the stored snapshot for thoughts in one transaction.
func (r *Repository) Replace(thoughts []entities.Thought) (int, error) {
	rows := make([]entities.StoredThought, len(thoughts))
	for i, t := range thoughts {
		rows[i] = entities.NewStoredThought(i, t)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.StoredThought{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, batchSize).Error
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// List returns the snapshot in its stored order.
func (r *Repository) List() ([]entities.Thought, error) {
	var rows []entities.StoredThought
	if err := r.db.Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.Thought, len(rows))
	for i, row := range rows {
		out[i] = row.Thought()
	}
	return out, nil
}

func (r *Repository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&entities.StoredThought{}).Count(&n).Error
	return n, err
}
