package persistence

import (
	"context"

	"github.com/flourmill/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormSequenceRepository implements SequenceRepository using GORM.
// Numbers are drawn with a single upsert that increments and returns the
// value atomically, so concurrent callers can never receive the same number.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next allocates the next number for the named sequence
func (r *GormSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequences (name, value, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (name)
		DO UPDATE SET value = sequences.value + 1, updated_at = NOW()
		RETURNING value`, name).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ partner.SequenceRepository = (*GormSequenceRepository)(nil)
