// Package ticket hands out note tickets from one shared counter row.
package ticket

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/technotes/internal/models"
)

const (
	counterID = 1
	firstSeq  = 1
)

var ErrCounterMissing = errors.New("ticket counter row missing")

type Counter struct {
	DB *gorm.DB
}

// Next advances the counter in its own transaction and returns the value it held before.
func (c *Counter) Next(ctx context.Context) (int64, error) {
	var seq int64
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		seq, err = Next(tx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// Peek reports the ticket the next note will receive without advancing.
func (c *Counter) Peek(ctx context.Context) (int64, error) {
	var ctr models.Counter
	err := c.DB.WithContext(ctx).Where("id = ?", counterID).Take(&ctr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return firstSeq, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read ticket counter: %w", err)
	}
	return ctr.Count, nil
}

// Next takes a ticket inside tx. The increment is a single UPDATE so
// concurrent callers serialize on the row lock, and a rollback of tx
// gives the ticket back.
func Next(tx *gorm.DB) (int64, error) {
	seed := models.Counter{ID: counterID, Count: firstSeq}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, fmt.Errorf("seed ticket counter: %w", err)
	}

	res := tx.Model(&models.Counter{}).
		Where("id = ?", counterID).
		Update("count", gorm.Expr("count + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("advance ticket counter: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return 0, ErrCounterMissing
	}

	var ctr models.Counter
	if err := tx.Where("id = ?", counterID).Take(&ctr).Error; err != nil {
		return 0, fmt.Errorf("read ticket counter: %w", err)
	}
	return ctr.Count - 1, nil
}
