package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/40acres/lnswapd/database/models"
)

// ErrSwapNotFound is returned by Get when no record carries the swap id.
var ErrSwapNotFound = errors.New("swap not found")

// SwapRepository persists swap records. Implementations must be safe for
// concurrent use.
type SwapRepository interface {
	SaveSwap(ctx context.Context, swap *models.SwapOrder) error
	GetSwap(ctx context.Context, swapID string) (*models.SwapOrder, error)
	// ListSwaps returns all swaps, newest first, optionally filtered by
	// status.
	ListSwaps(ctx context.Context, status *models.SwapStatus) ([]models.SwapOrder, error)
}

func (d *Database) SaveSwap(ctx context.Context, swap *models.SwapOrder) error {
	return d.orm.WithContext(ctx).Save(swap).Error
}

func (d *Database) GetSwap(ctx context.Context, swapID string) (*models.SwapOrder, error) {
	var swap models.SwapOrder
	err := d.orm.WithContext(ctx).Where("swap_id = ?", swapID).First(&swap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSwapNotFound, swapID)
	}
	if err != nil {
		return nil, err
	}

	return &swap, nil
}

func (d *Database) ListSwaps(ctx context.Context, status *models.SwapStatus) ([]models.SwapOrder, error) {
	query := d.orm.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var swaps []models.SwapOrder
	if err := query.Find(&swaps).Error; err != nil {
		return nil, err
	}

	return swaps, nil
}
