package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"github.com/40acres/lnswapd/database/models"
)

// FileStore is a SwapRepository backed by a single JSON array on disk. It
// is meant for lightweight setups without postgres; every mutation rewrites
// the file atomically.
type FileStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

var _ SwapRepository = (*FileStore)(nil)

func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{
		fs:   fs,
		path: path,
	}
}

func (s *FileStore) load() ([]models.SwapOrder, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read swap store: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var swaps []models.SwapOrder
	if err := json.Unmarshal(raw, &swaps); err != nil {
		return nil, fmt.Errorf("malformed swap store %s: %w", s.path, err)
	}

	return swaps, nil
}

// write replaces the store contents through a temp file and rename, so a
// crash mid-write never leaves a truncated store behind.
func (s *FileStore) write(swaps []models.SwapOrder) error {
	raw, err := json.MarshalIndent(swaps, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode swap store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create swap store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write swap store: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace swap store: %w", err)
	}

	return nil
}

func (s *FileStore) SaveSwap(_ context.Context, swap *models.SwapOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	swaps, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range swaps {
		if swaps[i].SwapID == swap.SwapID {
			swaps[i] = *swap
			replaced = true

			break
		}
	}
	if !replaced {
		swaps = append(swaps, *swap)
	}

	return s.write(swaps)
}

func (s *FileStore) GetSwap(_ context.Context, swapID string) (*models.SwapOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swaps, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range swaps {
		if swaps[i].SwapID == swapID {
			swap := swaps[i]

			return &swap, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrSwapNotFound, swapID)
}

func (s *FileStore) ListSwaps(_ context.Context, status *models.SwapStatus) ([]models.SwapOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swaps, err := s.load()
	if err != nil {
		return nil, err
	}

	filtered := make([]models.SwapOrder, 0, len(swaps))
	for _, swap := range swaps {
		if status != nil && swap.Status != *status {
			continue
		}
		filtered = append(filtered, swap)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered, nil
}
