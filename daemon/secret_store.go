package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/spf13/afero"
)

// SecretStore holds settlement secrets keyed by swap id. Secrets never
// reach the swap record: the store is the only place a preimage lives
// between swap creation and settlement, and it forgets the secret as soon
// as settlement makes it public.
type SecretStore interface {
	Put(swapID string, preimage lntypes.Preimage) error
	Get(swapID string) (lntypes.Preimage, bool, error)
	Delete(swapID string) error
}

// MemorySecretStore keeps secrets in process memory. It suits a long-lived
// daemon; one-shot commands need a vault that outlives the process.
type MemorySecretStore struct {
	mu      sync.RWMutex
	secrets map[string]lntypes.Preimage
}

var _ SecretStore = (*MemorySecretStore)(nil)

func NewMemorySecretStore() *MemorySecretStore {
	return &MemorySecretStore{
		secrets: make(map[string]lntypes.Preimage),
	}
}

func (s *MemorySecretStore) Put(swapID string, preimage lntypes.Preimage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[swapID] = preimage

	return nil
}

func (s *MemorySecretStore) Get(swapID string) (lntypes.Preimage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	preimage, ok := s.secrets[swapID]

	return preimage, ok, nil
}

func (s *MemorySecretStore) Delete(swapID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, swapID)

	return nil
}

// FileSecretVault keeps secrets in an owner-only file, separate from the
// swap record store, so a swap created by one process can be settled by
// another. Entries are removed on settlement like the in-memory store's.
type FileSecretVault struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

var _ SecretStore = (*FileSecretVault)(nil)

func NewFileSecretVault(fs afero.Fs, path string) *FileSecretVault {
	return &FileSecretVault{
		fs:   fs,
		path: path,
	}
}

func (v *FileSecretVault) load() (map[string]lntypes.Preimage, error) {
	raw, err := afero.ReadFile(v.fs, v.path)
	if os.IsNotExist(err) {
		return map[string]lntypes.Preimage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read secret vault: %w", err)
	}
	if len(raw) == 0 {
		return map[string]lntypes.Preimage{}, nil
	}

	var encoded map[string]string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("malformed secret vault %s: %w", v.path, err)
	}

	secrets := make(map[string]lntypes.Preimage, len(encoded))
	for swapID, hexPreimage := range encoded {
		preimage, err := lntypes.MakePreimageFromStr(hexPreimage)
		if err != nil {
			return nil, fmt.Errorf("malformed secret vault entry %s: %w", swapID, err)
		}
		secrets[swapID] = preimage
	}

	return secrets, nil
}

func (v *FileSecretVault) write(secrets map[string]lntypes.Preimage) error {
	encoded := make(map[string]string, len(secrets))
	for swapID, preimage := range secrets {
		encoded[swapID] = preimage.String()
	}

	raw, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode secret vault: %w", err)
	}

	if err := v.fs.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("failed to create secret vault directory: %w", err)
	}

	tmp := v.path + ".tmp"
	if err := afero.WriteFile(v.fs, tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write secret vault: %w", err)
	}
	if err := v.fs.Rename(tmp, v.path); err != nil {
		return fmt.Errorf("failed to replace secret vault: %w", err)
	}

	return nil
}

func (v *FileSecretVault) Put(swapID string, preimage lntypes.Preimage) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	secrets, err := v.load()
	if err != nil {
		return err
	}
	secrets[swapID] = preimage

	return v.write(secrets)
}

func (v *FileSecretVault) Get(swapID string) (lntypes.Preimage, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	secrets, err := v.load()
	if err != nil {
		return lntypes.Preimage{}, false, err
	}
	preimage, ok := secrets[swapID]

	return preimage, ok, nil
}

func (v *FileSecretVault) Delete(swapID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	secrets, err := v.load()
	if err != nil {
		return err
	}
	if _, ok := secrets[swapID]; !ok {
		return nil
	}
	delete(secrets, swapID)

	return v.write(secrets)
}
