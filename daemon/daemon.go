// Package daemon orchestrates swaps between configured lightning nodes: it
// owns the swap lifecycle, the in-memory settlement secrets, and the
// independent balance verification of every payment.
package daemon

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	decodepay "github.com/nbd-wtf/ln-decodepay"
	log "github.com/sirupsen/logrus"

	"github.com/40acres/lnswapd/database"
	"github.com/40acres/lnswapd/database/models"
	"github.com/40acres/lnswapd/lightning"
)

type Option func(*Orchestrator)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithInvoiceDecoder overrides the bolt11 decoder, for tests.
func WithInvoiceDecoder(decode func(string) (decodepay.Bolt11, error)) Option {
	return func(o *Orchestrator) {
		o.decode = decode
	}
}

// WithSecretStore selects where settlement secrets live. One-shot CLI
// invocations need a FileSecretVault so a hodl swap created by one process
// can still be settled by a later one.
func WithSecretStore(secrets SecretStore) Option {
	return func(o *Orchestrator) {
		o.secrets = secrets
	}
}

// Orchestrator drives swaps across the configured nodes. It is the only
// writer of swap records.
type Orchestrator struct {
	repository database.SwapRepository
	clients    map[string]lightning.Client
	aliases    []string
	secrets    SecretStore
	now        func() time.Time
	decode     func(string) (decodepay.Bolt11, error)

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewOrchestrator(repository database.SwapRepository, clients map[string]lightning.Client, opts ...Option) *Orchestrator {
	aliases := make([]string, 0, len(clients))
	for alias := range clients {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	o := &Orchestrator{
		repository: repository,
		clients:    clients,
		aliases:    aliases,
		secrets:    NewMemorySecretStore(),
		now:        time.Now,
		decode:     decodepay.Decodepay,
		inFlight:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *Orchestrator) client(alias string) (lightning.Client, error) {
	client, ok := o.clients[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, alias)
	}

	return client, nil
}

// tryAcquire claims the single execution slot for a swap id.
func (o *Orchestrator) tryAcquire(swapID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, busy := o.inFlight[swapID]; busy {
		return false
	}
	o.inFlight[swapID] = struct{}{}

	return true
}

func (o *Orchestrator) release(swapID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, swapID)
}

// newSwapID builds an id like swap_1700000000_a1b2c3d4.
func (o *Orchestrator) newSwapID() (string, error) {
	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("failed to generate swap id: %w", err)
	}

	return fmt.Sprintf("swap_%d_%x", o.now().Unix(), suffix), nil
}

// dropSecret forgets a swap's secret; a swap that can no longer settle
// must not keep its preimage around. Vault trouble is logged, not fatal.
func (o *Orchestrator) dropSecret(swapID string) {
	if err := o.secrets.Delete(swapID); err != nil {
		log.WithField("id", swapID).WithError(err).Error("failed to drop swap secret")
	}
}

func (o *Orchestrator) GetSwap(ctx context.Context, swapID string) (*models.SwapOrder, error) {
	return o.repository.GetSwap(ctx, swapID)
}

func (o *Orchestrator) ListSwaps(ctx context.Context, status *models.SwapStatus) ([]models.SwapOrder, error) {
	return o.repository.ListSwaps(ctx, status)
}
