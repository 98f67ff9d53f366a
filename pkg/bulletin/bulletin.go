// Package bulletin implements a public board of posted proofs that anyone can
// audit against a proof generator.
package bulletin

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/zk/sigma"
	"github.com/mr-shifu/sigma-lib/pkg/common/vault"
	inmemory "github.com/mr-shifu/sigma-lib/pkg/vault"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 8

var (
	ErrNilProof       = errors.New("bulletin: nil proof")
	ErrNilPublicInput = errors.New("bulletin: nil public input")
	ErrEntryNotFound  = errors.New("bulletin: entry not found")
)

// Entry is a posted proof together with the statement it proves.
type Entry struct {
	ID       uuid.UUID
	ProverID []byte
	// Public is the canonical encoding of the public input.
	Public []byte
	// Proof is the CBOR encoding of the proof.
	Proof []byte
}

// Decode parses the public input and proof of e for g.
func (e *Entry) Decode(g sigma.Generator) (group.Element, *sigma.Proof, error) {
	public, err := g.PublicInputSpace().Decode(e.Public)
	if err != nil {
		return nil, nil, fmt.Errorf("bulletin: public input: %w", err)
	}
	proof, err := sigma.UnmarshalProof(g, e.Proof)
	if err != nil {
		return nil, nil, fmt.Errorf("bulletin: proof: %w", err)
	}
	return public, proof, nil
}

type Option func(*Board)

// WithLogger sets the logger used to report rejected entries.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Board) {
		if log != nil {
			b.log = log
		}
	}
}

// WithConcurrency bounds the number of entries verified at once by Audit.
func WithConcurrency(n int) Option {
	return func(b *Board) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithVault sets the store holding encoded entries.
func WithVault(v vault.Vault) Option {
	return func(b *Board) {
		if v != nil {
			b.vault = v
		}
	}
}

// Board is safe for concurrent use.
type Board struct {
	vault       vault.Vault
	log         logrus.FieldLogger
	concurrency int
}

func New(opts ...Option) *Board {
	b := &Board{
		log:         logrus.StandardLogger(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.vault == nil {
		b.vault = inmemory.InMemoryVaultFactory{}.NewVault(nil)
	}
	return b
}

// Post stores proof for public under a fresh id. The proof is not verified.
func (b *Board) Post(proverID []byte, public group.Element, proof *sigma.Proof) (uuid.UUID, error) {
	if public == nil {
		return uuid.Nil, ErrNilPublicInput
	}
	if proof == nil {
		return uuid.Nil, ErrNilProof
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("bulletin: %w", err)
	}
	pub, err := public.MarshalBinary()
	if err != nil {
		return uuid.Nil, fmt.Errorf("bulletin: public input: %w", err)
	}
	p, err := cbor.Marshal(proof)
	if err != nil {
		return uuid.Nil, fmt.Errorf("bulletin: proof: %w", err)
	}
	data, err := cbor.Marshal(&Entry{
		ID:       id,
		ProverID: proverID,
		Public:   pub,
		Proof:    p,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("bulletin: %w", err)
	}
	if err := b.vault.Import(id.String(), data); err != nil {
		return uuid.Nil, fmt.Errorf("bulletin: %w", err)
	}
	return id, nil
}

func (b *Board) Get(id uuid.UUID) (*Entry, error) {
	data, err := b.vault.Get(id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	entry := &Entry{}
	if err := cbor.Unmarshal(data, entry); err != nil {
		return nil, fmt.Errorf("bulletin: entry %s: %w", id, err)
	}
	if entry.ID != id {
		return nil, fmt.Errorf("bulletin: entry %s stored under %s", entry.ID, id)
	}
	return entry, nil
}

func (b *Board) Delete(id uuid.UUID) error {
	if err := b.vault.Delete(id.String()); err != nil {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return nil
}

// IDs returns the ids of all entries in the order they were posted.
func (b *Board) IDs() []uuid.UUID {
	keys := b.vault.IDs()
	ids := make([]uuid.UUID, 0, len(keys))
	for _, key := range keys {
		id, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (b *Board) Len() int { return len(b.vault.IDs()) }

// Report lists audited entries in post order.
type Report struct {
	Accepted []uuid.UUID
	Rejected []uuid.UUID
}

// Valid reports whether no entry was rejected.
func (r *Report) Valid() bool { return len(r.Rejected) == 0 }

// Audit verifies every entry against g. An entry that cannot be decoded or
// whose proof fails is rejected and logged; the audit carries on with the
// remaining entries. Audit only fails if ctx is cancelled.
func (b *Board) Audit(ctx context.Context, g sigma.Generator) (*Report, error) {
	ids := b.IDs()
	accepted := make([]bool, len(ids))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.concurrency)
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			accepted[i] = b.verify(g, id)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := &Report{}
	for i, id := range ids {
		if accepted[i] {
			report.Accepted = append(report.Accepted, id)
		} else {
			report.Rejected = append(report.Rejected, id)
		}
	}
	b.log.WithFields(logrus.Fields{
		"function": "Audit",
		"accepted": len(report.Accepted),
		"rejected": len(report.Rejected),
	}).Info("audit complete")
	return report, nil
}

func (b *Board) verify(g sigma.Generator, id uuid.UUID) bool {
	log := b.log.WithFields(logrus.Fields{
		"function": "Audit",
		"entry":    id.String(),
	})
	entry, err := b.Get(id)
	if err != nil {
		log.WithError(err).Warn("entry unavailable")
		return false
	}
	public, proof, err := entry.Decode(g)
	if err != nil {
		log.WithError(err).Warn("rejected malformed entry")
		return false
	}
	if !g.Verify(proof, public, entry.ProverID) {
		log.Warn("rejected invalid proof")
		return false
	}
	return true
}
