package dao

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// inMemStore is a dao.Store that keeps its audit log in a process-local
// slice. It is used when the server is started without a --data-dir, for
// quick local testing of the formulon evaluation service without needing a
// sqlite file on disk.
type inMemStore struct {
	audit *inMemAuditRepo
}

// NewInMemoryStore returns a dao.Store whose audit log is held in memory and
// discarded when the process exits.
func NewInMemoryStore() Store {
	return &inMemStore{audit: &inMemAuditRepo{}}
}

func (s *inMemStore) Audit() AuditRepository { return s.audit }
func (s *inMemStore) Close() error           { return nil }

type inMemAuditRepo struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (r *inMemAuditRepo) Create(ctx context.Context, e AuditEntry) (AuditEntry, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return AuditEntry{}, err
	}
	e.ID = id
	e.Created = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *inMemAuditRepo) GetByID(ctx context.Context, id uuid.UUID) (AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return AuditEntry{}, ErrNotFound
}

func (r *inMemAuditRepo) GetAll(ctx context.Context) ([]AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AuditEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *inMemAuditRepo) Close() error { return nil }
