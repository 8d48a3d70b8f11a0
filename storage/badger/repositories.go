package badger

import (
	"github.com/poiesic/recallit/storage"
)

// Repositories bundles every repository backed by a single Badger store.
type Repositories struct {
	Backend *Backend
	Chunks  storage.ChunkRepository
	Vectors storage.VectorRepository
	Reports storage.ReportRepository
	States  storage.SourceStateRepository
}

// NewRepositories opens a Badger store at filePath and wires up all
// repositories over it. With inMemory set, the store lives entirely in
// memory, which is what the tests use.
func NewRepositories(filePath string, inMemory bool) (*Repositories, error) {
	backend, err := OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	chunks, err := NewChunkRepository(backend)
	if err != nil {
		return nil, err
	}
	vectors, err := NewVectorRepository(backend)
	if err != nil {
		return nil, err
	}
	reports, err := NewReportRepository(backend)
	if err != nil {
		return nil, err
	}
	states, err := NewSourceStateRepository(backend)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Backend: backend,
		Chunks:  chunks,
		Vectors: vectors,
		Reports: reports,
		States:  states,
	}, nil
}

// NewMemoryRepositories wires up all repositories over an in-memory store.
func NewMemoryRepositories() (*Repositories, error) {
	return NewRepositories("", true)
}

// Close closes the underlying store.
func (r *Repositories) Close() error {
	return r.Backend.Close()
}
