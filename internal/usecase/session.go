package usecase

import (
	"sync"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
)

// DeploySession memoizes core deployments per chain for the lifetime of one
// process. Callers create it and pass it to the deploy use cases; nothing is
// cached globally.
type DeploySession struct {
	mu      sync.Mutex
	cores   map[uint64]*bindings.CoreContracts
	records map[uint64]*domain.DeploymentRecord
}

func NewDeploySession() *DeploySession {
	return &DeploySession{
		cores:   make(map[uint64]*bindings.CoreContracts),
		records: make(map[uint64]*domain.DeploymentRecord),
	}
}

// Core returns the cached core contracts for chainID.
func (s *DeploySession) Core(chainID uint64) (*bindings.CoreContracts, *domain.DeploymentRecord, bool) {
	if s == nil {
		return nil, nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	core, ok := s.cores[chainID]
	return core, s.records[chainID], ok
}

func (s *DeploySession) store(chainID uint64, core *bindings.CoreContracts, record *domain.DeploymentRecord) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cores[chainID] = core
	s.records[chainID] = record
}

// Reset drops every cached deployment, e.g. after reverting a dev node snapshot.
func (s *DeploySession) Reset() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cores = make(map[uint64]*bindings.CoreContracts)
	s.records = make(map[uint64]*domain.DeploymentRecord)
}
