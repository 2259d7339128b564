package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// DeploymentStoreAdapter keeps one JSON record per chain under
// <data dir>/deployments/<chainId>/core.json.
type DeploymentStoreAdapter struct {
	root        string
	projectRoot string
	mu          sync.Mutex
}

// NewDeploymentStoreAdapter creates a new DeploymentStoreAdapter
func NewDeploymentStoreAdapter(cfg *config.RuntimeConfig) *DeploymentStoreAdapter {
	return &DeploymentStoreAdapter{
		root:        filepath.Join(cfg.DataDir, "deployments"),
		projectRoot: cfg.ProjectRoot,
	}
}

func (s *DeploymentStoreAdapter) path(chainID uint64) string {
	return filepath.Join(s.root, strconv.FormatUint(chainID, 10), "core.json")
}

// Load reads the record for chainID. Returns domain.ErrNotFound if there is none.
func (s *DeploymentStoreAdapter) Load(_ context.Context, chainID uint64) (*domain.DeploymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(chainID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deployment for chain %d: %w", chainID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read deployment file: %w", err)
	}

	var record domain.DeploymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse deployment file: %w", err)
	}
	return &record, nil
}

// Save writes the record, replacing any previous one for the same chain.
func (s *DeploymentStoreAdapter) Save(_ context.Context, record *domain.DeploymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(record.ChainID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create deployment directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deployment: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write deployment file: %w", err)
	}
	return os.Rename(tmp, path)
}

// ExportCoreAddresses writes the address triple in the line format of
// tmp/core_addresses.txt. Relative paths resolve against the project root.
func (s *DeploymentStoreAdapter) ExportCoreAddresses(_ context.Context, path string, core domain.CoreAddresses) error {
	if !filepath.IsAbs(path) && s.projectRoot != "" {
		path = filepath.Join(s.projectRoot, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	content := core.Controller.Hex() + ", // controller\n" +
		core.Announcer.Hex() + ", // announcer\n" +
		core.Bookkeeper.Hex() + ", // bookkeeper\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write core addresses: %w", err)
	}
	return nil
}

var _ usecase.DeploymentStore = (*DeploymentStoreAdapter)(nil)
