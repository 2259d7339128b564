package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/config"
)

// Repository indexes compiled contract artifacts under a directory.
// Both Hardhat (bytecode as a string) and Foundry (bytecode.object) layouts are read.
type Repository struct {
	root    string
	mu      sync.RWMutex
	indexed bool
	byName  map[string][]string // contract name -> artifact paths
}

// NewRepository creates a repository rooted at the configured artifacts directory.
func NewRepository(cfg *config.RuntimeConfig) *Repository {
	return NewRepositoryAt(cfg.ArtifactsDir)
}

// NewRepositoryAt creates a repository rooted at dir.
func NewRepositoryAt(dir string) *Repository {
	return &Repository{root: dir}
}

// Root returns the directory the repository reads from.
func (r *Repository) Root() string {
	return r.root
}

// artifactFile covers both supported layouts.
type artifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     bytecodeField   `json:"bytecode"`
}

type bytecodeField string

func (b *bytecodeField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = bytecodeField(s)
		return nil
	}
	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*b = bytecodeField(obj.Object)
	return nil
}

func (r *Repository) index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	if _, err := os.Stat(r.root); err != nil {
		return fmt.Errorf("artifacts directory %s: %w", r.root, err)
	}

	byName := make(map[string][]string)
	err := filepath.Walk(r.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		byName[name] = append(byName[name], path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts: %w", err)
	}

	r.byName = byName
	r.indexed = true
	return nil
}

// Get loads the artifact for a contract name. The name may be qualified with
// part of its path ("governance/Controller") to resolve ambiguity.
func (r *Repository) Get(name string) (*domain.Artifact, error) {
	if err := r.index(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	base := strings.TrimSuffix(filepath.Base(name), ".json")
	candidates := r.byName[base]
	r.mu.RUnlock()

	if strings.Contains(name, "/") {
		candidates = lo.Filter(candidates, func(p string, _ int) bool {
			return strings.Contains(filepath.ToSlash(p), name)
		})
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
	case 1:
		return Load(candidates[0])
	default:
		return nil, domain.AmbiguousArtifactErr{Name: name, Matches: candidates}
	}
}

// List returns every indexed contract name, sorted.
func (r *Repository) List() ([]string, error) {
	if err := r.index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.byName)
	sort.Strings(names)
	return names, nil
}

// Load parses a single artifact file.
func Load(path string) (*domain.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if len(file.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", path)
	}

	parsed, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi of %s: %w", path, err)
	}

	var code []byte
	if hex := string(file.Bytecode); hex != "" && hex != "0x" {
		if !strings.HasPrefix(hex, "0x") {
			hex = "0x" + hex
		}
		if code, err = hexutil.Decode(hex); err != nil {
			return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
		}
	}

	name := file.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	return &domain.Artifact{
		Name:     name,
		Path:     path,
		ABI:      parsed,
		Bytecode: code,
	}, nil
}
