package usecase

import (
	"context"
	"io"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
	"github.com/tetu-io/vaultctl/internal/domain/config"
)

// Chain is a signing connection to one network
type Chain interface {
	ChainID() uint64
	From() common.Address
	IsLocal() bool
	Deploy(ctx context.Context, art *domain.Artifact, args ...any) (bindings.Contract, *types.Receipt, error)
	At(art *domain.Artifact, address common.Address) bindings.Contract
	AtABI(name string, parsed abi.ABI, address common.Address) bindings.Contract
	BlockNumber(ctx context.Context) (uint64, error)
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	WaitConfirmations(ctx context.Context, blocks uint64) error
	AdvanceTime(ctx context.Context, d time.Duration) error
}

// ChainProvider opens the connection for the configured network
type ChainProvider interface {
	Connect(ctx context.Context) (Chain, error)
}

// ArtifactRepository provides compiled contracts
type ArtifactRepository interface {
	Get(name string) (*domain.Artifact, error)
	List() ([]string, error)
}

// AddressBook provides the static per-chain address tables
type AddressBook interface {
	Core(chainID string) (domain.CoreAddresses, error)
	Tools(chainID string) (domain.ToolsAddresses, error)
	Tokens(chainID string) (domain.TokenBook, error)
	Token(chainID, symbol string) (common.Address, error)
	NetworkToken(chainID string) (common.Address, error)
	Governance(chainID string) (common.Address, error)
	CoreChains() []string
	ToolsChains() []string
	TokenChains() []string
}

// DeploymentStore persists deployment records per chain
type DeploymentStore interface {
	Load(ctx context.Context, chainID uint64) (*domain.DeploymentRecord, error)
	Save(ctx context.Context, record *domain.DeploymentRecord) error
	ExportCoreAddresses(ctx context.Context, path string, core domain.CoreAddresses) error
}

// ContractVerifier submits source verification to a block explorer
type ContractVerifier interface {
	Verify(ctx context.Context, req VerifyRequest) error
}

// AnvilManager manages local anvil processes
type AnvilManager interface {
	Start(ctx context.Context, instance *domain.AnvilInstance) error
	Stop(ctx context.Context, instance *domain.AnvilInstance) error
	GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error)
	StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error
}

// DevNode exposes the test-only RPC methods of a local node
type DevNode interface {
	Snapshot(ctx context.Context) (string, error)
	Revert(ctx context.Context, id string) (bool, error)
	IncreaseTime(ctx context.Context, seconds uint64) error
	Mine(ctx context.Context, blocks uint64) error
	SetBalance(ctx context.Context, account common.Address, wei *big.Int) error
	Impersonate(ctx context.Context, account common.Address) error
	StopImpersonating(ctx context.Context, account common.Address) error
	SetStorageAt(ctx context.Context, account common.Address, slot, value common.Hash) error
	StorageAt(ctx context.Context, account common.Address, slot common.Hash) (common.Hash, error)
}

// DevNodeProvider connects to the dev node of the configured network
type DevNodeProvider interface {
	DevNode(ctx context.Context) (DevNode, error)
}

// NetworkResolver resolves network configurations
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// ArtifactSelector lets the user pick one artifact when a name is ambiguous
type ArtifactSelector interface {
	SelectArtifact(ctx context.Context, names []string, prompt string) (string, error)
}

// Confirmer asks the user before broadcasting to a live network
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
