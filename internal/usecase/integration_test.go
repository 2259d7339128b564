//go:build integration

package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetu-io/vaultctl/internal/adapters/artifacts"
	"github.com/tetu-io/vaultctl/internal/adapters/blockchain"
	"github.com/tetu-io/vaultctl/internal/adapters/fs"
	"github.com/tetu-io/vaultctl/internal/addressbook"
	"github.com/tetu-io/vaultctl/internal/config"
	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
	domainconfig "github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// harness wires the real adapters against an in-process chain. It needs the
// compiled protocol artifacts in VAULTCTL_ARTIFACTS.
type harness struct {
	cfg       *domainconfig.RuntimeConfig
	connector *blockchain.Connector
	repo      *artifacts.Repository
	session   *usecase.DeploySession

	deployCore *usecase.DeployCore
	connect    *usecase.ConnectCore
	mockToken  *usecase.DeployMockToken
	vault      *usecase.DeployVault
	announce   *usecase.Announce
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := os.Getenv("VAULTCTL_ARTIFACTS")
	if dir == "" {
		t.Skip("VAULTCTL_ARTIFACTS not set")
	}

	cfg := &domainconfig.RuntimeConfig{
		ProjectRoot:  t.TempDir(),
		ArtifactsDir: dir,
		Network: &domainconfig.Network{
			Name:      config.SimulatedNetwork,
			ChainID:   config.SimulatedChainID,
			Simulated: true,
			Local:     true,
		},
		PollInterval: 10 * time.Millisecond,
	}
	cfg.DataDir = cfg.ProjectRoot + "/.vaultctl"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	connector := blockchain.NewConnector(cfg, logger)
	t.Cleanup(connector.Close)

	repo := artifacts.NewRepositoryAt(dir)
	store := fs.NewDeploymentStoreAdapter(cfg)
	book := addressbook.Default()
	session := usecase.NewDeploySession()
	connect := usecase.NewConnectCore(connector, repo, book, store, logger)

	return &harness{
		cfg:        cfg,
		connector:  connector,
		repo:       repo,
		session:    session,
		deployCore: usecase.NewDeployCore(connector, repo, store, cfg, usecase.NopProgress{}, logger),
		connect:    connect,
		mockToken:  usecase.NewDeployMockToken(connector, repo, store, cfg, logger),
		vault:      usecase.NewDeployVault(connector, repo, book, connect, store, cfg, usecase.NopProgress{}, logger),
		announce:   usecase.NewAnnounce(connect, session, logger),
	}
}

func TestIntegration_DeployCore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.deployCore.Run(ctx, h.session, usecase.DeployCoreParams{TimeLock: 1})
	require.NoError(t, err)
	require.False(t, res.Cached)
	require.NoError(t, res.Core.Addresses().Validate())

	bookkeeper, err := res.Core.Controller.Bookkeeper(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Core.Bookkeeper.Address(), bookkeeper)

	announcer, err := res.Core.Controller.Announcer(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Core.Announcer.Address(), announcer)

	timeLock, err := res.Core.Announcer.TimeLock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), timeLock.Int64())

	again, err := h.deployCore.Run(ctx, h.session, usecase.DeployCoreParams{TimeLock: 1})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Same(t, res.Core, again.Core)

	connected, err := h.connect.Run(ctx, h.session, usecase.ConnectCoreParams{Check: true})
	require.NoError(t, err)
	assert.Equal(t, usecase.CoreSourceSession, connected.Source)
	for _, check := range connected.Checks {
		assert.True(t, check.OK(), check.Name)
	}
}

func TestIntegration_NotGovernanceReverts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.deployCore.Run(ctx, h.session, usecase.DeployCoreParams{TimeLock: 1, SkipSave: true})
	require.NoError(t, err)

	outsider, err := h.connector.Simulated().Client(ctx, 1)
	require.NoError(t, err)
	art, err := h.repo.Get(usecase.ControllerArtifact)
	require.NoError(t, err)

	controller := bindings.NewController(outsider.At(art, res.Core.Controller.Address()))
	_, err = controller.SetBookkeeper(ctx, outsider.From())
	require.Error(t, err)

	reason, ok := domain.RevertReason(err)
	require.True(t, ok, "expected a revert, got %v", err)
	assert.Contains(t, reason, "Not governance")
}

func TestIntegration_VaultAndAnnouncement(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	core, err := h.deployCore.Run(ctx, h.session, usecase.DeployCoreParams{TimeLock: 1})
	require.NoError(t, err)

	token, err := h.mockToken.Run(ctx, usecase.DeployMockTokenParams{Symbol: "USDC", Decimals: 6})
	require.NoError(t, err)
	tokenAddr := token.Token.Address()

	vault, err := h.vault.Run(ctx, h.session, usecase.DeployVaultParams{
		Name:                "USDC",
		Underlying:          tokenAddr,
		StrategyRewardToken: &tokenAddr,
	})
	require.NoError(t, err)
	assert.Equal(t, "TETU_USDC", vault.VaultName)

	valid, err := core.Core.Controller.IsValidVault(ctx, vault.Vault.Address())
	require.NoError(t, err)
	assert.True(t, valid)

	underlying, err := vault.Vault.Underlying(ctx)
	require.NoError(t, err)
	assert.Equal(t, tokenAddr, underlying)

	queued, err := h.announce.RatioChange(ctx, domain.OpPsRatio, big.NewInt(50), big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, bindings.OpHash(domain.OpPsRatio, big.NewInt(50), big.NewInt(100)), queued.OpHash)

	info, err := h.announce.Info(ctx, domain.OpPsRatio, domain.ZeroAddress)
	require.NoError(t, err)
	require.True(t, info.Pending)
	assert.Equal(t, queued.OpHash, info.Info.OpHash)
}
