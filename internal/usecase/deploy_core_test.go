package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetu-io/vaultctl/internal/addressbook"
	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(chainID uint64) *config.RuntimeConfig {
	return &config.RuntimeConfig{Network: &config.Network{Name: "local", ChainID: chainID, Local: true}}
}

func newDeployCore(chain *fakeChain, store *memStore) (*usecase.DeployCore, *recordingProgress) {
	progress := &recordingProgress{}
	return usecase.NewDeployCore(fakeChains{chain: chain}, coreArtifacts(), store, testConfig(chain.id), progress, testLogger()), progress
}

func TestDeployCore(t *testing.T) {
	ctx := context.Background()

	t.Run("deploys and wires the core contracts", func(t *testing.T) {
		chain := newFakeChain(31337)
		store := newMemStore()
		uc, progress := newDeployCore(chain, store)

		result, err := uc.Run(ctx, usecase.NewDeploySession(), usecase.DeployCoreParams{TimeLock: usecase.DefaultTimeLock, WaitBlocks: 2})
		require.NoError(t, err)
		assert.False(t, result.Cached)

		assert.Equal(t, []string{
			"Controller", "TetuProxyControlled",
			"Announcer", "TetuProxyControlled",
			"Bookkeeper", "TetuProxyControlled",
		}, chain.deployed)

		addrs := result.Core.Addresses()
		require.NoError(t, addrs.Validate())
		assert.Equal(t, addrs, result.Record.Core)

		// the controller points at the deployed instances
		bookkeeper, err := result.Core.Controller.Bookkeeper(ctx)
		require.NoError(t, err)
		assert.Equal(t, addrs.Bookkeeper, bookkeeper)
		announcer, err := result.Core.Controller.Announcer(ctx)
		require.NoError(t, err)
		assert.Equal(t, addrs.Announcer, announcer)

		announcerTxs := chain.stateOf(addrs.Announcer).sent("initialize")
		require.Len(t, announcerTxs, 1)
		assert.Equal(t, addrs.Controller, announcerTxs[0].Args[0])
		assert.Equal(t, int64(86400), announcerTxs[0].Args[1].(*big.Int).Int64())

		// every deploy and tx waited for the configured confirmations
		for _, w := range chain.waits {
			assert.Equal(t, uint64(2), w)
		}
		assert.Len(t, chain.waits, 6+5)

		assert.Len(t, progress.events, 4)
		assert.Equal(t, 1, store.saves)
		assert.Len(t, result.Record.Logic, 3)
	})

	t.Run("session returns the cached core", func(t *testing.T) {
		chain := newFakeChain(31337)
		uc, _ := newDeployCore(chain, newMemStore())
		session := usecase.NewDeploySession()

		first, err := uc.Run(ctx, session, usecase.DeployCoreParams{TimeLock: 1})
		require.NoError(t, err)
		second, err := uc.Run(ctx, session, usecase.DeployCoreParams{TimeLock: 1})
		require.NoError(t, err)

		assert.True(t, second.Cached)
		assert.Same(t, first.Core, second.Core)
		assert.Len(t, chain.deployed, 6)

		// a fresh session deploys again
		third, err := uc.Run(ctx, usecase.NewDeploySession(), usecase.DeployCoreParams{TimeLock: 1})
		require.NoError(t, err)
		assert.NotEqual(t, first.Core.Addresses(), third.Core.Addresses())
		assert.Len(t, chain.deployed, 12)
	})

	t.Run("reset drops the cache", func(t *testing.T) {
		chain := newFakeChain(31337)
		uc, _ := newDeployCore(chain, newMemStore())
		session := usecase.NewDeploySession()

		_, err := uc.Run(ctx, session, usecase.DeployCoreParams{TimeLock: 1})
		require.NoError(t, err)
		session.Reset()
		_, _, ok := session.Core(31337)
		assert.False(t, ok)

		var none *usecase.DeploySession
		assert.NotPanics(t, none.Reset)
	})

	t.Run("failure aborts without caching", func(t *testing.T) {
		chain := newFakeChain(31337)
		chain.onDeploy = func(name string, st *contractState) {
			if name == usecase.ProxyArtifact {
				st.reverts["setAnnouncer"] = &domain.RevertError{Reason: "C: Not governance"}
			}
		}
		store := newMemStore()
		uc, _ := newDeployCore(chain, store)
		session := usecase.NewDeploySession()

		_, err := uc.Run(ctx, session, usecase.DeployCoreParams{TimeLock: 1})
		require.Error(t, err)
		reason, ok := domain.RevertReason(err)
		require.True(t, ok)
		assert.Equal(t, "C: Not governance", reason)

		_, _, cached := session.Core(31337)
		assert.False(t, cached)
		assert.Zero(t, store.saves)
	})

	t.Run("missing artifact", func(t *testing.T) {
		chain := newFakeChain(31337)
		arts := coreArtifacts()
		delete(arts, usecase.BookkeeperArtifact)
		uc := usecase.NewDeployCore(fakeChains{chain: chain}, arts, newMemStore(), testConfig(31337), usecase.NopProgress{}, testLogger())

		_, err := uc.Run(ctx, usecase.NewDeploySession(), usecase.DeployCoreParams{})
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("simulated network keeps no record", func(t *testing.T) {
		chain := newFakeChain(1337)
		store := newMemStore()
		cfg := &config.RuntimeConfig{Network: &config.Network{Name: "simulated", ChainID: 1337, Simulated: true, Local: true}}
		uc := usecase.NewDeployCore(fakeChains{chain: chain}, coreArtifacts(), store, cfg, usecase.NopProgress{}, testLogger())

		result, err := uc.Run(ctx, usecase.NewDeploySession(), usecase.DeployCoreParams{TimeLock: 1, ExportPath: "tmp/core_addresses.txt"})
		require.NoError(t, err)
		assert.Zero(t, store.saves)
		assert.Empty(t, store.records)
		assert.Equal(t, result.Record.Core, store.exported["tmp/core_addresses.txt"])

		// a later process finds nothing to attach to
		connect := usecase.NewConnectCore(fakeChains{chain: newFakeChain(1337)}, coreArtifacts(), addressbook.Default(), store, testLogger())
		_, err = connect.Run(ctx, usecase.NewDeploySession(), usecase.ConnectCoreParams{})
		assert.ErrorIs(t, err, domain.ErrNoConfig)
	})

	t.Run("exports the address triple", func(t *testing.T) {
		chain := newFakeChain(31337)
		store := newMemStore()
		uc, _ := newDeployCore(chain, store)

		result, err := uc.Run(ctx, usecase.NewDeploySession(), usecase.DeployCoreParams{ExportPath: "tmp/core_addresses.txt", SkipSave: true})
		require.NoError(t, err)
		assert.Equal(t, result.Record.Core, store.exported["tmp/core_addresses.txt"])
		assert.Zero(t, store.saves)
	})
}

func TestConnectCore(t *testing.T) {
	ctx := context.Background()
	book := addressbook.Default()

	t.Run("unknown chain has no config", func(t *testing.T) {
		uc := usecase.NewConnectCore(fakeChains{chain: newFakeChain(999999)}, coreArtifacts(), book, newMemStore(), testLogger())
		_, err := uc.Run(ctx, usecase.NewDeploySession(), usecase.ConnectCoreParams{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNoConfig))
	})

	t.Run("address book entry", func(t *testing.T) {
		uc := usecase.NewConnectCore(fakeChains{chain: newFakeChain(8453)}, coreArtifacts(), book, nil, testLogger())
		result, err := uc.Run(ctx, nil, usecase.ConnectCoreParams{})
		require.NoError(t, err)

		expected, err := book.Core("8453")
		require.NoError(t, err)
		assert.Equal(t, usecase.CoreSourceAddressBook, result.Source)
		assert.Equal(t, expected, result.Addresses)
	})

	t.Run("session first, then checks", func(t *testing.T) {
		chain := newFakeChain(31337)
		session := usecase.NewDeploySession()
		deploy, _ := newDeployCore(chain, newMemStore())
		deployed, err := deploy.Run(ctx, session, usecase.DeployCoreParams{TimeLock: 60})
		require.NoError(t, err)

		controller := chain.stateOf(deployed.Record.Core.Controller)
		controller.returns["governance"] = []any{chain.from}
		chain.stateOf(deployed.Record.Core.Announcer).returns["timeLock"] = []any{bigInt(60)}

		uc := usecase.NewConnectCore(fakeChains{chain: chain}, coreArtifacts(), book, nil, testLogger())
		result, err := uc.Run(ctx, session, usecase.ConnectCoreParams{Check: true})
		require.NoError(t, err)

		assert.Equal(t, usecase.CoreSourceSession, result.Source)
		assert.Equal(t, chain.from, result.Governance)
		assert.Equal(t, int64(60), result.TimeLock.Int64())
		require.Len(t, result.Checks, 2)
		for _, c := range result.Checks {
			assert.True(t, c.OK(), c.Name)
		}
	})

	t.Run("stored deployment", func(t *testing.T) {
		store := newMemStore()
		core := domain.CoreAddresses{
			Controller: common.HexToAddress("0x01"),
			Announcer:  common.HexToAddress("0x02"),
			Bookkeeper: common.HexToAddress("0x03"),
		}
		store.records[31337] = &domain.DeploymentRecord{ChainID: 31337, Core: core}

		uc := usecase.NewConnectCore(fakeChains{chain: newFakeChain(31337)}, coreArtifacts(), book, store, testLogger())
		result, err := uc.Run(ctx, usecase.NewDeploySession(), usecase.ConnectCoreParams{})
		require.NoError(t, err)
		assert.Equal(t, usecase.CoreSourceDeployment, result.Source)
		assert.Equal(t, core, result.Addresses)
	})
}
