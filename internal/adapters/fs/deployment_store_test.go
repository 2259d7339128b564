package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/config"
)

func newTestDeploymentStore(t *testing.T) (*DeploymentStoreAdapter, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.RuntimeConfig{
		ProjectRoot: root,
		DataDir:     filepath.Join(root, ".vaultctl"),
	}
	return NewDeploymentStoreAdapter(cfg), root
}

var testCore = domain.CoreAddresses{
	Controller: common.HexToAddress("0x1111111111111111111111111111111111111111"),
	Announcer:  common.HexToAddress("0x2222222222222222222222222222222222222222"),
	Bookkeeper: common.HexToAddress("0x3333333333333333333333333333333333333333"),
}

func TestDeploymentStore_LoadMissing(t *testing.T) {
	store, _ := newTestDeploymentStore(t)

	_, err := store.Load(context.Background(), 31337)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeploymentStore_SaveAndLoad(t *testing.T) {
	store, root := newTestDeploymentStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	record := &domain.DeploymentRecord{
		ID:        "abc",
		Network:   "local",
		ChainID:   31337,
		Core:      testCore,
		TimeLock:  86400,
		CreatedAt: now,
	}
	record.Add(domain.ContractRecord{
		Name:    "Controller",
		Address: testCore.Controller,
		Proxy:   true,
		Logic:   common.HexToAddress("0x4444444444444444444444444444444444444444"),
	})
	require.NoError(t, store.Save(ctx, record))

	assert.FileExists(t, filepath.Join(root, ".vaultctl", "deployments", "31337", "core.json"))

	loaded, err := store.Load(ctx, 31337)
	require.NoError(t, err)
	assert.Equal(t, record.Core, loaded.Core)
	assert.Equal(t, record.Logic, loaded.Logic)
	assert.Equal(t, now, loaded.CreatedAt)
	require.Len(t, loaded.Contracts, 1)
	assert.True(t, loaded.Contracts[0].Proxy)

	// other chains stay empty
	_, err = store.Load(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeploymentStore_LoadCorrupt(t *testing.T) {
	store, root := newTestDeploymentStore(t)
	dir := filepath.Join(root, ".vaultctl", "deployments", "5")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.json"), []byte("{"), 0644))

	_, err := store.Load(context.Background(), 5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestDeploymentStore_ExportCoreAddresses(t *testing.T) {
	store, root := newTestDeploymentStore(t)

	require.NoError(t, store.ExportCoreAddresses(context.Background(), "tmp/core_addresses.txt", testCore))

	data, err := os.ReadFile(filepath.Join(root, "tmp", "core_addresses.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"0x1111111111111111111111111111111111111111, // controller\n"+
			"0x2222222222222222222222222222222222222222, // announcer\n"+
			"0x3333333333333333333333333333333333333333, // bookkeeper\n",
		string(data))
}
