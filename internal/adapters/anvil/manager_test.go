package anvil

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/config"
)

func TestBuildAnvilArgs_Basic(t *testing.T) {
	instance := &domain.AnvilInstance{
		Port: "8545",
	}
	args := buildAnvilArgs(instance)
	assert.Equal(t, []string{"--port", "8545", "--host", "0.0.0.0"}, args)
}

func TestBuildAnvilArgs_WithChainID(t *testing.T) {
	instance := &domain.AnvilInstance{
		Port:    "9000",
		ChainID: "31337",
	}
	args := buildAnvilArgs(instance)
	assert.Equal(t, []string{"--port", "9000", "--host", "0.0.0.0", "--chain-id", "31337"}, args)
}

func TestBuildAnvilArgs_Fork(t *testing.T) {
	instance := &domain.AnvilInstance{
		Port:      "9000",
		ChainID:   "137",
		ForkURL:   "https://polygon-rpc.com",
		ForkBlock: 40000000,
	}
	args := buildAnvilArgs(instance)
	assert.Equal(t, []string{
		"--port", "9000",
		"--host", "0.0.0.0",
		"--chain-id", "137",
		"--fork-url", "https://polygon-rpc.com",
		"--fork-block-number", "40000000",
	}, args)
}

func TestBuildAnvilArgs_ForkBlockNeedsURL(t *testing.T) {
	args := buildAnvilArgs(&domain.AnvilInstance{Port: "8545", ForkBlock: 10})
	assert.NotContains(t, args, "--fork-block-number")
}

func TestSetFilePaths(t *testing.T) {
	m := NewManager()

	t.Run("default instance", func(t *testing.T) {
		instance := &domain.AnvilInstance{}
		m.setFilePaths(instance)
		assert.Equal(t, "anvil", instance.Name)
		assert.Equal(t, DefaultAnvilPort, instance.Port)
		assert.Equal(t, "/tmp/vaultctl-anvil-pid", instance.PidFile)
		assert.Equal(t, "/tmp/vaultctl-anvil.log", instance.LogFile)
	})

	t.Run("named instance", func(t *testing.T) {
		instance := &domain.AnvilInstance{Name: "fork-matic", Port: "9000"}
		m.setFilePaths(instance)
		assert.Equal(t, "/tmp/vaultctl-fork-matic.pid", instance.PidFile)
		assert.Equal(t, "/tmp/vaultctl-fork-matic.log", instance.LogFile)
	})

	t.Run("preset paths preserved", func(t *testing.T) {
		instance := &domain.AnvilInstance{Name: "x", PidFile: "/custom/my.pid", LogFile: "/custom/my.log"}
		m.setFilePaths(instance)
		assert.Equal(t, "/custom/my.pid", instance.PidFile)
		assert.Equal(t, "/custom/my.log", instance.LogFile)
	})
}

type rpcRequest struct {
	Jsonrpc string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      json.RawMessage   `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	Result  any             `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// newMockRPCServer creates a test HTTP server that answers JSON-RPC requests
// and records every method called.
func newMockRPCServer(t *testing.T, handler func(req rpcRequest) (any, *rpcError)) (*httptest.Server, *[]rpcRequest) {
	t.Helper()
	var calls []rpcRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode RPC request: %v", err)
			return
		}
		calls = append(calls, req)
		result, rpcErr := handler(req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rpcResponse{Jsonrpc: "2.0", Result: result, Error: rpcErr, ID: req.ID})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func param(t *testing.T, req rpcRequest, i int) string {
	t.Helper()
	require.Greater(t, len(req.Params), i)
	var s string
	require.NoError(t, json.Unmarshal(req.Params[i], &s))
	return s
}

func dialTestNode(t *testing.T, url string) *Node {
	t.Helper()
	node, err := DialNode(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(node.Close)
	return node
}

func TestNode_SnapshotRevert(t *testing.T) {
	ctx := context.Background()
	server, calls := newMockRPCServer(t, func(req rpcRequest) (any, *rpcError) {
		switch req.Method {
		case "evm_snapshot":
			return "0x1", nil
		case "evm_revert":
			return true, nil
		}
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})
	node := dialTestNode(t, server.URL)

	id, err := node.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0x1", id)

	ok, err := node.Revert(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0x1", param(t, (*calls)[1], 0))
}

func TestNode_RPCError(t *testing.T) {
	server, _ := newMockRPCServer(t, func(req rpcRequest) (any, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "snapshot failed"}
	})
	node := dialTestNode(t, server.URL)

	_, err := node.Snapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot failed")
}

func TestNode_TimeAndBalance(t *testing.T) {
	ctx := context.Background()
	server, calls := newMockRPCServer(t, func(req rpcRequest) (any, *rpcError) {
		switch req.Method {
		case "evm_increaseTime":
			return "0x15180", nil
		case "anvil_setStorageAt":
			return true, nil
		case "eth_getStorageAt":
			return "0x000000000000000000000000000000000000000000000000000000000000002a", nil
		}
		return nil, nil
	})
	node := dialTestNode(t, server.URL)
	account := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	require.NoError(t, node.IncreaseTime(ctx, 86400))
	require.NoError(t, node.Mine(ctx, 1))
	require.NoError(t, node.SetBalance(ctx, account, big.NewInt(255)))
	require.NoError(t, node.Impersonate(ctx, account))
	require.NoError(t, node.SetStorageAt(ctx, account, common.Hash{}, common.HexToHash("0x2a")))
	value, err := node.StorageAt(ctx, account, common.Hash{})
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x2a"), value)

	methods := make([]string, 0, len(*calls))
	for _, c := range *calls {
		methods = append(methods, c.Method)
	}
	assert.Equal(t, []string{
		"evm_increaseTime",
		"anvil_mine",
		"anvil_setBalance",
		"anvil_impersonateAccount",
		"anvil_setStorageAt",
		"eth_getStorageAt",
	}, methods)

	assert.Equal(t, "0x15180", param(t, (*calls)[0], 0))
	assert.Equal(t, "0xff", param(t, (*calls)[2], 1))
	assert.Equal(t, strings.ToLower(account.Hex()), strings.ToLower(param(t, (*calls)[3], 0)))
}

func TestManager_GetStatus(t *testing.T) {
	server, _ := newMockRPCServer(t, func(req rpcRequest) (any, *rpcError) {
		switch req.Method {
		case "eth_chainId":
			return "0x7a69", nil
		case "eth_blockNumber":
			return "0x10", nil
		}
		return nil, nil
	})
	parts := strings.Split(server.URL, ":")
	dir := t.TempDir()

	pidFile := filepath.Join(dir, "anvil.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644))

	m := NewManager()
	status, err := m.GetStatus(context.Background(), &domain.AnvilInstance{
		Name:    "test",
		Port:    parts[len(parts)-1],
		PidFile: pidFile,
		LogFile: filepath.Join(dir, "anvil.log"),
	})
	require.NoError(t, err)
	assert.True(t, status.Running)
	assert.Equal(t, os.Getpid(), status.PID)
	assert.True(t, status.RPCHealthy)
	assert.Equal(t, uint64(31337), status.ChainID)
	assert.Equal(t, uint64(16), status.BlockNumber)
}

func TestManager_GetStatus_NotRunning(t *testing.T) {
	dir := t.TempDir()
	m := NewManager()
	status, err := m.GetStatus(context.Background(), &domain.AnvilInstance{
		Name:    "test",
		Port:    "1",
		PidFile: filepath.Join(dir, "missing.pid"),
		LogFile: filepath.Join(dir, "missing.log"),
	})
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.False(t, status.RPCHealthy)
}

func TestNodeProvider(t *testing.T) {
	ctx := context.Background()

	_, err := NewNodeProvider(&config.RuntimeConfig{Network: &config.Network{Name: "simulated", Simulated: true}}).DevNode(ctx)
	assert.Error(t, err)

	_, err = NewNodeProvider(&config.RuntimeConfig{Network: &config.Network{Name: "matic", RPCURL: "https://polygon-rpc.com"}}).DevNode(ctx)
	assert.Error(t, err)

	server, _ := newMockRPCServer(t, func(req rpcRequest) (any, *rpcError) { return "0x1", nil })
	p := NewNodeProvider(&config.RuntimeConfig{Network: &config.Network{Name: "local", RPCURL: server.URL, Local: true}})
	t.Cleanup(p.Close)
	first, err := p.DevNode(ctx)
	require.NoError(t, err)
	second, err := p.DevNode(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
