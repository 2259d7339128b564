package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tetu-io/vaultctl/internal/usecase"
)

// MockDevNode is a mock implementation of DevNode
type MockDevNode struct {
	mock.Mock
}

func (m *MockDevNode) Snapshot(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDevNode) Revert(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDevNode) IncreaseTime(ctx context.Context, seconds uint64) error {
	return m.Called(ctx, seconds).Error(0)
}

func (m *MockDevNode) Mine(ctx context.Context, blocks uint64) error {
	return m.Called(ctx, blocks).Error(0)
}

func (m *MockDevNode) SetBalance(ctx context.Context, account common.Address, wei *big.Int) error {
	return m.Called(ctx, account, wei).Error(0)
}

func (m *MockDevNode) Impersonate(ctx context.Context, account common.Address) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockDevNode) StopImpersonating(ctx context.Context, account common.Address) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockDevNode) SetStorageAt(ctx context.Context, account common.Address, slot, value common.Hash) error {
	return m.Called(ctx, account, slot, value).Error(0)
}

func (m *MockDevNode) StorageAt(ctx context.Context, account common.Address, slot common.Hash) (common.Hash, error) {
	args := m.Called(ctx, account, slot)
	return args.Get(0).(common.Hash), args.Error(1)
}

type devNodes struct {
	node usecase.DevNode
	err  error
}

func (d devNodes) DevNode(context.Context) (usecase.DevNode, error) {
	return d.node, d.err
}

func TestDevNodeOps(t *testing.T) {
	ctx := context.Background()
	account := common.HexToAddress("0x00000000000000000000000000000000000000cc")

	t.Run("revert drops cached deployments", func(t *testing.T) {
		node := new(MockDevNode)
		node.On("Snapshot", ctx).Return("0x1", nil)
		node.On("Revert", ctx, "0x1").Return(true, nil)

		chain := newFakeChain(31337)
		session := usecase.NewDeploySession()
		deploy, _ := newDeployCore(chain, newMemStore())
		_, err := deploy.Run(ctx, session, usecase.DeployCoreParams{SkipSave: true})
		require.NoError(t, err)

		uc := usecase.NewDevNodeOps(devNodes{node: node}, session, testLogger())
		id, err := uc.Snapshot(ctx)
		require.NoError(t, err)
		require.NoError(t, uc.Revert(ctx, id))

		_, _, ok := session.Core(31337)
		assert.False(t, ok)
		node.AssertExpectations(t)
	})

	t.Run("failed revert keeps the session", func(t *testing.T) {
		node := new(MockDevNode)
		node.On("Revert", ctx, "0x9").Return(false, nil)

		uc := usecase.NewDevNodeOps(devNodes{node: node}, usecase.NewDeploySession(), testLogger())
		assert.Error(t, uc.Revert(ctx, "0x9"))
	})

	t.Run("increase time mines a block", func(t *testing.T) {
		node := new(MockDevNode)
		node.On("IncreaseTime", ctx, uint64(86400)).Return(nil)
		node.On("Mine", ctx, uint64(1)).Return(nil)

		uc := usecase.NewDevNodeOps(devNodes{node: node}, nil, testLogger())
		require.NoError(t, uc.IncreaseTime(ctx, 86400))
		node.AssertExpectations(t)
	})

	t.Run("fund parses ether", func(t *testing.T) {
		node := new(MockDevNode)
		wei, _ := new(big.Int).SetString("1500000000000000000", 10)
		node.On("SetBalance", ctx, account, wei).Return(nil)

		uc := usecase.NewDevNodeOps(devNodes{node: node}, nil, testLogger())
		got, err := uc.Fund(ctx, account, "1.5")
		require.NoError(t, err)
		assert.Equal(t, 0, wei.Cmp(got))
		node.AssertExpectations(t)
	})

	t.Run("impersonate funds the account", func(t *testing.T) {
		node := new(MockDevNode)
		node.On("Impersonate", ctx, account).Return(nil)
		node.On("SetBalance", ctx, account, usecase.ImpersonationBalance).Return(nil)

		uc := usecase.NewDevNodeOps(devNodes{node: node}, nil, testLogger())
		require.NoError(t, uc.Impersonate(ctx, account))
		node.AssertExpectations(t)
	})

	t.Run("set storage returns the previous value", func(t *testing.T) {
		node := new(MockDevNode)
		slot, prev, value := common.HexToHash("0x0"), common.HexToHash("0x1"), common.HexToHash("0x2")
		node.On("StorageAt", ctx, account, slot).Return(prev, nil)
		node.On("SetStorageAt", ctx, account, slot, value).Return(nil)
		node.On("Mine", ctx, uint64(1)).Return(nil)

		uc := usecase.NewDevNodeOps(devNodes{node: node}, nil, testLogger())
		got, err := uc.SetStorage(ctx, account, slot, value)
		require.NoError(t, err)
		assert.Equal(t, prev, got)
		node.AssertExpectations(t)
	})

	t.Run("no dev node", func(t *testing.T) {
		uc := usecase.NewDevNodeOps(devNodes{err: errors.New("simulated chain has no dev rpc")}, nil, testLogger())
		_, err := uc.Snapshot(ctx)
		assert.Error(t, err)
	})
}
