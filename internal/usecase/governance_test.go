package usecase_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetu-io/vaultctl/internal/addressbook"
	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

func announceFixture(t *testing.T) (*fakeChain, *contractState, *usecase.Announce) {
	t.Helper()
	chain := newFakeChain(31337)
	arts := coreArtifacts()
	session := usecase.NewDeploySession()
	deploy := usecase.NewDeployCore(fakeChains{chain: chain}, arts, nil, testConfig(31337), usecase.NopProgress{}, testLogger())
	result, err := deploy.Run(context.Background(), session, usecase.DeployCoreParams{TimeLock: 3600, SkipSave: true})
	require.NoError(t, err)

	connect := usecase.NewConnectCore(fakeChains{chain: chain}, arts, addressbook.Default(), nil, testLogger())
	announcer := chain.stateOf(result.Record.Core.Announcer)
	return chain, announcer, usecase.NewAnnounce(connect, session, testLogger())
}

func queue(st *contractState, index int64, op domain.Opcode, hash common.Hash, target common.Address, unlock int64) {
	st.returns["timeLockIndexes"] = []any{big.NewInt(index)}
	st.returns["multiTimeLockIndexes"] = []any{big.NewInt(0)}
	st.returns["timeLockInfo"] = []any{uint8(op), [32]byte(hash), target, []common.Address{}, []*big.Int{}}
	st.returns["timeLockSchedule"] = []any{big.NewInt(unlock)}
}

func TestAnnounce(t *testing.T) {
	ctx := context.Background()
	target := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	t.Run("info without pending announcement", func(t *testing.T) {
		_, announcer, uc := announceFixture(t)
		announcer.returns["timeLockIndexes"] = []any{big.NewInt(0)}

		info, err := uc.Info(ctx, domain.OpGovernance, domain.ZeroAddress)
		require.NoError(t, err)
		assert.False(t, info.Pending)
		assert.Nil(t, info.Info)
	})

	t.Run("address change", func(t *testing.T) {
		_, announcer, uc := announceFixture(t)
		hash := common.HexToHash("0xbeef")
		queue(announcer, 1, domain.OpGovernance, hash, target, 1700000000)

		result, err := uc.AddressChange(ctx, domain.OpGovernance, target)
		require.NoError(t, err)

		sent := announcer.sent("announceAddressChange")
		require.Len(t, sent, 1)
		assert.Equal(t, uint8(domain.OpGovernance), sent[0].Args[0])
		assert.Equal(t, target, sent[0].Args[1])

		assert.Equal(t, uint64(1), result.Index)
		assert.Equal(t, hash, result.OpHash)
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), result.Unlocks)
	})

	t.Run("ratio change", func(t *testing.T) {
		_, announcer, uc := announceFixture(t)
		hash := bindings.OpHash(domain.OpPsRatio, big.NewInt(5), big.NewInt(100))
		queue(announcer, 2, domain.OpPsRatio, hash, domain.ZeroAddress, 0)

		result, err := uc.RatioChange(ctx, domain.OpPsRatio, big.NewInt(5), big.NewInt(100))
		require.NoError(t, err)
		assert.Equal(t, hash, result.OpHash)
		assert.True(t, result.Unlocks.IsZero())

		_, err = uc.RatioChange(ctx, domain.OpPsRatio, big.NewInt(5), big.NewInt(0))
		assert.Error(t, err)
	})

	t.Run("token move", func(t *testing.T) {
		_, announcer, uc := announceFixture(t)
		token := common.HexToAddress("0x00000000000000000000000000000000000000bb")
		queue(announcer, 3, domain.OpControllerTokenMove, common.HexToHash("0x01"), target, 0)

		_, err := uc.TokenMove(ctx, domain.OpControllerTokenMove, target, token, big.NewInt(10))
		require.NoError(t, err)
		sent := announcer.sent("announceTokenMove")
		require.Len(t, sent, 1)
		assert.Equal(t, []any{uint8(domain.OpControllerTokenMove), target, token, big.NewInt(10)}, sent[0].Args)
	})

	t.Run("close fills hash and target from the queue", func(t *testing.T) {
		_, announcer, uc := announceFixture(t)
		hash := common.HexToHash("0xcafe")
		queue(announcer, 1, domain.OpBookkeeper, hash, target, 0)

		result, err := uc.Close(ctx, domain.OpBookkeeper, common.Hash{}, domain.ZeroAddress)
		require.NoError(t, err)
		assert.Equal(t, hash, result.OpHash)
		assert.Equal(t, target, result.Target)

		sent := announcer.sent("closeAnnounce")
		require.Len(t, sent, 1)
		assert.Equal(t, [32]byte(hash), sent[0].Args[1])
		assert.Equal(t, target, sent[0].Args[2])
	})

	t.Run("per-target announcement needs the target", func(t *testing.T) {
		_, announcer, uc := announceFixture(t)
		hash := common.HexToHash("0x0b0e")
		queue(announcer, 4, domain.OpStrategyUpgrade, hash, target, 1700000000)
		announcer.returns["timeLockIndexes"] = []any{big.NewInt(0)}
		announcer.returns["multiTimeLockIndexes"] = []any{big.NewInt(4)}

		info, err := uc.Info(ctx, domain.OpStrategyUpgrade, domain.ZeroAddress)
		require.NoError(t, err)
		assert.False(t, info.Pending)

		info, err = uc.Info(ctx, domain.OpStrategyUpgrade, target)
		require.NoError(t, err)
		require.True(t, info.Pending)
		assert.Equal(t, uint64(4), info.Index)
		assert.Equal(t, hash, info.Info.OpHash)

		result, err := uc.Close(ctx, domain.OpStrategyUpgrade, common.Hash{}, target)
		require.NoError(t, err)
		assert.Equal(t, hash, result.OpHash)
		sent := announcer.sent("closeAnnounce")
		require.Len(t, sent, 1)
		assert.Equal(t, target, sent[0].Args[2])
	})

	t.Run("close without pending announcement", func(t *testing.T) {
		_, announcer, uc := announceFixture(t)
		announcer.returns["timeLockIndexes"] = []any{big.NewInt(0)}

		_, err := uc.Close(ctx, domain.OpBookkeeper, common.Hash{}, domain.ZeroAddress)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, announcer.sent("closeAnnounce"))
	})

	t.Run("revert reason surfaces", func(t *testing.T) {
		_, announcer, uc := announceFixture(t)
		announcer.reverts["announceAddressChange"] = &domain.RevertError{Reason: "C: Not governance"}

		_, err := uc.AddressChange(ctx, domain.OpGovernance, target)
		reason, ok := domain.RevertReason(err)
		require.True(t, ok)
		assert.Equal(t, "C: Not governance", reason)
	})
}
