package bindings

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetu-io/vaultctl/internal/domain"
)

type call struct {
	method string
	args   []any
}

type fakeContract struct {
	addr    common.Address
	results map[string][]any
	err     error
	calls   []call
}

func (f *fakeContract) Address() common.Address { return f.addr }
func (f *fakeContract) ABI() abi.ABI            { return abi.ABI{} }

func (f *fakeContract) Call(_ context.Context, method string, args ...any) ([]any, error) {
	f.calls = append(f.calls, call{method, args})
	if f.err != nil {
		return nil, f.err
	}
	return f.results[method], nil
}

func (f *fakeContract) Transact(_ context.Context, method string, args ...any) (*types.Receipt, error) {
	f.calls = append(f.calls, call{method, args})
	if f.err != nil {
		return nil, f.err
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func TestOpHash(t *testing.T) {
	num := big.NewInt(10)
	den := big.NewInt(100)

	packed := hexutil.MustDecode(
		"0x0000000000000000000000000000000000000000000000000000000000000009" +
			"000000000000000000000000000000000000000000000000000000000000000a" +
			"0000000000000000000000000000000000000000000000000000000000000064")

	assert.Equal(t, crypto.Keccak256Hash(packed), OpHash(domain.OpPsRatio, num, den))
	assert.NotEqual(t, OpHash(domain.OpPsRatio, num, den), OpHash(domain.OpFundRatio, num, den))
}

func TestController_Getters(t *testing.T) {
	bk := common.HexToAddress("0x1")
	fc := &fakeContract{results: map[string][]any{
		"bookkeeper":   {bk},
		"isValidVault": {true},
		"created":      {big.NewInt(1234)},
	}}
	c := NewController(fc)
	ctx := context.Background()

	got, err := c.Bookkeeper(ctx)
	require.NoError(t, err)
	assert.Equal(t, bk, got)

	ok, err := c.IsValidVault(ctx, common.HexToAddress("0x2"))
	require.NoError(t, err)
	assert.True(t, ok)

	created, err := c.Created(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), created.Int64())

	_, err = c.Announcer(ctx)
	assert.ErrorContains(t, err, "announcer: empty result")
}

func TestController_SettersForwardArguments(t *testing.T) {
	fc := &fakeContract{}
	c := NewController(fc)
	ann := common.HexToAddress("0xa")

	_, err := c.SetAnnouncer(context.Background(), ann)
	require.NoError(t, err)
	require.Len(t, fc.calls, 1)
	assert.Equal(t, "setAnnouncer", fc.calls[0].method)
	assert.Equal(t, []any{ann}, fc.calls[0].args)
}

func TestAnnouncer_TimeLockInfo(t *testing.T) {
	target := common.HexToAddress("0xc0")
	newGov := common.HexToAddress("0xbeef")
	hash := common.HexToHash("0x01")

	t.Run("tuple output", func(t *testing.T) {
		tuple := struct {
			OpCode    uint8            `json:"opCode"`
			OpHash    [32]byte         `json:"opHash"`
			Target    common.Address   `json:"target"`
			AdrValues []common.Address `json:"adrValues"`
			NumValues []*big.Int       `json:"numValues"`
		}{0, hash, target, []common.Address{newGov}, nil}
		fc := &fakeContract{results: map[string][]any{"timeLockInfo": {tuple}}}

		info, err := NewAnnouncer(fc).TimeLockInfo(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, domain.OpGovernance, info.Opcode)
		assert.Equal(t, target, info.Target)
		assert.Equal(t, []common.Address{newGov}, info.AdrValues)
		assert.Empty(t, info.NumValues)
		assert.Equal(t, "timeLockInfo", fc.calls[0].method)
		assert.Equal(t, big.NewInt(1), fc.calls[0].args[0])
	})

	t.Run("flattened output", func(t *testing.T) {
		fc := &fakeContract{results: map[string][]any{"timeLockInfo": {
			uint8(9), [32]byte(hash), target, []common.Address{}, []*big.Int{big.NewInt(10), big.NewInt(100)},
		}}}

		info, err := NewAnnouncer(fc).TimeLockInfo(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, domain.OpPsRatio, info.Opcode)
		assert.Equal(t, hash, info.OpHash)
		require.Len(t, info.NumValues, 2)
		assert.Equal(t, int64(100), info.NumValues[1].Int64())
	})

	t.Run("call error", func(t *testing.T) {
		fc := &fakeContract{err: errors.New("boom")}
		_, err := NewAnnouncer(fc).TimeLockInfo(context.Background(), 1)
		assert.EqualError(t, err, "boom")
	})
}

func TestAnnouncer_IndexesAsUint(t *testing.T) {
	fc := &fakeContract{results: map[string][]any{
		"timeLockIndexes":      {big.NewInt(2)},
		"multiTimeLockIndexes": {big.NewInt(3)},
		"timeLockInfosLength":  {big.NewInt(4)},
	}}
	a := NewAnnouncer(fc)

	idx, err := a.TimeLockIndexes(context.Background(), domain.OpPsRatio)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), idx)
	assert.Equal(t, []any{uint8(9)}, fc.calls[0].args)

	n, err := a.TimeLockInfosLength(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)

	target := common.HexToAddress("0xaa")
	idx, err = a.MultiTimeLockIndexes(context.Background(), domain.OpStrategyUpgrade, target)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), idx)
	assert.Equal(t, "multiTimeLockIndexes", fc.calls[2].method)
	assert.Equal(t, []any{uint8(domain.OpStrategyUpgrade), target}, fc.calls[2].args)
}

func TestParsedERC20ABI(t *testing.T) {
	parsed, err := ParsedERC20ABI()
	require.NoError(t, err)
	for _, m := range []string{"balanceOf", "transfer", "approve", "mint", "decimals"} {
		assert.Contains(t, parsed.Methods, m)
	}
}

func TestCoreContracts_Addresses(t *testing.T) {
	core := &CoreContracts{
		Controller: NewController(&fakeContract{addr: common.HexToAddress("0x1")}),
		Bookkeeper: NewBookkeeper(&fakeContract{addr: common.HexToAddress("0x2")}),
		Announcer:  NewAnnouncer(&fakeContract{addr: common.HexToAddress("0x3")}),
	}
	got := core.Addresses()
	assert.Equal(t, common.HexToAddress("0x1"), got.Controller)
	assert.Equal(t, common.HexToAddress("0x2"), got.Bookkeeper)
	assert.Equal(t, common.HexToAddress("0x3"), got.Announcer)
	assert.NoError(t, got.Validate())
}
