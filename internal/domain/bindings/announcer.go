package bindings

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tetu-io/vaultctl/internal/domain"
)

// Announcer wraps the time-lock queue that gates governance changes.
type Announcer struct {
	Contract
}

func NewAnnouncer(c Contract) *Announcer {
	return &Announcer{Contract: c}
}

func (a *Announcer) Initialize(ctx context.Context, controller common.Address, timeLock uint64) (*types.Receipt, error) {
	return a.Transact(ctx, "initialize", controller, bigU(timeLock))
}

// TimeLock returns the delay in seconds between announcement and execution.
func (a *Announcer) TimeLock(ctx context.Context) (*big.Int, error) {
	return callBig(ctx, a, "timeLock")
}

func (a *Announcer) AnnounceAddressChange(ctx context.Context, op domain.Opcode, newAddress common.Address) (*types.Receipt, error) {
	return a.Transact(ctx, "announceAddressChange", uint8(op), newAddress)
}

func (a *Announcer) AnnounceRatioChange(ctx context.Context, op domain.Opcode, numerator, denominator *big.Int) (*types.Receipt, error) {
	return a.Transact(ctx, "announceRatioChange", uint8(op), numerator, denominator)
}

func (a *Announcer) AnnounceTokenMove(ctx context.Context, op domain.Opcode, target, token common.Address, amount *big.Int) (*types.Receipt, error) {
	return a.Transact(ctx, "announceTokenMove", uint8(op), target, token, amount)
}

func (a *Announcer) CloseAnnounce(ctx context.Context, op domain.Opcode, opHash common.Hash, target common.Address) (*types.Receipt, error) {
	return a.Transact(ctx, "closeAnnounce", uint8(op), [32]byte(opHash), target)
}

// TimeLockIndexes returns the queue index of the pending announcement for op, 0 when none.
func (a *Announcer) TimeLockIndexes(ctx context.Context, op domain.Opcode) (uint64, error) {
	idx, err := callBig(ctx, a, "timeLockIndexes", uint8(op))
	if err != nil {
		return 0, err
	}
	return idx.Uint64(), nil
}

// MultiTimeLockIndexes returns the queue index of the pending announcement for
// op keyed by target, 0 when none. Upgrade and token move opcodes are queued
// per target.
func (a *Announcer) MultiTimeLockIndexes(ctx context.Context, op domain.Opcode, target common.Address) (uint64, error) {
	idx, err := callBig(ctx, a, "multiTimeLockIndexes", uint8(op), target)
	if err != nil {
		return 0, err
	}
	return idx.Uint64(), nil
}

func (a *Announcer) TimeLockInfosLength(ctx context.Context) (uint64, error) {
	n, err := callBig(ctx, a, "timeLockInfosLength")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// TimeLockSchedule returns the unlock timestamp for opHash, 0 when nothing is scheduled.
func (a *Announcer) TimeLockSchedule(ctx context.Context, opHash common.Hash) (*big.Int, error) {
	return callBig(ctx, a, "timeLockSchedule", [32]byte(opHash))
}

type timeLockInfoTuple struct {
	OpCode    uint8
	OpHash    [32]byte
	Target    common.Address
	AdrValues []common.Address
	NumValues []*big.Int
}

func (a *Announcer) TimeLockInfo(ctx context.Context, index uint64) (*domain.TimeLockInfo, error) {
	out, err := a.Call(ctx, "timeLockInfo", bigU(index))
	if err != nil {
		return nil, err
	}

	var raw timeLockInfoTuple
	switch len(out) {
	case 1:
		raw = *abi.ConvertType(out[0], new(timeLockInfoTuple)).(*timeLockInfoTuple)
	case 5:
		// public struct getters flatten the tuple
		raw.OpCode = *abi.ConvertType(out[0], new(uint8)).(*uint8)
		raw.OpHash = *abi.ConvertType(out[1], new([32]byte)).(*[32]byte)
		raw.Target = *abi.ConvertType(out[2], new(common.Address)).(*common.Address)
		raw.AdrValues = *abi.ConvertType(out[3], new([]common.Address)).(*[]common.Address)
		raw.NumValues = *abi.ConvertType(out[4], new([]*big.Int)).(*[]*big.Int)
	default:
		return nil, fmt.Errorf("timeLockInfo: unexpected %d outputs", len(out))
	}

	return &domain.TimeLockInfo{
		Opcode:    domain.Opcode(raw.OpCode),
		OpHash:    raw.OpHash,
		Target:    raw.Target,
		AdrValues: raw.AdrValues,
		NumValues: raw.NumValues,
	}, nil
}

// OpHash computes keccak256(abi.encodePacked(uint256 opcode, values...)), the key
// the announcer schedules numeric announcements under.
func OpHash(op domain.Opcode, values ...*big.Int) common.Hash {
	buf := make([]byte, 0, 32*(len(values)+1))
	buf = append(buf, common.LeftPadBytes(big.NewInt(int64(op)).Bytes(), 32)...)
	for _, v := range values {
		buf = append(buf, common.LeftPadBytes(v.Bytes(), 32)...)
	}
	return crypto.Keccak256Hash(buf)
}

func bigU(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
