package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
)

// AnnounceResult describes a queued or closed announcement
type AnnounceResult struct {
	Opcode  domain.Opcode
	OpHash  common.Hash
	Target  common.Address
	TxHash  common.Hash
	Index   uint64
	Unlocks time.Time
}

// AnnounceInfoResult describes the pending announcement for an opcode
type AnnounceInfoResult struct {
	Opcode  domain.Opcode
	Index   uint64
	Pending bool
	Info    *domain.TimeLockInfo
	Unlocks time.Time
}

// Announce queues and inspects time-locked governance operations on the announcer.
type Announce struct {
	core    *ConnectCore
	session *DeploySession
	logger  *slog.Logger
}

// NewAnnounce creates a new Announce use case
func NewAnnounce(core *ConnectCore, session *DeploySession, logger *slog.Logger) *Announce {
	return &Announce{
		core:    core,
		session: session,
		logger:  logger.With("usecase", "announce"),
	}
}

func (uc *Announce) announcer(ctx context.Context) (*bindings.Announcer, error) {
	res, err := uc.core.Run(ctx, uc.session, ConnectCoreParams{})
	if err != nil {
		return nil, err
	}
	return res.Core.Announcer, nil
}

// AddressChange announces a new address for op.
func (uc *Announce) AddressChange(ctx context.Context, op domain.Opcode, value common.Address) (*AnnounceResult, error) {
	a, err := uc.announcer(ctx)
	if err != nil {
		return nil, err
	}
	receipt, err := a.AnnounceAddressChange(ctx, op, value)
	if err != nil {
		return nil, fmt.Errorf("announce %s: %w", op, err)
	}
	return uc.queued(ctx, a, op, domain.ZeroAddress, receipt)
}

// RatioChange announces numerator/denominator for op.
func (uc *Announce) RatioChange(ctx context.Context, op domain.Opcode, numerator, denominator *big.Int) (*AnnounceResult, error) {
	if denominator.Sign() == 0 {
		return nil, fmt.Errorf("announce %s: zero denominator", op)
	}
	a, err := uc.announcer(ctx)
	if err != nil {
		return nil, err
	}
	receipt, err := a.AnnounceRatioChange(ctx, op, numerator, denominator)
	if err != nil {
		return nil, fmt.Errorf("announce %s: %w", op, err)
	}
	return uc.queued(ctx, a, op, domain.ZeroAddress, receipt)
}

// TokenMove announces moving amount of token from target.
func (uc *Announce) TokenMove(ctx context.Context, op domain.Opcode, target, token common.Address, amount *big.Int) (*AnnounceResult, error) {
	a, err := uc.announcer(ctx)
	if err != nil {
		return nil, err
	}
	receipt, err := a.AnnounceTokenMove(ctx, op, target, token, amount)
	if err != nil {
		return nil, fmt.Errorf("announce %s: %w", op, err)
	}
	return uc.queued(ctx, a, op, target, receipt)
}

// Close cancels an announcement. A zero opHash or target is filled in from
// the pending announcement for op. Per-target announcements need target.
func (uc *Announce) Close(ctx context.Context, op domain.Opcode, opHash common.Hash, target common.Address) (*AnnounceResult, error) {
	a, err := uc.announcer(ctx)
	if err != nil {
		return nil, err
	}

	if opHash == (common.Hash{}) || target == domain.ZeroAddress {
		info, err := uc.pending(ctx, a, op, target)
		if err != nil {
			return nil, err
		}
		if !info.Pending {
			return nil, fmt.Errorf("no pending announcement for %s: %w", op, domain.ErrNotFound)
		}
		if opHash == (common.Hash{}) {
			opHash = info.Info.OpHash
		}
		if target == domain.ZeroAddress {
			target = info.Info.Target
		}
	}

	receipt, err := a.CloseAnnounce(ctx, op, opHash, target)
	if err != nil {
		return nil, fmt.Errorf("close %s: %w", op, err)
	}
	uc.logger.Info("Announcement closed", "opcode", op.String(), "opHash", opHash.Hex())
	return &AnnounceResult{Opcode: op, OpHash: opHash, Target: target, TxHash: receipt.TxHash}, nil
}

// Info returns the pending announcement for op. A non-zero target looks up
// the per-target queue first, which is where upgrade and token move
// announcements live.
func (uc *Announce) Info(ctx context.Context, op domain.Opcode, target common.Address) (*AnnounceInfoResult, error) {
	a, err := uc.announcer(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pending(ctx, a, op, target)
}

func (uc *Announce) pending(ctx context.Context, a *bindings.Announcer, op domain.Opcode, target common.Address) (*AnnounceInfoResult, error) {
	var idx uint64
	if target != domain.ZeroAddress {
		var err error
		if idx, err = a.MultiTimeLockIndexes(ctx, op, target); err != nil {
			return nil, err
		}
	}
	if idx == 0 {
		var err error
		if idx, err = a.TimeLockIndexes(ctx, op); err != nil {
			return nil, err
		}
	}
	result := &AnnounceInfoResult{Opcode: op, Index: idx}
	// index 0 is the placeholder entry
	if idx == 0 {
		return result, nil
	}

	info, err := a.TimeLockInfo(ctx, idx)
	if err != nil {
		return nil, err
	}
	result.Info = info
	result.Pending = true

	unlock, err := a.TimeLockSchedule(ctx, info.OpHash)
	if err != nil {
		return nil, err
	}
	if unlock.Sign() > 0 {
		result.Unlocks = time.Unix(unlock.Int64(), 0).UTC()
	}
	return result, nil
}

func (uc *Announce) queued(ctx context.Context, a *bindings.Announcer, op domain.Opcode, target common.Address, receipt *types.Receipt) (*AnnounceResult, error) {
	info, err := uc.pending(ctx, a, op, target)
	if err != nil {
		return nil, err
	}
	result := &AnnounceResult{Opcode: op, TxHash: receipt.TxHash, Index: info.Index, Unlocks: info.Unlocks}
	if info.Info != nil {
		result.OpHash = info.Info.OpHash
		result.Target = info.Info.Target
	}
	uc.logger.Info("Announcement queued", "opcode", op.String(), "index", info.Index, "tx", receipt.TxHash.Hex())
	return result, nil
}
