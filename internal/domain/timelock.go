package domain

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Opcode identifies a time-locked operation queued on the announcer.
type Opcode uint8

const (
	OpGovernance Opcode = iota
	OpDao
	OpFeeRewardForwarder
	OpBookkeeper
	OpMintHelper
	OpRewardToken
	OpFundToken
	OpPsVault
	OpFund
	OpPsRatio
	OpFundRatio
	OpControllerTokenMove
	OpStrategyTokenMove
	OpFundTokenMove
	OpTetuProxyUpdate
	OpStrategyUpgrade
	OpMint
	OpAnnouncer
	OpZeroPlaceholder
	OpVaultController
	OpRewardBoostDuration
	OpRewardRatioWithoutBoost
	OpVaultStop
)

var opcodeNames = []string{
	"Governance",
	"Dao",
	"FeeRewardForwarder",
	"Bookkeeper",
	"MintHelper",
	"RewardToken",
	"FundToken",
	"PsVault",
	"Fund",
	"PsRatio",
	"FundRatio",
	"ControllerTokenMove",
	"StrategyTokenMove",
	"FundTokenMove",
	"TetuProxyUpdate",
	"StrategyUpgrade",
	"Mint",
	"Announcer",
	"ZeroPlaceholder",
	"VaultController",
	"RewardBoostDuration",
	"RewardRatioWithoutBoost",
	"VaultStop",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(o))
}

// ParseOpcode accepts either the opcode name (case-insensitive) or its number.
func ParseOpcode(s string) (Opcode, error) {
	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		if int(n) >= len(opcodeNames) {
			return 0, fmt.Errorf("unknown opcode %d", n)
		}
		return Opcode(n), nil
	}
	for i, name := range opcodeNames {
		if strings.EqualFold(name, s) {
			return Opcode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown opcode %q", s)
}

// TimeLockInfo is one announced operation as stored by the announcer.
type TimeLockInfo struct {
	Opcode    Opcode           `json:"opcode"`
	OpHash    common.Hash      `json:"opHash"`
	Target    common.Address   `json:"target"`
	AdrValues []common.Address `json:"adrValues"`
	NumValues []*big.Int       `json:"numValues"`
}
