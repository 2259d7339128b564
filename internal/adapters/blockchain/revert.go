package blockchain

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/tetu-io/vaultctl/internal/domain"
)

const revertPrefix = "execution reverted"

// decodeRevert turns node errors for reverted calls into a domain.RevertError.
// Other errors are returned unchanged.
func decodeRevert(err error) error {
	if err == nil {
		return nil
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason, ok := unpackRevertData(dataErr.ErrorData()); ok {
			return &domain.RevertError{Reason: reason, Err: err}
		}
	}

	msg := err.Error()
	idx := strings.Index(msg, revertPrefix)
	if idx < 0 {
		return err
	}
	reason := strings.TrimSpace(strings.TrimPrefix(msg[idx+len(revertPrefix):], ":"))
	// "execution reverted: reverted with reason string 'X'" (hardhat)
	if i := strings.Index(reason, "reason string '"); i >= 0 {
		reason = strings.TrimSuffix(reason[i+len("reason string '"):], "'")
	}
	return &domain.RevertError{Reason: reason, Err: err}
}

func unpackRevertData(data any) (string, bool) {
	var raw []byte
	switch v := data.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return "", false
		}
		raw = b
	case []byte:
		raw = v
	default:
		return "", false
	}
	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return "", false
	}
	return reason, true
}
