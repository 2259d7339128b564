package bindings

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// fitInt returns n in the Go type go-ethereum packs for t: native integers
// for 8, 16, 32 and 64 bit sizes, *big.Int otherwise.
func fitInt(t abi.Type, n *big.Int) (any, error) {
	switch t.Size {
	case 8, 16, 32, 64:
	default:
		return n, nil
	}
	goType := t.GetType()
	v := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		if !n.IsUint64() || v.OverflowUint(n.Uint64()) {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
		v.SetUint(n.Uint64())
	} else {
		if !n.IsInt64() || v.OverflowInt(n.Int64()) {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
		v.SetInt(n.Int64())
	}
	return v.Interface(), nil
}

func fixedBytes(t abi.Type, b []byte) any {
	v := reflect.New(t.GetType()).Elem()
	reflect.Copy(v, reflect.ValueOf(b))
	return v.Interface()
}

func reflectSlice(t abi.Type, n int) reflect.Value {
	return reflect.MakeSlice(t.GetType(), n, n)
}

func reflectValue(v any) reflect.Value {
	return reflect.ValueOf(v)
}
