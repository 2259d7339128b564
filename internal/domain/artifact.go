package domain

import "github.com/ethereum/go-ethereum/accounts/abi"

// Artifact is a compiled contract: its ABI and creation bytecode.
type Artifact struct {
	Name     string
	Path     string
	ABI      abi.ABI
	Bytecode []byte
}

// HasBytecode reports whether the artifact can be deployed (interfaces and
// abstract contracts compile to empty bytecode).
func (a *Artifact) HasBytecode() bool {
	return len(a.Bytecode) > 0
}
