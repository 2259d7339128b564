package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ContractRecord is one contract created by a deployment run.
type ContractRecord struct {
	Name     string         `json:"name"`
	Artifact string         `json:"artifact"`
	Address  common.Address `json:"address"`
	TxHash   common.Hash    `json:"txHash,omitempty"`
	Proxy    bool           `json:"proxy,omitempty"`
	Logic    common.Address `json:"logic,omitempty"`
}

// DeploymentRecord is the persisted outcome of a core deployment on one chain.
type DeploymentRecord struct {
	ID        string                    `json:"id"`
	Network   string                    `json:"network"`
	ChainID   uint64                    `json:"chainId"`
	Deployer  common.Address            `json:"deployer"`
	Core      CoreAddresses             `json:"core"`
	Logic     map[string]common.Address `json:"logic,omitempty"`
	Contracts []ContractRecord          `json:"contracts,omitempty"`
	TimeLock  uint64                    `json:"timeLock"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// Add appends a contract to the record.
func (r *DeploymentRecord) Add(c ContractRecord) {
	r.Contracts = append(r.Contracts, c)
	if c.Proxy {
		if r.Logic == nil {
			r.Logic = make(map[string]common.Address)
		}
		r.Logic[c.Name] = c.Logic
	}
}
