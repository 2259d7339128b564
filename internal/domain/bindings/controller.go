package bindings

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Controller wraps the protocol controller (behind its proxy).
type Controller struct {
	Contract
}

// NewController binds an already attached contract handle.
func NewController(c Contract) *Controller {
	return &Controller{Contract: c}
}

func (c *Controller) Initialize(ctx context.Context) (*types.Receipt, error) {
	return c.Transact(ctx, "initialize")
}

func (c *Controller) SetBookkeeper(ctx context.Context, bookkeeper common.Address) (*types.Receipt, error) {
	return c.Transact(ctx, "setBookkeeper", bookkeeper)
}

func (c *Controller) SetAnnouncer(ctx context.Context, announcer common.Address) (*types.Receipt, error) {
	return c.Transact(ctx, "setAnnouncer", announcer)
}

func (c *Controller) SetGovernance(ctx context.Context, governance common.Address) (*types.Receipt, error) {
	return c.Transact(ctx, "setGovernance", governance)
}

func (c *Controller) Governance(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, c, "governance")
}

func (c *Controller) Bookkeeper(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, c, "bookkeeper")
}

func (c *Controller) Announcer(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, c, "announcer")
}

// Created returns the block timestamp the controller was initialized at.
func (c *Controller) Created(ctx context.Context) (*big.Int, error) {
	return callBig(ctx, c, "created")
}

func (c *Controller) AddVaultsAndStrategies(ctx context.Context, vaults, strategies []common.Address) (*types.Receipt, error) {
	return c.Transact(ctx, "addVaultsAndStrategies", vaults, strategies)
}

func (c *Controller) IsValidVault(ctx context.Context, vault common.Address) (bool, error) {
	return callBool(ctx, c, "isValidVault", vault)
}

func (c *Controller) IsValidStrategy(ctx context.Context, strategy common.Address) (bool, error) {
	return callBool(ctx, c, "isValidStrategy", strategy)
}

func (c *Controller) AddHardWorker(ctx context.Context, worker common.Address) (*types.Receipt, error) {
	return c.Transact(ctx, "addHardWorker", worker)
}

func (c *Controller) RemoveHardWorker(ctx context.Context, worker common.Address) (*types.Receipt, error) {
	return c.Transact(ctx, "removeHardWorker", worker)
}

func (c *Controller) IsHardWorker(ctx context.Context, worker common.Address) (bool, error) {
	return callBool(ctx, c, "isHardWorker", worker)
}

func (c *Controller) ChangeWhiteListStatus(ctx context.Context, targets []common.Address, status bool) (*types.Receipt, error) {
	return c.Transact(ctx, "changeWhiteListStatus", targets, status)
}

func (c *Controller) IsAllowedUser(ctx context.Context, user common.Address) (bool, error) {
	return callBool(ctx, c, "isAllowedUser", user)
}

// ControllerTokenMove executes a previously announced token move out of the controller.
func (c *Controller) ControllerTokenMove(ctx context.Context, recipient, token common.Address, amount *big.Int) (*types.Receipt, error) {
	return c.Transact(ctx, "controllerTokenMove", recipient, token, amount)
}
