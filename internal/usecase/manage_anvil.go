package usecase

import (
	"context"
	"fmt"

	"github.com/tetu-io/vaultctl/internal/domain"
)

// Anvil operations accepted by ManageAnvil.Execute
const (
	AnvilStart   = "start"
	AnvilStop    = "stop"
	AnvilRestart = "restart"
	AnvilStatus  = "status"
	AnvilLogs    = "logs"
)

// ManageAnvil starts, stops and inspects local anvil nodes used as
// fixtures, optionally forking a live network.
type ManageAnvil struct {
	anvilManager AnvilManager
	progress     ProgressSink
}

// NewManageAnvil creates a new anvil management use case
func NewManageAnvil(anvilManager AnvilManager, progress ProgressSink) *ManageAnvil {
	return &ManageAnvil{
		anvilManager: anvilManager,
		progress:     progress,
	}
}

// ManageAnvilParams contains parameters for anvil operations
type ManageAnvilParams struct {
	Operation string
	Name      string
	Port      string
	ChainID   string
	// ForkURL and ForkBlock start the node as a fork of a live network.
	ForkURL   string
	ForkBlock uint64
}

// ManageAnvilResult contains the result of anvil operations
type ManageAnvilResult struct {
	Operation string
	Instance  *domain.AnvilInstance
	Status    *domain.AnvilStatus
	Success   bool
	Message   string
}

// Execute performs the anvil management operation
func (m *ManageAnvil) Execute(ctx context.Context, params ManageAnvilParams) (*ManageAnvilResult, error) {
	instance := &domain.AnvilInstance{
		Name:      params.Name,
		Port:      params.Port,
		ChainID:   params.ChainID,
		ForkURL:   params.ForkURL,
		ForkBlock: params.ForkBlock,
	}

	switch params.Operation {
	case AnvilStart, AnvilRestart:
		return m.launch(ctx, instance, params.Operation == AnvilRestart)
	case AnvilStop:
		return m.stop(ctx, instance)
	case AnvilStatus, AnvilLogs:
		status, err := m.anvilManager.GetStatus(ctx, instance)
		if err != nil {
			return nil, fmt.Errorf("failed to get status: %w", err)
		}
		return &ManageAnvilResult{Operation: params.Operation, Instance: instance, Status: status, Success: true}, nil
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

// launch starts the node. A running node is an error unless restart is set,
// in which case it is stopped first.
func (m *ManageAnvil) launch(ctx context.Context, instance *domain.AnvilInstance, restart bool) (*ManageAnvilResult, error) {
	op, verb := AnvilStart, "started"
	if restart {
		op, verb = AnvilRestart, "restarted"
	}

	target := "local chain"
	if instance.ForkURL != "" {
		target = "fork of " + instance.ForkURL
		if instance.ForkBlock > 0 {
			target += fmt.Sprintf(" at block %d", instance.ForkBlock)
		}
	}
	m.progress.Info(fmt.Sprintf("🔨 Anvil '%s' on port %s (%s)", instance.Name, instance.Port, target))

	if status, err := m.anvilManager.GetStatus(ctx, instance); err == nil && status.Running {
		if !restart {
			return nil, fmt.Errorf("anvil '%s' is already running (PID %d)", instance.Name, status.PID)
		}
		if err := m.anvilManager.Stop(ctx, instance); err != nil {
			return nil, fmt.Errorf("failed to stop anvil: %w", err)
		}
	}

	if err := m.anvilManager.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	status, err := m.anvilManager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("anvil %s but status is unavailable: %w", verb, err)
	}

	return &ManageAnvilResult{
		Operation: op,
		Instance:  instance,
		Status:    status,
		Success:   true,
		Message:   fmt.Sprintf("Anvil '%s' %s with PID %d", instance.Name, verb, status.PID),
	}, nil
}

func (m *ManageAnvil) stop(ctx context.Context, instance *domain.AnvilInstance) (*ManageAnvilResult, error) {
	result := &ManageAnvilResult{Operation: AnvilStop, Instance: instance, Success: true}

	status, err := m.anvilManager.GetStatus(ctx, instance)
	if err != nil || !status.Running {
		result.Message = fmt.Sprintf("Anvil '%s' is not running", instance.Name)
		return result, nil
	}

	m.progress.Info(fmt.Sprintf("🛑 Stopping anvil '%s'...", instance.Name))
	if err := m.anvilManager.Stop(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to stop anvil: %w", err)
	}
	result.Message = fmt.Sprintf("Anvil '%s' stopped", instance.Name)
	return result, nil
}
