package anvil

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

const (
	DefaultAnvilPort = "8545"
	defaultName      = "anvil"
	startTimeout     = 15 * time.Second
)

// Manager starts and stops anvil processes tracked through pid files.
type Manager struct {
	tmpDir string
	binary string
}

var _ usecase.AnvilManager = (*Manager)(nil)

// NewManager creates a new anvil manager
func NewManager() *Manager {
	return &Manager{tmpDir: "/tmp", binary: "anvil"}
}

func (m *Manager) setFilePaths(instance *domain.AnvilInstance) {
	if instance.Name == "" {
		instance.Name = defaultName
	}
	if instance.Port == "" {
		instance.Port = DefaultAnvilPort
	}
	if instance.PidFile == "" {
		if instance.Name == defaultName {
			instance.PidFile = filepath.Join(m.tmpDir, "vaultctl-anvil-pid")
		} else {
			instance.PidFile = filepath.Join(m.tmpDir, "vaultctl-"+instance.Name+".pid")
		}
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(m.tmpDir, "vaultctl-"+instance.Name+".log")
	}
}

func buildAnvilArgs(instance *domain.AnvilInstance) []string {
	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	if instance.ForkURL != "" {
		args = append(args, "--fork-url", instance.ForkURL)
		if instance.ForkBlock > 0 {
			args = append(args, "--fork-block-number", strconv.FormatUint(instance.ForkBlock, 10))
		}
	}
	return args
}

// Start launches anvil in the background and waits for its RPC to answer.
func (m *Manager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)
	if m.isRunning(instance) {
		return fmt.Errorf("anvil is already running (PID file exists at %s)", instance.PidFile)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildAnvilArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}

	if err := os.WriteFile(instance.PidFile, []byte(strconv.Itoa(cmd.Process.Pid)), 0644); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	_ = cmd.Process.Release()

	return m.waitHealthy(ctx, instance)
}

func (m *Manager) waitHealthy(ctx context.Context, instance *domain.AnvilInstance) error {
	ctx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if _, err := chainID(ctx, instance.RPCURL()); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("anvil did not answer on %s, see %s", instance.RPCURL(), instance.LogFile)
		case <-ticker.C:
		}
	}
}

// Stop terminates the process and removes its pid file.
func (m *Manager) Stop(_ context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)
	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil && !strings.Contains(err.Error(), "already finished") {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// GetStatus reports whether the process is alive and its RPC answers.
func (m *Manager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	m.setFilePaths(instance)
	status := &domain.AnvilStatus{
		RPCURL:  instance.RPCURL(),
		LogFile: instance.LogFile,
	}

	if pid, err := readPidFile(instance.PidFile); err == nil && processAlive(pid) {
		status.Running = true
		status.PID = pid
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	id, err := chainID(ctx, instance.RPCURL())
	if err != nil {
		if status.Running {
			status.Error = err.Error()
		}
		return status, nil
	}
	status.RPCHealthy = true
	status.ChainID = id

	client, err := rpc.DialContext(ctx, instance.RPCURL())
	if err == nil {
		defer client.Close()
		var block hexutil.Uint64
		if err := client.CallContext(ctx, &block, "eth_blockNumber"); err == nil {
			status.BlockNumber = uint64(block)
		}
	}
	return status, nil
}

// StreamLogs follows the log file until ctx is cancelled.
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error {
	m.setFilePaths(instance)
	if _, err := os.Stat(instance.LogFile); os.IsNotExist(err) {
		return fmt.Errorf("log file does not exist: %s", instance.LogFile)
	}

	cmd := exec.CommandContext(ctx, "tail", "-f", instance.LogFile)
	cmd.Stdout = writer
	cmd.Stderr = writer
	if err := cmd.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (m *Manager) isRunning(instance *domain.AnvilInstance) bool {
	pid, err := readPidFile(instance.PidFile)
	return err == nil && processAlive(pid)
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	return pid, nil
}

func chainID(ctx context.Context, url string) (uint64, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	var id hexutil.Uint64
	if err := client.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return 0, err
	}
	return uint64(id), nil
}
