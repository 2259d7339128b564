package usecase_test

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

type txCall struct {
	Method string
	Args   []any
}

// contractState is the shared state behind every handle at one address.
type contractState struct {
	name    string
	args    []any
	returns map[string][]any
	txs     []txCall
	reverts map[string]error
}

func (s *contractState) sent(method string) []txCall {
	var out []txCall
	for _, tx := range s.txs {
		if tx.Method == method {
			out = append(out, tx)
		}
	}
	return out
}

type fakeContract struct {
	chain   *fakeChain
	address common.Address
	abi     abi.ABI
}

func (c *fakeContract) Address() common.Address { return c.address }
func (c *fakeContract) ABI() abi.ABI            { return c.abi }

func (c *fakeContract) Call(_ context.Context, method string, _ ...any) ([]any, error) {
	c.chain.mu.Lock()
	defer c.chain.mu.Unlock()
	st := c.chain.state(c.address)
	if err := st.reverts[method]; err != nil {
		return nil, err
	}
	out, ok := st.returns[method]
	if !ok {
		return nil, fmt.Errorf("%s: no return configured for %s", st.name, method)
	}
	return out, nil
}

// Transact records the call. setX(v) makes x() return v.
func (c *fakeContract) Transact(_ context.Context, method string, args ...any) (*types.Receipt, error) {
	c.chain.mu.Lock()
	defer c.chain.mu.Unlock()
	st := c.chain.state(c.address)
	if err := st.reverts[method]; err != nil {
		return nil, err
	}
	st.txs = append(st.txs, txCall{Method: method, Args: args})
	if strings.HasPrefix(method, "set") && len(method) > 3 && len(args) == 1 {
		getter := strings.ToLower(method[3:4]) + method[4:]
		st.returns[getter] = []any{args[0]}
	}
	c.chain.nonce++
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: common.BigToHash(big.NewInt(int64(c.chain.nonce)))}, nil
}

// fakeChain deploys fakeContracts at sequential addresses.
type fakeChain struct {
	mu       sync.Mutex
	id       uint64
	from     common.Address
	local    bool
	nonce    int
	states   map[common.Address]*contractState
	deployed []string
	waits    []uint64
	balance  *big.Int
	advanced time.Duration
	onDeploy func(name string, st *contractState)
}

func newFakeChain(id uint64) *fakeChain {
	return &fakeChain{
		id:      id,
		from:    common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		local:   true,
		states:  make(map[common.Address]*contractState),
		balance: big.NewInt(0),
	}
}

func (f *fakeChain) state(address common.Address) *contractState {
	st, ok := f.states[address]
	if !ok {
		st = &contractState{returns: make(map[string][]any), reverts: make(map[string]error)}
		f.states[address] = st
	}
	return st
}

// stateOf is state for tests, under the lock.
func (f *fakeChain) stateOf(address common.Address) *contractState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state(address)
}

func (f *fakeChain) ChainID() uint64      { return f.id }
func (f *fakeChain) From() common.Address { return f.from }
func (f *fakeChain) IsLocal() bool        { return f.local }

func (f *fakeChain) Deploy(_ context.Context, art *domain.Artifact, args ...any) (bindings.Contract, *types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nonce++
	address := common.BigToAddress(big.NewInt(int64(0x1000 + len(f.deployed))))
	f.deployed = append(f.deployed, art.Name)
	st := f.state(address)
	st.name = art.Name
	st.args = args
	if f.onDeploy != nil {
		f.onDeploy(art.Name, st)
	}
	receipt := &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: common.BigToHash(big.NewInt(int64(f.nonce))), ContractAddress: address}
	return &fakeContract{chain: f, address: address, abi: art.ABI}, receipt, nil
}

func (f *fakeChain) At(art *domain.Artifact, address common.Address) bindings.Contract {
	return &fakeContract{chain: f, address: address, abi: art.ABI}
}

func (f *fakeChain) AtABI(_ string, parsed abi.ABI, address common.Address) bindings.Contract {
	return &fakeContract{chain: f, address: address, abi: parsed}
}

func (f *fakeChain) BlockNumber(context.Context) (uint64, error) {
	return uint64(f.nonce), nil
}

func (f *fakeChain) Balance(context.Context, common.Address) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeChain) WaitConfirmations(_ context.Context, blocks uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waits = append(f.waits, blocks)
	return nil
}

func (f *fakeChain) AdvanceTime(_ context.Context, d time.Duration) error {
	f.advanced += d
	return nil
}

type fakeChains struct {
	chain usecase.Chain
	err   error
}

func (p fakeChains) Connect(context.Context) (usecase.Chain, error) {
	return p.chain, p.err
}

// fakeArtifacts serves artifacts with the given constructor ABIs.
type fakeArtifacts map[string]*domain.Artifact

func newFakeArtifacts(names ...string) fakeArtifacts {
	a := fakeArtifacts{}
	for _, n := range names {
		a.add(n, "[]")
	}
	return a
}

func (a fakeArtifacts) add(name, abiJSON string) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(err)
	}
	a[name] = &domain.Artifact{Name: name, Path: "contracts/" + name + ".sol/" + name + ".json", ABI: parsed, Bytecode: []byte{0x60, 0x00}}
}

func (a fakeArtifacts) Get(name string) (*domain.Artifact, error) {
	art, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrArtifactNotFound)
	}
	return art, nil
}

func (a fakeArtifacts) List() ([]string, error) {
	out := make([]string, 0, len(a))
	for n := range a {
		out = append(out, n)
	}
	return out, nil
}

func coreArtifacts() fakeArtifacts {
	return newFakeArtifacts(
		usecase.ControllerArtifact,
		usecase.AnnouncerArtifact,
		usecase.BookkeeperArtifact,
		usecase.ProxyArtifact,
		usecase.SmartVaultArtifact,
	)
}

type memStore struct {
	mu       sync.Mutex
	records  map[uint64]*domain.DeploymentRecord
	saves    int
	exported map[string]domain.CoreAddresses
}

func newMemStore() *memStore {
	return &memStore{records: make(map[uint64]*domain.DeploymentRecord), exported: make(map[string]domain.CoreAddresses)}
}

func (s *memStore) Load(_ context.Context, chainID uint64) (*domain.DeploymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[chainID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (s *memStore) Save(_ context.Context, record *domain.DeploymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ChainID] = record
	s.saves++
	return nil
}

func (s *memStore) ExportCoreAddresses(_ context.Context, path string, core domain.CoreAddresses) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exported[path] = core
	return nil
}

type recordingProgress struct {
	usecase.NopProgress
	events []usecase.ProgressEvent
}

func (p *recordingProgress) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	p.events = append(p.events, event)
}

func bigInt(n int64) *big.Int {
	return big.NewInt(n)
}
