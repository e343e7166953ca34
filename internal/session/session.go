// Package session composes the binding layer and the request state machine
// into a stateful facade for CLIs and panels to consume. A session owns one
// live request state and one async value per read query; it performs no
// business logic of its own.
package session

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/multitoken-labs/m1155/internal/config"
	"github.com/multitoken-labs/m1155/internal/erc1155"
	"github.com/multitoken-labs/m1155/internal/txstate"
)

// PreconditionError reports missing context required for an action, checked
// synchronously before the state machine is touched or any network call made.
type PreconditionError struct {
	Missing string
}

func (e *PreconditionError) Error() string {
	return "missing " + e.Missing + " — connect a signing wallet first"
}

// ContractInfo aggregates contract-level reads. Optional fields are probes:
// a minimal deployment reports them Unsupported rather than zero.
type ContractInfo struct {
	Address string
	Owner   erc1155.Probe[string]
	Paused  erc1155.Probe[bool]
	BaseURI erc1155.Probe[string]
}

// TokenInfo aggregates per-token reads.
type TokenInfo struct {
	ID          *big.Int
	Exists      erc1155.Probe[bool]
	TotalSupply erc1155.Probe[*big.Int]
	URI         erc1155.Probe[string]
}

// Balance is one (account, id) balance row.
type Balance struct {
	Account string
	ID      *big.Int
	Amount  *big.Int
}

// Session is the interaction facade over one deployed contract instance.
// Read state is owned exclusively by the session and replaced wholesale on
// each fetch. A second write started before the first resolves is a caller
// error; the session does not serialize them.
type Session struct {
	reader         *erc1155.Reader
	writer         *erc1155.Writer // nil without a connected signer
	tracker        *txstate.Tracker
	confirmTimeout time.Duration

	mu           sync.Mutex
	info         txstate.Async[ContractInfo]
	token        txstate.Async[TokenInfo]
	balances     txstate.Async[[]Balance]
	approval     txstate.Async[bool]
	lastAccounts []string
	lastIDs      []*big.Int
}

// Option customizes a Session.
type Option func(*Session)

// WithWriter connects a signer-backed writer; without one every action
// fails with a PreconditionError.
func WithWriter(w *erc1155.Writer) Option {
	return func(s *Session) { s.writer = w }
}

// WithTracker substitutes the request tracker (tests inject fake clocks and
// listeners through it).
func WithTracker(t *txstate.Tracker) Option {
	return func(s *Session) { s.tracker = t }
}

// WithConfirmTimeout overrides how long actions wait for inclusion.
func WithConfirmTimeout(d time.Duration) Option {
	return func(s *Session) { s.confirmTimeout = d }
}

// New creates a Session over reader.
func New(reader *erc1155.Reader, opts ...Option) *Session {
	s := &Session{
		reader:         reader,
		confirmTimeout: config.TxConfirmTimeout,
		info:           txstate.AsyncOf[ContractInfo](),
		token:          txstate.AsyncOf[TokenInfo](),
		balances:       txstate.AsyncOf[[]Balance](),
		approval:       txstate.AsyncOf[bool](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = txstate.NewTracker(config.StatusResetDelay)
	}
	return s
}

// RequestState returns the current write operation state.
func (s *Session) RequestState() txstate.RequestState { return s.tracker.State() }

// ResetRequest forces terminal request state back to idle.
func (s *Session) ResetRequest() { s.tracker.Reset() }

// CanWrite reports whether a signer is connected.
func (s *Session) CanWrite() bool { return s.writer != nil }

// Sender returns the connected signer's address, or "" in read-only mode.
func (s *Session) Sender() string {
	if s.writer == nil {
		return ""
	}
	return s.writer.Sender()
}

// ---------------------------------------------------------------------------
// reads
// ---------------------------------------------------------------------------

// ContractInfo returns the last fetched contract info.
func (s *Session) ContractInfo() txstate.Async[ContractInfo] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// TokenInfo returns the last fetched token info.
func (s *Session) TokenInfo() txstate.Async[TokenInfo] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Balances returns the last fetched balance rows.
func (s *Session) Balances() txstate.Async[[]Balance] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances
}

// Approval returns the last fetched approval flag.
func (s *Session) Approval() txstate.Async[bool] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.approval
}

// FetchContractInfo refreshes owner, pause flag, and base URI. Probes keep
// "unsupported" distinct from zero values on minimal deployments.
func (s *Session) FetchContractInfo(ctx context.Context) (ContractInfo, error) {
	s.setInfo(txstate.Loading[ContractInfo]())

	owner, err := s.reader.Owner(ctx)
	if err != nil {
		s.setInfo(txstate.Errored[ContractInfo](err))
		return ContractInfo{}, err
	}
	paused, err := s.reader.Paused(ctx)
	if err != nil {
		s.setInfo(txstate.Errored[ContractInfo](err))
		return ContractInfo{}, err
	}
	baseURI, err := s.reader.URI(ctx, big.NewInt(0))
	if err != nil {
		s.setInfo(txstate.Errored[ContractInfo](err))
		return ContractInfo{}, err
	}

	info := ContractInfo{
		Address: s.reader.Contract(),
		Owner:   owner,
		Paused:  paused,
		BaseURI: baseURI,
	}
	s.setInfo(txstate.Ready(info))
	return info, nil
}

// FetchTokenInfo refreshes existence, supply, and URI for one token id.
func (s *Session) FetchTokenInfo(ctx context.Context, id *big.Int) (TokenInfo, error) {
	s.setToken(txstate.Loading[TokenInfo]())

	exists, err := s.reader.Exists(ctx, id)
	if err != nil {
		s.setToken(txstate.Errored[TokenInfo](err))
		return TokenInfo{}, err
	}
	supply, err := s.reader.TotalSupply(ctx, id)
	if err != nil {
		s.setToken(txstate.Errored[TokenInfo](err))
		return TokenInfo{}, err
	}
	uri, err := s.reader.URI(ctx, id)
	if err != nil {
		s.setToken(txstate.Errored[TokenInfo](err))
		return TokenInfo{}, err
	}

	info := TokenInfo{ID: id, Exists: exists, TotalSupply: supply, URI: uri}
	s.setToken(txstate.Ready(info))
	return info, nil
}

// FetchBalances refreshes balances for parallel (accounts, ids) pairs and
// remembers the query so successful writes can refetch it.
func (s *Session) FetchBalances(ctx context.Context, accounts []string, ids []*big.Int) ([]Balance, error) {
	s.mu.Lock()
	s.balances = txstate.Loading[[]Balance]()
	s.lastAccounts = accounts
	s.lastIDs = ids
	s.mu.Unlock()

	amounts, err := s.reader.BalanceOfBatch(ctx, accounts, ids)
	if err != nil {
		s.setBalances(txstate.Errored[[]Balance](err))
		return nil, err
	}

	rows := make([]Balance, len(amounts))
	for i, amt := range amounts {
		rows[i] = Balance{Account: accounts[i], ID: ids[i], Amount: amt}
	}
	s.setBalances(txstate.Ready(rows))
	return rows, nil
}

// FetchApproval refreshes the operator approval flag for (account, operator).
func (s *Session) FetchApproval(ctx context.Context, account, operator string) (bool, error) {
	s.setApproval(txstate.Loading[bool]())

	approved, err := s.reader.IsApprovedForAll(ctx, account, operator)
	if err != nil {
		s.setApproval(txstate.Errored[bool](err))
		return false, err
	}
	s.setApproval(txstate.Ready(approved))
	return approved, nil
}

// ---------------------------------------------------------------------------
// actions
// ---------------------------------------------------------------------------

// Transfer moves amount of token id and refetches balances on success.
func (s *Session) Transfer(ctx context.Context, from, to string, id, amount *big.Int, data []byte) (string, error) {
	return s.run(ctx, "transfer", func(ctx context.Context) (string, error) {
		return s.writer.SafeTransferFrom(ctx, from, to, id, amount, data)
	}, s.refetchBalances)
}

// TransferBatch moves several token ids and refetches balances on success.
func (s *Session) TransferBatch(ctx context.Context, from, to string, ids, amounts []*big.Int, data []byte) (string, error) {
	return s.run(ctx, "transferBatch", func(ctx context.Context) (string, error) {
		return s.writer.SafeBatchTransferFrom(ctx, from, to, ids, amounts, data)
	}, s.refetchBalances)
}

// SetApproval grants or revokes an operator and refetches the flag.
func (s *Session) SetApproval(ctx context.Context, operator string, approved bool) (string, error) {
	return s.run(ctx, "setApprovalForAll", func(ctx context.Context) (string, error) {
		return s.writer.SetApprovalForAll(ctx, operator, approved)
	}, func(ctx context.Context) {
		_, _ = s.FetchApproval(ctx, s.writer.Sender(), operator)
	})
}

// Mint creates tokens and refetches balances on success.
func (s *Session) Mint(ctx context.Context, to string, id, amount *big.Int, data []byte) (string, error) {
	return s.run(ctx, "mint", func(ctx context.Context) (string, error) {
		return s.writer.Mint(ctx, to, id, amount, data)
	}, s.refetchBalances)
}

// MintAuto creates tokens under a contract-chosen id.
func (s *Session) MintAuto(ctx context.Context, to string, amount *big.Int, data []byte) (string, error) {
	return s.run(ctx, "mintAuto", func(ctx context.Context) (string, error) {
		return s.writer.MintAuto(ctx, to, amount, data)
	}, s.refetchBalances)
}

// MintBatch creates several token ids at once.
func (s *Session) MintBatch(ctx context.Context, to string, ids, amounts []*big.Int, data []byte) (string, error) {
	return s.run(ctx, "mintBatch", func(ctx context.Context) (string, error) {
		return s.writer.MintBatch(ctx, to, ids, amounts, data)
	}, s.refetchBalances)
}

// Burn destroys tokens and refetches balances on success.
func (s *Session) Burn(ctx context.Context, from string, id, amount *big.Int) (string, error) {
	return s.run(ctx, "burn", func(ctx context.Context) (string, error) {
		return s.writer.Burn(ctx, from, id, amount)
	}, s.refetchBalances)
}

// BurnBatch destroys several token ids at once.
func (s *Session) BurnBatch(ctx context.Context, from string, ids, amounts []*big.Int) (string, error) {
	return s.run(ctx, "burnBatch", func(ctx context.Context) (string, error) {
		return s.writer.BurnBatch(ctx, from, ids, amounts)
	}, s.refetchBalances)
}

// SetBaseURI updates the metadata base URI and refetches contract info.
func (s *Session) SetBaseURI(ctx context.Context, newURI string) (string, error) {
	return s.run(ctx, "setURI", func(ctx context.Context) (string, error) {
		return s.writer.SetURI(ctx, newURI)
	}, s.refetchInfo)
}

// Pause halts transfers and refetches contract info.
func (s *Session) Pause(ctx context.Context) (string, error) {
	return s.run(ctx, "pause", func(ctx context.Context) (string, error) {
		return s.writer.Pause(ctx)
	}, s.refetchInfo)
}

// Unpause resumes transfers and refetches contract info.
func (s *Session) Unpause(ctx context.Context) (string, error) {
	return s.run(ctx, "unpause", func(ctx context.Context) (string, error) {
		return s.writer.Unpause(ctx)
	}, s.refetchInfo)
}

// TransferOwnership hands the contract to a new owner.
func (s *Session) TransferOwnership(ctx context.Context, newOwner string) (string, error) {
	return s.run(ctx, "transferOwnership", func(ctx context.Context) (string, error) {
		return s.writer.TransferOwnership(ctx, newOwner)
	}, s.refetchInfo)
}

// run drives one write operation through the state machine:
// precondition check → pending → confirming → success|error, then a
// dependent-read refetch on success. The refetch outcome does not affect the
// returned result; it only updates async read state.
func (s *Session) run(ctx context.Context, op string, submit func(context.Context) (string, error), refetch func(context.Context)) (string, error) {
	if s.writer == nil {
		return "", &PreconditionError{Missing: "signer"}
	}

	if err := s.tracker.Begin(op); err != nil {
		return "", err
	}

	hash, err := submit(ctx)
	if err != nil {
		_ = s.tracker.Fail(err)
		return "", err
	}

	if err := s.tracker.Confirm(hash); err != nil {
		return "", err
	}

	if _, err := s.writer.WaitMined(ctx, hash, s.confirmTimeout); err != nil {
		_ = s.tracker.Fail(err)
		return "", err
	}

	if err := s.tracker.Succeed(); err != nil {
		return "", err
	}

	if refetch != nil {
		refetch(ctx)
	}
	return hash, nil
}

func (s *Session) refetchBalances(ctx context.Context) {
	s.mu.Lock()
	accounts, ids := s.lastAccounts, s.lastIDs
	s.mu.Unlock()
	if len(accounts) == 0 {
		return
	}
	_, _ = s.FetchBalances(ctx, accounts, ids)
}

func (s *Session) refetchInfo(ctx context.Context) {
	_, _ = s.FetchContractInfo(ctx)
}

func (s *Session) setInfo(v txstate.Async[ContractInfo]) {
	s.mu.Lock()
	s.info = v
	s.mu.Unlock()
}

func (s *Session) setToken(v txstate.Async[TokenInfo]) {
	s.mu.Lock()
	s.token = v
	s.mu.Unlock()
}

func (s *Session) setBalances(v txstate.Async[[]Balance]) {
	s.mu.Lock()
	s.balances = v
	s.mu.Unlock()
}

func (s *Session) setApproval(v txstate.Async[bool]) {
	s.mu.Lock()
	s.approval = v
	s.mu.Unlock()
}
