package ledger

import (
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrAccountNotFound indicates the referenced account has never been
	// created.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists indicates an account already exists at the address
	// being created.
	ErrAccountExists = errors.New("account already exists")
)

// Account is a single addressable record: raw data plus the program that
// owns (and may mutate) it.
type Account struct {
	Address ed25519.PublicKey
	Owner   ed25519.PublicKey
	Data    []byte
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	clone := &Account{
		Address: make(ed25519.PublicKey, len(a.Address)),
		Owner:   make(ed25519.PublicKey, len(a.Owner)),
		Data:    make([]byte, len(a.Data)),
	}
	copy(clone.Address, a.Address)
	copy(clone.Owner, a.Owner)
	copy(clone.Data, a.Data)
	return clone
}

// Ledger is an in-process account store with serialized, atomic
// transactions. It stands in for the execution environment's commit/abort
// semantics: a transaction either publishes all of its writes or none of
// them, and concurrent transactions never observe each other's partial
// state.
type Ledger struct {
	mu       sync.Mutex
	accounts map[string]*Account
}

func New() *Ledger {
	return &Ledger{
		accounts: make(map[string]*Account),
	}
}

// Execute runs fn against a transactional view of the ledger. All writes
// made through the transaction are staged and committed only if fn returns
// nil. Transactions are fully serialized, so every check inside fn observes
// committed state as of this transaction, never a stale read.
func (l *Ledger) Execute(ctx context.Context, fn func(tx *Transaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &Transaction{
		ledger: l,
		staged: make(map[string]*Account),
	}

	if err := fn(tx); err != nil {
		return err
	}

	for key, account := range tx.staged {
		l.accounts[key] = account
	}

	return nil
}

// GetAccount returns a copy of a committed account.
func (l *Ledger) GetAccount(address ed25519.PublicKey) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[string(address)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account.Clone(), nil
}

// Transaction is a staged view over the ledger. Reads observe staged writes
// first, then committed state. Writes never escape the transaction until it
// commits.
type Transaction struct {
	ledger *Ledger
	staged map[string]*Account
}

// GetAccount returns a copy of the account as visible to this transaction.
func (tx *Transaction) GetAccount(address ed25519.PublicKey) (*Account, error) {
	if account, ok := tx.staged[string(address)]; ok {
		return account.Clone(), nil
	}

	account, ok := tx.ledger.accounts[string(address)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account.Clone(), nil
}

// HasAccount reports whether an account is visible to this transaction.
func (tx *Transaction) HasAccount(address ed25519.PublicKey) bool {
	if _, ok := tx.staged[string(address)]; ok {
		return true
	}
	_, ok := tx.ledger.accounts[string(address)]
	return ok
}

// CreateAccount stages a new account. Creation is exactly-once: an address
// can never be reused.
func (tx *Transaction) CreateAccount(address, owner ed25519.PublicKey, data []byte) error {
	if tx.HasAccount(address) {
		return ErrAccountExists
	}

	account := &Account{
		Address: address,
		Owner:   owner,
		Data:    data,
	}
	tx.staged[string(address)] = account.Clone()

	return nil
}

// SetAccountData stages a full replacement of an account's data. The new
// data may be of any length; resizes are committed atomically with the rest
// of the transaction.
func (tx *Transaction) SetAccountData(address ed25519.PublicKey, data []byte) error {
	account, err := tx.GetAccount(address)
	if err != nil {
		return err
	}

	account.Data = make([]byte, len(data))
	copy(account.Data, data)
	tx.staged[string(address)] = account

	return nil
}
