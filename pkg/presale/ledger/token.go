package ledger

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana/token"
)

var (
	// ErrNotMintAccount indicates the account isn't a token mint.
	ErrNotMintAccount = errors.New("not a mint account")

	// ErrNotTokenAccount indicates the account isn't a token holding account.
	ErrNotTokenAccount = errors.New("not a token account")
)

// CreateMint stages a new token mint.
func (tx *Transaction) CreateMint(address, authority ed25519.PublicKey, decimals uint8) error {
	mint := &token.Mint{
		MintAuthority: authority,
		Decimals:      decimals,
		IsInitialized: true,
	}
	return tx.CreateAccount(address, token.ProgramKey, mint.Marshal())
}

// GetMint loads and validates a token mint.
func (tx *Transaction) GetMint(address ed25519.PublicKey) (*token.Mint, error) {
	account, err := tx.GetAccount(address)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(account.Owner, token.ProgramKey) {
		return nil, ErrNotMintAccount
	}

	var mint token.Mint
	if !mint.Unmarshal(account.Data) {
		return nil, ErrNotMintAccount
	}
	return &mint, nil
}

// CreateTokenAccount stages a new token holding account for a (mint, owner)
// pair.
func (tx *Transaction) CreateTokenAccount(address, mint, owner ed25519.PublicKey) error {
	if _, err := tx.GetMint(mint); err != nil {
		return err
	}

	account := &token.Account{
		Mint:  mint,
		Owner: owner,
		State: token.AccountStateInitialized,
	}
	return tx.CreateAccount(address, token.ProgramKey, account.Marshal())
}

// GetTokenAccount loads and validates a token holding account.
func (tx *Transaction) GetTokenAccount(address ed25519.PublicKey) (*token.Account, error) {
	account, err := tx.GetAccount(address)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(account.Owner, token.ProgramKey) {
		return nil, ErrNotTokenAccount
	}

	var tokenAccount token.Account
	if !tokenAccount.Unmarshal(account.Data) {
		return nil, ErrNotTokenAccount
	}
	return &tokenAccount, nil
}

func (tx *Transaction) setTokenAccount(address ed25519.PublicKey, account *token.Account) error {
	return tx.SetAccountData(address, account.Marshal())
}

// MintTokens mints new supply to a destination token account.
func (tx *Transaction) MintTokens(mint, destination ed25519.PublicKey, amount uint64) error {
	mintState, err := tx.GetMint(mint)
	if err != nil {
		return err
	}

	destinationAccount, err := tx.GetTokenAccount(destination)
	if err != nil {
		return err
	}
	if !bytes.Equal(destinationAccount.Mint, mint) {
		return token.ErrorMintMismatch
	}

	newSupply := mintState.Supply + amount
	if newSupply < mintState.Supply {
		return token.ErrorOverflow
	}
	mintState.Supply = newSupply
	destinationAccount.Amount += amount

	if err := tx.SetAccountData(mint, mintState.Marshal()); err != nil {
		return err
	}
	return tx.setTokenAccount(destination, destinationAccount)
}

// TransferTokens atomically debits the source and credits the destination.
// Both accounts must be denominated in the same mint.
func (tx *Transaction) TransferTokens(source, destination ed25519.PublicKey, amount uint64) error {
	sourceAccount, err := tx.GetTokenAccount(source)
	if err != nil {
		return err
	}
	destinationAccount, err := tx.GetTokenAccount(destination)
	if err != nil {
		return err
	}

	if !bytes.Equal(sourceAccount.Mint, destinationAccount.Mint) {
		return token.ErrorMintMismatch
	}
	if sourceAccount.Amount < amount {
		return token.ErrorInsufficientFunds
	}

	// A self-transfer is validated but moves nothing, as in the SPL token
	// program.
	if bytes.Equal(source, destination) {
		return nil
	}

	sourceAccount.Amount -= amount
	destinationAccount.Amount += amount

	if err := tx.setTokenAccount(source, sourceAccount); err != nil {
		return err
	}
	return tx.setTokenAccount(destination, destinationAccount)
}

// GetTokenBalance returns the committed balance of a token account.
func (l *Ledger) GetTokenBalance(address ed25519.PublicKey) (uint64, error) {
	var balance uint64
	err := l.Execute(context.Background(), func(tx *Transaction) error {
		account, err := tx.GetTokenAccount(address)
		if err != nil {
			return err
		}
		balance = account.Amount
		return nil
	})
	return balance, err
}
