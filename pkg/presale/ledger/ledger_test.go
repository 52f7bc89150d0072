package ledger

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana/token"
)

func TestLedger_CreateAndGetAccount(t *testing.T) {
	l := New()

	address := generateKey(t)
	owner := generateKey(t)
	data := []byte{1, 2, 3}

	_, err := l.GetAccount(address)
	assert.Equal(t, ErrAccountNotFound, err)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.CreateAccount(address, owner, data)
	}))

	account, err := l.GetAccount(address)
	require.NoError(t, err)
	assert.EqualValues(t, address, account.Address)
	assert.EqualValues(t, owner, account.Owner)
	assert.Equal(t, data, account.Data)
}

func TestLedger_CreateAccountExactlyOnce(t *testing.T) {
	l := New()

	address := generateKey(t)
	owner := generateKey(t)

	err := l.Execute(context.Background(), func(tx *Transaction) error {
		require.NoError(t, tx.CreateAccount(address, owner, []byte{1}))
		return tx.CreateAccount(address, owner, []byte{2})
	})
	assert.Equal(t, ErrAccountExists, err)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.CreateAccount(address, owner, []byte{1})
	}))

	err = l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.CreateAccount(address, owner, []byte{2})
	})
	assert.Equal(t, ErrAccountExists, err)
}

func TestLedger_FailedTransactionLeavesNoWrites(t *testing.T) {
	l := New()

	address := generateKey(t)
	owner := generateKey(t)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.CreateAccount(address, owner, []byte{1})
	}))

	other := generateKey(t)
	err := l.Execute(context.Background(), func(tx *Transaction) error {
		require.NoError(t, tx.SetAccountData(address, []byte{42}))
		require.NoError(t, tx.CreateAccount(other, owner, []byte{2}))
		return errors.New("aborted")
	})
	assert.EqualError(t, err, "aborted")

	account, err := l.GetAccount(address)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, account.Data)

	_, err = l.GetAccount(other)
	assert.Equal(t, ErrAccountNotFound, err)
}

func TestLedger_StagedWritesVisibleWithinTransaction(t *testing.T) {
	l := New()

	address := generateKey(t)
	owner := generateKey(t)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		require.NoError(t, tx.CreateAccount(address, owner, []byte{1}))

		account, err := tx.GetAccount(address)
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, account.Data)

		require.NoError(t, tx.SetAccountData(address, []byte{2, 3}))

		account, err = tx.GetAccount(address)
		require.NoError(t, err)
		assert.Equal(t, []byte{2, 3}, account.Data)

		return nil
	}))

	account, err := l.GetAccount(address)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, account.Data)
}

func TestLedger_SetAccountDataResizes(t *testing.T) {
	l := New()

	address := generateKey(t)
	owner := generateKey(t)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.CreateAccount(address, owner, []byte{1})
	}))

	resized := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.SetAccountData(address, resized)
	}))

	account, err := l.GetAccount(address)
	require.NoError(t, err)
	assert.Equal(t, resized, account.Data)
}

func TestLedger_CancelledContext(t *testing.T) {
	l := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := l.Execute(ctx, func(tx *Transaction) error {
		called = true
		return nil
	})
	assert.Equal(t, context.Canceled, err)
	assert.False(t, called)
}

func TestLedger_TokenLifecycle(t *testing.T) {
	l := New()

	mint := generateKey(t)
	authority := generateKey(t)
	alice := generateKey(t)
	bob := generateKey(t)
	aliceTokens := generateKey(t)
	bobTokens := generateKey(t)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		require.NoError(t, tx.CreateMint(mint, authority, 9))
		require.NoError(t, tx.CreateTokenAccount(aliceTokens, mint, alice))
		require.NoError(t, tx.CreateTokenAccount(bobTokens, mint, bob))
		return tx.MintTokens(mint, aliceTokens, 1000)
	}))

	balance, err := l.GetTokenBalance(aliceTokens)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, balance)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.TransferTokens(aliceTokens, bobTokens, 300)
	}))

	balance, err = l.GetTokenBalance(aliceTokens)
	require.NoError(t, err)
	assert.EqualValues(t, 700, balance)

	balance, err = l.GetTokenBalance(bobTokens)
	require.NoError(t, err)
	assert.EqualValues(t, 300, balance)

	mintState, err := getMint(l, mint)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, mintState.Supply)
}

func TestLedger_TransferInsufficientFunds(t *testing.T) {
	l := New()

	mint := generateKey(t)
	source := generateKey(t)
	destination := generateKey(t)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		require.NoError(t, tx.CreateMint(mint, generateKey(t), 6))
		require.NoError(t, tx.CreateTokenAccount(source, mint, generateKey(t)))
		require.NoError(t, tx.CreateTokenAccount(destination, mint, generateKey(t)))
		return tx.MintTokens(mint, source, 100)
	}))

	err := l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.TransferTokens(source, destination, 101)
	})
	assert.Equal(t, token.ErrorInsufficientFunds, err)

	balance, err := l.GetTokenBalance(source)
	require.NoError(t, err)
	assert.EqualValues(t, 100, balance)
}

func TestLedger_SelfTransferPreservesBalance(t *testing.T) {
	l := New()

	mint := generateKey(t)
	account := generateKey(t)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		require.NoError(t, tx.CreateMint(mint, generateKey(t), 6))
		require.NoError(t, tx.CreateTokenAccount(account, mint, generateKey(t)))
		return tx.MintTokens(mint, account, 100)
	}))

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.TransferTokens(account, account, 100)
	}))

	balance, err := l.GetTokenBalance(account)
	require.NoError(t, err)
	assert.EqualValues(t, 100, balance)

	// Still subject to the funds check.
	err = l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.TransferTokens(account, account, 101)
	})
	assert.Equal(t, token.ErrorInsufficientFunds, err)
}

func TestLedger_TransferMintMismatch(t *testing.T) {
	l := New()

	mintA := generateKey(t)
	mintB := generateKey(t)
	source := generateKey(t)
	destination := generateKey(t)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		require.NoError(t, tx.CreateMint(mintA, generateKey(t), 6))
		require.NoError(t, tx.CreateMint(mintB, generateKey(t), 6))
		require.NoError(t, tx.CreateTokenAccount(source, mintA, generateKey(t)))
		require.NoError(t, tx.CreateTokenAccount(destination, mintB, generateKey(t)))
		return tx.MintTokens(mintA, source, 100)
	}))

	err := l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.TransferTokens(source, destination, 1)
	})
	assert.Equal(t, token.ErrorMintMismatch, err)
}

func TestLedger_MintSupplyOverflow(t *testing.T) {
	l := New()

	mint := generateKey(t)
	destination := generateKey(t)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		require.NoError(t, tx.CreateMint(mint, generateKey(t), 6))
		require.NoError(t, tx.CreateTokenAccount(destination, mint, generateKey(t)))
		return tx.MintTokens(mint, destination, 1)
	}))

	err := l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.MintTokens(mint, destination, ^uint64(0))
	})
	assert.Equal(t, token.ErrorOverflow, err)
}

func TestLedger_TokenAccountValidation(t *testing.T) {
	l := New()

	mint := generateKey(t)
	tokens := generateKey(t)
	arbitrary := generateKey(t)

	require.NoError(t, l.Execute(context.Background(), func(tx *Transaction) error {
		require.NoError(t, tx.CreateMint(mint, generateKey(t), 6))
		require.NoError(t, tx.CreateTokenAccount(tokens, mint, generateKey(t)))
		return tx.CreateAccount(arbitrary, generateKey(t), []byte{1, 2, 3})
	}))

	err := l.Execute(context.Background(), func(tx *Transaction) error {
		_, err := tx.GetTokenAccount(arbitrary)
		return err
	})
	assert.Equal(t, ErrNotTokenAccount, err)

	err = l.Execute(context.Background(), func(tx *Transaction) error {
		_, err := tx.GetMint(tokens)
		return err
	})
	assert.Equal(t, ErrNotMintAccount, err)

	err = l.Execute(context.Background(), func(tx *Transaction) error {
		return tx.CreateTokenAccount(generateKey(t), arbitrary, generateKey(t))
	})
	assert.Equal(t, ErrNotMintAccount, err)
}

func getMint(l *Ledger, address ed25519.PublicKey) (*token.Mint, error) {
	var mint *token.Mint
	err := l.Execute(context.Background(), func(tx *Transaction) error {
		var err error
		mint, err = tx.GetMint(address)
		return err
	})
	return mint, err
}

func generateKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub
}
