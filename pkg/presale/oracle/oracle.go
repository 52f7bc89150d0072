package oracle

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/presale/ledger"
	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana/chainlink"
)

var (
	// ErrNotFeedAccount indicates the account isn't owned by the Chainlink
	// store program or doesn't hold feed state.
	ErrNotFeedAccount = errors.New("not a chainlink feed account")
)

// AccountReader provides read access to accounts. Both a committed ledger
// view and an in-flight transaction satisfy it, so feed reads always observe
// the same snapshot as the settlement logic using them.
type AccountReader interface {
	GetAccount(address ed25519.PublicKey) (*ledger.Account, error)
}

// GetFeed loads and validates a Chainlink price feed. Feed values are never
// cached; every call observes the round currently recorded on the account.
func GetFeed(reader AccountReader, address ed25519.PublicKey) (*chainlink.Feed, error) {
	account, err := reader.GetAccount(address)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(account.Owner, chainlink.PROGRAM_ADDRESS) {
		return nil, ErrNotFeedAccount
	}

	var feed chainlink.Feed
	if err := feed.Unmarshal(account.Data); err != nil {
		return nil, ErrNotFeedAccount
	}
	return &feed, nil
}

// CreateFeed stages a new feed account owned by the Chainlink store program.
func CreateFeed(tx *ledger.Transaction, address ed25519.PublicKey, feed *chainlink.Feed) error {
	return tx.CreateAccount(address, chainlink.PROGRAM_ID, feed.Marshal())
}

// SetFeedAnswer replaces the latest round on an existing feed account.
func SetFeedAnswer(tx *ledger.Transaction, address ed25519.PublicKey, answer uint64) error {
	feed, err := GetFeed(tx, address)
	if err != nil {
		return err
	}

	feed.LatestRoundId++
	feed.LatestAnswer = answer

	return tx.SetAccountData(address, feed.Marshal())
}
