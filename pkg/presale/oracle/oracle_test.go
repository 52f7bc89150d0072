package oracle

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/presale/ledger"
	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana/chainlink"
)

func TestOracle_GetFeed(t *testing.T) {
	l := ledger.New()

	address := generateKey(t)
	expected := &chainlink.Feed{
		Version:         chainlink.FeedVersion,
		Description:     "SOL / USD",
		Decimals:        8,
		LatestRoundId:   42,
		LatestTimestamp: 1700000000,
		LatestAnswer:    17800415790,
	}

	require.NoError(t, l.Execute(context.Background(), func(tx *ledger.Transaction) error {
		return CreateFeed(tx, address, expected)
	}))

	feed, err := GetFeed(l, address)
	require.NoError(t, err)
	assert.Equal(t, expected, feed)
}

func TestOracle_GetFeedNotFound(t *testing.T) {
	l := ledger.New()

	_, err := GetFeed(l, generateKey(t))
	assert.Equal(t, ledger.ErrAccountNotFound, err)
}

func TestOracle_GetFeedWrongOwner(t *testing.T) {
	l := ledger.New()

	address := generateKey(t)
	feed := &chainlink.Feed{
		Version:      chainlink.FeedVersion,
		Decimals:     8,
		LatestAnswer: 100000000,
	}

	require.NoError(t, l.Execute(context.Background(), func(tx *ledger.Transaction) error {
		return tx.CreateAccount(address, generateKey(t), feed.Marshal())
	}))

	_, err := GetFeed(l, address)
	assert.Equal(t, ErrNotFeedAccount, err)
}

func TestOracle_GetFeedInvalidData(t *testing.T) {
	l := ledger.New()

	address := generateKey(t)
	require.NoError(t, l.Execute(context.Background(), func(tx *ledger.Transaction) error {
		return tx.CreateAccount(address, chainlink.PROGRAM_ID, []byte{1, 2, 3})
	}))

	_, err := GetFeed(l, address)
	assert.Equal(t, ErrNotFeedAccount, err)
}

func TestOracle_SetFeedAnswer(t *testing.T) {
	l := ledger.New()

	address := generateKey(t)
	require.NoError(t, l.Execute(context.Background(), func(tx *ledger.Transaction) error {
		return CreateFeed(tx, address, &chainlink.Feed{
			Version:       chainlink.FeedVersion,
			Decimals:      8,
			LatestRoundId: 1,
			LatestAnswer:  100000000,
		})
	}))

	require.NoError(t, l.Execute(context.Background(), func(tx *ledger.Transaction) error {
		return SetFeedAnswer(tx, address, 125000000)
	}))

	feed, err := GetFeed(l, address)
	require.NoError(t, err)
	assert.EqualValues(t, 2, feed.LatestRoundId)
	assert.EqualValues(t, 125000000, feed.LatestAnswer)
}

func TestOracle_ReadsWithinTransaction(t *testing.T) {
	l := ledger.New()

	address := generateKey(t)
	require.NoError(t, l.Execute(context.Background(), func(tx *ledger.Transaction) error {
		if err := CreateFeed(tx, address, &chainlink.Feed{
			Version:      chainlink.FeedVersion,
			Decimals:     8,
			LatestAnswer: 100000000,
		}); err != nil {
			return err
		}

		feed, err := GetFeed(tx, address)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 100000000, feed.LatestAnswer)
		return nil
	}))
}

func generateKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub
}
