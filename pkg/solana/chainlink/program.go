package chainlink

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

var (
	ErrInvalidFeedData = errors.New("unexpected feed account data")
)

var (
	// PROGRAM_ADDRESS is the address of the Chainlink OCR2 store program, which
	// owns all on-chain price feed accounts.
	//
	// Reference: https://docs.chain.link/data-feeds/solana
	PROGRAM_ADDRESS = mustBase58Decode("HEvSKofvBgfaexv23kMabbYqxasxU3mQ4ibBMEmJWHny")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
