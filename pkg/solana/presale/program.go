package presale

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana"
)

var (
	ErrInvalidProgram         = errors.New("invalid program id")
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("6cfTEqLuafN5gGVtqnbLwfdLJUXhqd2WnzRUMqAEej48")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID    = ed25519.PublicKey(mustBase58Decode("11111111111111111111111111111111"))
	SPL_TOKEN_PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"))
)

// Custom program errors, offset by the Anchor user error space.
const customErrorOffset = 6000

const (
	// ErrorInvalidVaultMint indicates the provided vault mint doesn't match
	// the mint of the sale token vault.
	ErrorInvalidVaultMint solana.CustomError = customErrorOffset + iota
	// ErrorInvalidPayerTokenAccount indicates the payer token account isn't
	// denominated in the payer mint.
	ErrorInvalidPayerTokenAccount
	// ErrorInvalidTokenAmount indicates a zero payment amount.
	ErrorInvalidTokenAmount
	// ErrorInvalidPriceFeed indicates the provided price feed account isn't a
	// readable feed.
	ErrorInvalidPriceFeed
	// ErrorInvalidChainlinkProgram indicates the provided oracle program
	// doesn't match the configured one.
	ErrorInvalidChainlinkProgram
	// ErrorInvalidChainlinkFeed indicates the provided feed account isn't the
	// one registered for the payer mint.
	ErrorInvalidChainlinkFeed
	// ErrorMathOverflow indicates a failed checked math operation during
	// pricing.
	ErrorMathOverflow
	// ErrorLessThanMinimalValue indicates the computed token amount rounds
	// below the minimum granularity.
	ErrorLessThanMinimalValue
	// ErrorInsufficientVaultBalance indicates the vault doesn't hold enough
	// sale tokens to settle the purchase, or that there is nothing to move.
	ErrorInsufficientVaultBalance
	// ErrorPreSaleStillOn indicates a claim was attempted before the presale
	// ended.
	ErrorPreSaleStillOn
	// ErrorPreSaleEnded indicates a purchase was attempted after the presale
	// ended.
	ErrorPreSaleEnded
)

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
