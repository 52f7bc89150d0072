package presale

import (
	"crypto/ed25519"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana"
)

var (
	ConfigPrefix    = []byte("config")
	VaultPrefix     = []byte("token_vault")
	UserVaultPrefix = []byte("user_vault")
)

// GetConfigAddress derives the canonical address of the singleton
// ProgramConfig account.
func GetConfigAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		ConfigPrefix,
	)
}

// GetVaultAddress derives the canonical address of the sale token treasury.
func GetVaultAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		VaultPrefix,
	)
}

type GetUserVaultAddressArgs struct {
	Owner ed25519.PublicKey
}

// GetUserVaultAddress derives the per-buyer accumulator account address.
// Callers can recompute it from the buyer identity alone; no registry is
// involved.
func GetUserVaultAddress(args *GetUserVaultAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		UserVaultPrefix,
		args.Owner,
	)
}
