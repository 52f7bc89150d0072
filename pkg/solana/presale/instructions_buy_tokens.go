package presale

import (
	"crypto/ed25519"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana"
)

var BuyTokensInstructionDiscriminator = []byte{
	0xbd, 0x15, 0xe6, 0x85, 0xf7, 0x02, 0x6e, 0x2a,
}

const (
	BuyTokensInstructionArgsSize = 8 // payer_mint_amount
)

type BuyTokensInstructionArgs struct {
	PayerMintAmount uint64
}

type BuyTokensInstructionAccounts struct {
	Signer                     ed25519.PublicKey
	ProgramConfig              ed25519.PublicKey
	VaultAccount               ed25519.PublicKey
	UserVaultAccount           ed25519.PublicKey
	PayerTokenAccount          ed25519.PublicKey
	CollectedFundsTokenAccount ed25519.PublicKey
	VaultMint                  ed25519.PublicKey
	PayerMint                  ed25519.PublicKey
	ChainlinkFeed              ed25519.PublicKey
	ChainlinkProgram           ed25519.PublicKey
}

func NewBuyTokensInstruction(
	accounts *BuyTokensInstructionAccounts,
	args *BuyTokensInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		len(BuyTokensInstructionDiscriminator)+
			BuyTokensInstructionArgsSize)

	putDiscriminator(data, BuyTokensInstructionDiscriminator, &offset)
	putUint64(data, args.PayerMintAmount, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Signer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.ProgramConfig,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserVaultAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.PayerTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CollectedFundsTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.PayerMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ChainlinkFeed,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ChainlinkProgram,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
