package presale

import (
	"crypto/ed25519"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana"
)

var ClaimTokensInstructionDiscriminator = []byte{
	0x6c, 0xd8, 0xd2, 0xe7, 0x00, 0xd4, 0x2a, 0x40,
}

type ClaimTokensInstructionAccounts struct {
	Signer           ed25519.PublicKey
	ProgramConfig    ed25519.PublicKey
	UserVaultAccount ed25519.PublicKey
	UserTokenAccount ed25519.PublicKey
	VaultMint        ed25519.PublicKey
}

func NewClaimTokensInstruction(
	accounts *ClaimTokensInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, len(ClaimTokensInstructionDiscriminator))
	putDiscriminator(data, ClaimTokensInstructionDiscriminator, &offset)

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
				PublicKey:  accounts.UserVaultAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultMint,
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
