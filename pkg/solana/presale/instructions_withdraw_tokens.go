package presale

import (
	"crypto/ed25519"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana"
)

var WithdrawTokensInstructionDiscriminator = []byte{
	0x02, 0x04, 0xe1, 0x3d, 0x13, 0xb6, 0x6a, 0xaa,
}

type WithdrawTokensInstructionAccounts struct {
	ProgramConfig ed25519.PublicKey
	VaultAccount  ed25519.PublicKey
	TokenAccount  ed25519.PublicKey
	VaultMint     ed25519.PublicKey
	Admin         ed25519.PublicKey
}

func NewWithdrawTokensInstruction(
	accounts *WithdrawTokensInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, len(WithdrawTokensInstructionDiscriminator))
	putDiscriminator(data, WithdrawTokensInstructionDiscriminator, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []solana.AccountMeta{
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
				PublicKey:  accounts.TokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Admin,
				IsWritable: true,
				IsSigner:   true,
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
