package presale

import (
	"crypto/ed25519"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana"
)

var InitializeProgramConfigInstructionDiscriminator = []byte{
	0x06, 0x83, 0x3d, 0xed, 0x28, 0x6e, 0x53, 0x7c,
}

type InitializeProgramConfigInstructionAccounts struct {
	ProgramConfig         ed25519.PublicKey
	VaultAccount          ed25519.PublicKey
	CollectedFundsAccount ed25519.PublicKey
	Signer                ed25519.PublicKey
	Mint                  ed25519.PublicKey
	ChainlinkProgram      ed25519.PublicKey
}

func NewInitializeProgramConfigInstruction(
	accounts *InitializeProgramConfigInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, len(InitializeProgramConfigInstructionDiscriminator))
	putDiscriminator(data, InitializeProgramConfigInstructionDiscriminator, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.ProgramConfig,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CollectedFundsAccount,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Signer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ChainlinkProgram,
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
