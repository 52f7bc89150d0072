package presale

import (
	"crypto/ed25519"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana"
)

var GetTokenAmountInstructionDiscriminator = []byte{
	0xd6, 0x9e, 0x74, 0x57, 0xaa, 0xc3, 0x84, 0x6e,
}

const (
	GetTokenAmountInstructionArgsSize = 8 // payer_mint_amount
)

// GetTokenAmountInstructionArgs quotes how many sale tokens a payment of
// payer_mint_amount is worth. The instruction is a view; it mutates nothing.
type GetTokenAmountInstructionArgs struct {
	PayerMintAmount uint64
}

type GetTokenAmountInstructionAccounts struct {
	ProgramConfig    ed25519.PublicKey
	VaultMint        ed25519.PublicKey
	PayerMint        ed25519.PublicKey
	ChainlinkFeed    ed25519.PublicKey
	ChainlinkProgram ed25519.PublicKey
}

func NewGetTokenAmountInstruction(
	accounts *GetTokenAmountInstructionAccounts,
	args *GetTokenAmountInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		len(GetTokenAmountInstructionDiscriminator)+
			GetTokenAmountInstructionArgsSize)

	putDiscriminator(data, GetTokenAmountInstructionDiscriminator, &offset)
	putUint64(data, args.PayerMintAmount, &offset)

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
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
