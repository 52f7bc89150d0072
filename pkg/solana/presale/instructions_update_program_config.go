package presale

import (
	"crypto/ed25519"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana"
)

var UpdateProgramConfigInstructionDiscriminator = []byte{
	0xd6, 0x03, 0xbb, 0x62, 0xaa, 0x6a, 0x21, 0x2d,
}

// UpdateProgramConfigInstructionArgs is a patch over the mutable fields of a
// ProgramConfig. Nil fields are interpreted on chain as "leave unchanged"; only
// present fields are serialized with their presence flag set.
type UpdateProgramConfigInstructionArgs struct {
	Admin                 ed25519.PublicKey
	Feeds                 *[]PriceFeedInfo
	HasPresaleEnded       *bool
	UsdPrice              *uint64
	UsdDecimals           *uint8
	CollectedFundsAccount ed25519.PublicKey
	ChainlinkProgram      ed25519.PublicKey
}

type UpdateProgramConfigInstructionAccounts struct {
	ProgramConfig ed25519.PublicKey
	Admin         ed25519.PublicKey
}

func getUpdateProgramConfigInstructionArgsSize(args *UpdateProgramConfigInstructionArgs) int {
	size := 7 // presence flags
	if args.Admin != nil {
		size += 32
	}
	if args.Feeds != nil {
		size += 4 + len(*args.Feeds)*PriceFeedInfoSize
	}
	if args.HasPresaleEnded != nil {
		size += 1
	}
	if args.UsdPrice != nil {
		size += 8
	}
	if args.UsdDecimals != nil {
		size += 1
	}
	if args.CollectedFundsAccount != nil {
		size += 32
	}
	if args.ChainlinkProgram != nil {
		size += 32
	}
	return size
}

func NewUpdateProgramConfigInstruction(
	accounts *UpdateProgramConfigInstructionAccounts,
	args *UpdateProgramConfigInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		len(UpdateProgramConfigInstructionDiscriminator)+
			getUpdateProgramConfigInstructionArgsSize(args))

	putDiscriminator(data, UpdateProgramConfigInstructionDiscriminator, &offset)
	putOptionalKey(data, args.Admin, &offset)
	if args.Feeds != nil {
		data[offset] = 1
		offset += 1
		putUint32(data, uint32(len(*args.Feeds)), &offset)
		for i := range *args.Feeds {
			putKey(data, (*args.Feeds)[i].Asset, &offset)
			putKey(data, (*args.Feeds)[i].DataFeed, &offset)
		}
	} else {
		offset += 1
	}
	putOptionalBool(data, args.HasPresaleEnded, &offset)
	putOptionalUint64(data, args.UsdPrice, &offset)
	putOptionalUint8(data, args.UsdDecimals, &offset)
	putOptionalKey(data, args.CollectedFundsAccount, &offset)
	putOptionalKey(data, args.ChainlinkProgram, &offset)

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
				PublicKey:  accounts.Admin,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
