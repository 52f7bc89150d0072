package presale

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/pointer"
)

func TestUpdateProgramConfigInstructionEncoding(t *testing.T) {
	accounts := &UpdateProgramConfigInstructionAccounts{
		ProgramConfig: generateKey(t),
		Admin:         generateKey(t),
	}

	// All fields absent: discriminator plus seven presence flags
	instruction := NewUpdateProgramConfigInstruction(accounts, &UpdateProgramConfigInstructionArgs{})
	assert.Len(t, instruction.Data, 8+7)
	assert.Equal(t, UpdateProgramConfigInstructionDiscriminator, instruction.Data[:8])
	for _, flag := range instruction.Data[8:] {
		assert.EqualValues(t, 0, flag)
	}

	// An empty feed list is present, not absent
	instruction = NewUpdateProgramConfigInstruction(accounts, &UpdateProgramConfigInstructionArgs{
		Feeds: &[]PriceFeedInfo{},
	})
	assert.Len(t, instruction.Data, 8+7+4)

	instruction = NewUpdateProgramConfigInstruction(accounts, &UpdateProgramConfigInstructionArgs{
		Admin:           generateKey(t),
		HasPresaleEnded: pointer.Bool(true),
		UsdPrice:        pointer.Uint64(10),
		UsdDecimals:     pointer.Uint8(2),
		Feeds: &[]PriceFeedInfo{
			{Asset: generateKey(t), DataFeed: generateKey(t)},
		},
	})
	assert.Len(t, instruction.Data, 8+7+32+1+8+1+4+PriceFeedInfoSize)
}

func TestBuyTokensInstructionEncoding(t *testing.T) {
	instruction := NewBuyTokensInstruction(
		&BuyTokensInstructionAccounts{
			Signer:           generateKey(t),
			ProgramConfig:    generateKey(t),
			VaultAccount:     generateKey(t),
			UserVaultAccount: generateKey(t),
		},
		&BuyTokensInstructionArgs{PayerMintAmount: 0x0102030405060708},
	)

	assert.Equal(t, PROGRAM_ID, instruction.Program)
	assert.Equal(t, BuyTokensInstructionDiscriminator, instruction.Data[:8])
	assert.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, instruction.Data[8:])
	assert.Len(t, instruction.Accounts, 12)
}
