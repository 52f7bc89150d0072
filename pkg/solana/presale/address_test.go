package presale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana"
)

func TestGetConfigAddress(t *testing.T) {
	address, bump, err := GetConfigAddress()
	require.NoError(t, err)

	expected, err := solana.CreateProgramAddress(PROGRAM_ID, ConfigPrefix, []byte{bump})
	require.NoError(t, err)
	assert.Equal(t, expected, address)
}

func TestGetUserVaultAddress(t *testing.T) {
	owner := generateKey(t)

	address, _, err := GetUserVaultAddress(&GetUserVaultAddressArgs{Owner: owner})
	require.NoError(t, err)

	// Derivation is a pure function of the owner
	again, _, err := GetUserVaultAddress(&GetUserVaultAddressArgs{Owner: owner})
	require.NoError(t, err)
	assert.Equal(t, address, again)

	other, _, err := GetUserVaultAddress(&GetUserVaultAddressArgs{Owner: generateKey(t)})
	require.NoError(t, err)
	assert.NotEqual(t, address, other)

	vault, _, err := GetVaultAddress()
	require.NoError(t, err)
	assert.NotEqual(t, address, vault)
}
