package presale

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub
}

func TestProgramConfigExactSize(t *testing.T) {
	config := &ProgramConfig{
		Admin:                 generateKey(t),
		CollectedFundsAccount: generateKey(t),
		ChainlinkProgram:      generateKey(t),
		UsdPrice:              10,
		UsdDecimals:           2,
	}

	for n := 0; n <= 5; n++ {
		marshalled := config.Marshal()
		assert.Len(t, marshalled, GetProgramConfigSize(n))
		assert.Len(t, marshalled, ProgramConfigBaseSize+4+n*PriceFeedInfoSize)

		config.Feeds = append(config.Feeds, PriceFeedInfo{
			Asset:    generateKey(t),
			DataFeed: generateKey(t),
		})
	}
}

func TestProgramConfigRoundTrip(t *testing.T) {
	expected := &ProgramConfig{
		Admin:                 generateKey(t),
		CollectedFundsAccount: generateKey(t),
		ChainlinkProgram:      generateKey(t),
		HasPresaleEnded:       true,
		UsdPrice:              25,
		UsdDecimals:           2,
		Feeds: []PriceFeedInfo{
			{Asset: generateKey(t), DataFeed: generateKey(t)},
			{Asset: generateKey(t), DataFeed: generateKey(t)},
		},
	}

	var actual ProgramConfig
	require.NoError(t, actual.Unmarshal(expected.Marshal()))
	assert.Equal(t, *expected, actual)
}

func TestProgramConfigUnmarshalInvalid(t *testing.T) {
	config := &ProgramConfig{
		Admin:                 generateKey(t),
		CollectedFundsAccount: generateKey(t),
		ChainlinkProgram:      generateKey(t),
		Feeds: []PriceFeedInfo{
			{Asset: generateKey(t), DataFeed: generateKey(t)},
		},
	}
	marshalled := config.Marshal()

	var actual ProgramConfig
	assert.Equal(t, ErrInvalidAccountData, actual.Unmarshal(marshalled[:ProgramConfigBaseSize]))

	// Trailing slack after the feed list is a corrupt record
	assert.Equal(t, ErrInvalidAccountData, actual.Unmarshal(append(marshalled, 0)))

	// Wrong discriminator
	marshalled[0]++
	assert.Equal(t, ErrInvalidAccountData, actual.Unmarshal(marshalled))
}

func TestProgramConfigGetFeed(t *testing.T) {
	asset := generateKey(t)
	dataFeed := generateKey(t)

	config := &ProgramConfig{
		Admin:                 generateKey(t),
		CollectedFundsAccount: generateKey(t),
		ChainlinkProgram:      generateKey(t),
		Feeds: []PriceFeedInfo{
			{Asset: generateKey(t), DataFeed: generateKey(t)},
			{Asset: asset, DataFeed: dataFeed},
		},
	}

	feed, ok := config.GetFeed(asset)
	require.True(t, ok)
	assert.Equal(t, dataFeed, feed.DataFeed)

	_, ok = config.GetFeed(generateKey(t))
	assert.False(t, ok)
}
