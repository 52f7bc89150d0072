package presale

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// PriceFeedInfoSize is the serialized size of a single feed registration.
const PriceFeedInfoSize = (32 + // asset
	32) // data_feed

// ProgramConfigBaseSize is the serialized size of a ProgramConfig account
// with the feed list excluded.
const ProgramConfigBaseSize = (8 + // discriminator
	32 + // admin
	32 + // collected_funds_account
	32 + // chainlink_program
	1 + // has_presale_ended
	8 + // usd_price
	1) // usd_decimals

var ProgramConfigDiscriminator = []byte{0xc4, 0xd2, 0x5a, 0xe7, 0x90, 0x95, 0x8c, 0x3f}

// PriceFeedInfo registers the oracle data feed that prices a payment asset.
type PriceFeedInfo struct {
	Asset    ed25519.PublicKey
	DataFeed ed25519.PublicKey
}

// ProgramConfig is the singleton account governing a sale: the admin
// identity, the accepted payment assets and their price feeds, and the USD
// reference price of the sale token.
type ProgramConfig struct {
	Admin                 ed25519.PublicKey
	CollectedFundsAccount ed25519.PublicKey
	ChainlinkProgram      ed25519.PublicKey
	HasPresaleEnded       bool
	UsdPrice              uint64
	UsdDecimals           uint8
	Feeds                 []PriceFeedInfo
}

// GetProgramConfigSize returns the exact serialized size of a ProgramConfig
// holding the provided number of feed registrations. There is never slack:
// the account is sized to the feed list on every mutation that touches it.
func GetProgramConfigSize(feedCount int) int {
	return ProgramConfigBaseSize + 4 + feedCount*PriceFeedInfoSize
}

// GetFeed returns the feed registration for the provided payment asset.
func (obj *ProgramConfig) GetFeed(asset ed25519.PublicKey) (*PriceFeedInfo, bool) {
	for i := range obj.Feeds {
		if bytes.Equal(obj.Feeds[i].Asset, asset) {
			return &obj.Feeds[i], true
		}
	}
	return nil, false
}

func (obj *ProgramConfig) Marshal() []byte {
	data := make([]byte, GetProgramConfigSize(len(obj.Feeds)))

	var offset int
	putDiscriminator(data, ProgramConfigDiscriminator, &offset)
	putKey(data, obj.Admin, &offset)
	putKey(data, obj.CollectedFundsAccount, &offset)
	putKey(data, obj.ChainlinkProgram, &offset)
	putBool(data, obj.HasPresaleEnded, &offset)
	putUint64(data, obj.UsdPrice, &offset)
	putUint8(data, obj.UsdDecimals, &offset)
	putUint32(data, uint32(len(obj.Feeds)), &offset)
	for i := range obj.Feeds {
		putKey(data, obj.Feeds[i].Asset, &offset)
		putKey(data, obj.Feeds[i].DataFeed, &offset)
	}

	return data
}

func (obj *ProgramConfig) Unmarshal(data []byte) error {
	if len(data) < ProgramConfigBaseSize+4 {
		return ErrInvalidAccountData
	}

	var offset int

	var discriminator []byte
	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, ProgramConfigDiscriminator) {
		return ErrInvalidAccountData
	}

	getKey(data, &obj.Admin, &offset)
	getKey(data, &obj.CollectedFundsAccount, &offset)
	getKey(data, &obj.ChainlinkProgram, &offset)
	getBool(data, &obj.HasPresaleEnded, &offset)
	getUint64(data, &obj.UsdPrice, &offset)
	getUint8(data, &obj.UsdDecimals, &offset)

	var feedCount uint32
	getUint32(data, &feedCount, &offset)

	// The account is always sized exactly to its feed list. Trailing bytes
	// indicate a corrupt or partially resized record.
	if len(data) != GetProgramConfigSize(int(feedCount)) {
		return ErrInvalidAccountData
	}

	obj.Feeds = make([]PriceFeedInfo, feedCount)
	for i := range obj.Feeds {
		getKey(data, &obj.Feeds[i].Asset, &offset)
		getKey(data, &obj.Feeds[i].DataFeed, &offset)
	}

	return nil
}

func (obj *ProgramConfig) String() string {
	return fmt.Sprintf(
		"ProgramConfig{admin=%s,collected_funds=%s,chainlink_program=%s,ended=%v,usd_price=%d,usd_decimals=%d,feeds=%d}",
		base58.Encode(obj.Admin),
		base58.Encode(obj.CollectedFundsAccount),
		base58.Encode(obj.ChainlinkProgram),
		obj.HasPresaleEnded,
		obj.UsdPrice,
		obj.UsdDecimals,
		len(obj.Feeds),
	)
}
