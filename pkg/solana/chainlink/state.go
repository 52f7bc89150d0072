package chainlink

import (
	"fmt"

	"github.com/TrustBetOnChain/pre-sale-program/pkg/solana/binary"
)

const (
	// FeedVersion is the transmissions account layout version understood by
	// this package.
	FeedVersion = 2

	MaxDescriptionSize = 32
)

// FeedSize is the serialized size of the feed state read by consumers. The
// on-chain account additionally carries a ring buffer of historical
// transmissions which is not modeled here; only the latest round is.
const FeedSize = (1 + // version
	MaxDescriptionSize + // description
	1 + // decimals
	4 + // latest round id
	4 + // latest timestamp
	8) // latest answer

// Feed is the subset of a Chainlink transmissions account exposed to price
// consumers: the latest reported round for a single asset/USD pair.
type Feed struct {
	Version     uint8
	Description string
	Decimals    uint8

	LatestRoundId   uint32
	LatestTimestamp uint32
	LatestAnswer    uint64
}

func (f *Feed) Marshal() []byte {
	b := make([]byte, FeedSize)

	var offset int
	binary.PutUint8(b, f.Version, &offset)
	binary.PutFixedString(b[offset:], f.Description, MaxDescriptionSize, &offset)
	binary.PutUint8(b[offset:], f.Decimals, &offset)
	binary.PutUint32(b[offset:], f.LatestRoundId, &offset)
	binary.PutUint32(b[offset:], f.LatestTimestamp, &offset)
	binary.PutUint64(b[offset:], f.LatestAnswer, &offset)

	return b
}

func (f *Feed) Unmarshal(b []byte) error {
	if len(b) < FeedSize {
		return ErrInvalidFeedData
	}

	var offset int
	binary.GetUint8(b, &f.Version, &offset)
	if f.Version != FeedVersion {
		return ErrInvalidFeedData
	}
	binary.GetFixedString(b[offset:], &f.Description, MaxDescriptionSize, &offset)
	binary.GetUint8(b[offset:], &f.Decimals, &offset)
	binary.GetUint32(b[offset:], &f.LatestRoundId, &offset)
	binary.GetUint32(b[offset:], &f.LatestTimestamp, &offset)
	binary.GetUint64(b[offset:], &f.LatestAnswer, &offset)

	return nil
}

func (f *Feed) String() string {
	return fmt.Sprintf(
		"Feed{description=%s,decimals=%d,round=%d,answer=%d}",
		f.Description,
		f.Decimals,
		f.LatestRoundId,
		f.LatestAnswer,
	)
}
