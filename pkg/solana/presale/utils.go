package presale

import (
	"crypto/ed25519"
	"encoding/binary"
)

func putDiscriminator(dst []byte, v []byte, offset *int) {
	copy(dst[*offset:], v)
	*offset += 8
}
func getDiscriminator(src []byte, dst *[]byte, offset *int) {
	*dst = make([]byte, 8)
	copy(*dst, src[*offset:])
	*offset += 8
}

func putKey(dst []byte, v ed25519.PublicKey, offset *int) {
	copy(dst[*offset:], v)
	*offset += ed25519.PublicKeySize
}
func getKey(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
}

func putBool(dst []byte, v bool, offset *int) {
	if v {
		dst[*offset] = 1
	}
	*offset += 1
}
func getBool(src []byte, dst *bool, offset *int) {
	*dst = src[*offset] == 1
	*offset += 1
}

func putUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}
func getUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[*offset]
	*offset += 1
}

func putUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += 4
}
func getUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}
func getUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

// Borsh Option<T> encoding: a single presence byte followed by the value.

func putOptionalKey(dst []byte, v ed25519.PublicKey, offset *int) {
	if v != nil {
		dst[*offset] = 1
		*offset += 1
		putKey(dst, v, offset)
		return
	}
	*offset += 1
}

func putOptionalBool(dst []byte, v *bool, offset *int) {
	if v != nil {
		dst[*offset] = 1
		*offset += 1
		putBool(dst, *v, offset)
		return
	}
	*offset += 1
}

func putOptionalUint8(dst []byte, v *uint8, offset *int) {
	if v != nil {
		dst[*offset] = 1
		*offset += 1
		putUint8(dst, *v, offset)
		return
	}
	*offset += 1
}

func putOptionalUint64(dst []byte, v *uint64, offset *int) {
	if v != nil {
		dst[*offset] = 1
		*offset += 1
		putUint64(dst, *v, offset)
		return
	}
	*offset += 1
}
