package base58

import (
	"github.com/grendel/walletcore/pkg/hashes"
)

// checksumLen is the number of double-SHA256 bytes appended by Base58Check.
const checksumLen = 4

// checksum returns the first four bytes of SHA256(SHA256(data)).
func checksum(data []byte) []byte {
	return hashes.DoubleSha256(data)[:checksumLen]
}

// CheckEncode prepends version to payload, appends the 4-byte double-SHA256
// checksum of the result and encodes the whole thing as Base58.
func CheckEncode(version byte, payload []byte) string {
	buf := make([]byte, 0, 1+len(payload)+checksumLen)
	buf = append(buf, version)
	buf = append(buf, payload...)
	buf = append(buf, checksum(buf)...)
	return Encode(buf)
}

// CheckDecode decodes a Base58Check string, verifies its checksum and
// returns the version byte and payload. A recomputed checksum that does not
// match fails with ErrChecksum.
func CheckDecode(text string) (byte, []byte, error) {
	decoded, err := Decode(text)
	if err != nil {
		return 0, nil, err
	}
	if len(decoded) < 1+checksumLen {
		return 0, nil, ErrInvalidFormat
	}

	body := decoded[:len(decoded)-checksumLen]
	want := decoded[len(decoded)-checksumLen:]
	got := checksum(body)
	for i := 0; i < checksumLen; i++ {
		if want[i] != got[i] {
			return 0, nil, ErrChecksum
		}
	}
	return body[0], body[1:], nil
}

// CheckEncodeRaw is CheckEncode without a version byte, for formats such as
// BIP-32 extended keys whose version prefix is already part of the payload.
func CheckEncodeRaw(payload []byte) string {
	buf := make([]byte, 0, len(payload)+checksumLen)
	buf = append(buf, payload...)
	buf = append(buf, checksum(buf)...)
	return Encode(buf)
}

// CheckDecodeRaw verifies and strips the checksum, returning the payload
// with any leading version bytes intact.
func CheckDecodeRaw(text string) ([]byte, error) {
	decoded, err := Decode(text)
	if err != nil {
		return nil, err
	}
	if len(decoded) < checksumLen {
		return nil, ErrInvalidFormat
	}

	body := decoded[:len(decoded)-checksumLen]
	want := decoded[len(decoded)-checksumLen:]
	got := checksum(body)
	for i := 0; i < checksumLen; i++ {
		if want[i] != got[i] {
			return nil, ErrChecksum
		}
	}
	return body, nil
}
