package rlp

// Mode selects how the decoder treats non-canonical length encodings.
// Strict rejects any input the encoder could not itself have produced;
// Lenient accepts and normalizes it. Strict is the default used by Decode,
// since a canonical codec that silently accepts non-canonical input will
// disagree with itself on a round trip.
type Mode int

const (
	Strict Mode = iota
	Lenient
)

// Decode parses buf as a single RLP item in strict mode. The whole buffer
// must be consumed; trailing bytes are an error.
func Decode(buf []byte) (Item, error) {
	return DecodeMode(buf, Strict)
}

// DecodeLenient parses buf accepting non-canonical length encodings.
func DecodeLenient(buf []byte) (Item, error) {
	return DecodeMode(buf, Lenient)
}

// DecodeMode parses buf as a single RLP item under the given mode.
func DecodeMode(buf []byte, mode Mode) (Item, error) {
	if len(buf) == 0 {
		return Item{}, ErrEmptyInput
	}
	it, rest, err := decodeItem(buf, mode)
	if err != nil {
		return Item{}, err
	}
	if len(rest) != 0 {
		return Item{}, ErrTrailingBytes
	}
	return it, nil
}

// decodeItem is a recursive-descent parser over an untrusted buffer. Every
// declared length is bounds-checked against the remaining input before any
// slice operation, so decoding is total and linear in len(buf).
func decodeItem(buf []byte, mode Mode) (Item, []byte, error) {
	if len(buf) == 0 {
		return Item{}, nil, ErrEmptyInput
	}
	prefix := buf[0]

	switch {
	// Single byte, its own encoding.
	case prefix < 0x80:
		return Item{kind: KindBytes, str: []byte{prefix}}, buf[1:], nil

	// Short string, length 0-55 in the prefix itself.
	case prefix <= 0xB7:
		strLen := int(prefix - 0x80)
		if strLen > len(buf)-1 {
			return Item{}, nil, ErrLengthOverflow
		}
		payload := buf[1 : 1+strLen]
		if mode == Strict && strLen == 1 && payload[0] < 0x80 {
			// Should have been encoded as the byte itself.
			return Item{}, nil, ErrNonCanonical
		}
		str := make([]byte, strLen)
		copy(str, payload)
		return Item{kind: KindBytes, str: str}, buf[1+strLen:], nil

	// Long string, big-endian length follows the prefix.
	case prefix <= 0xBF:
		strLen, rest, err := readLength(buf, int(prefix-0xB7), mode)
		if err != nil {
			return Item{}, nil, err
		}
		if strLen > len(rest) {
			return Item{}, nil, ErrLengthOverflow
		}
		str := make([]byte, strLen)
		copy(str, rest[:strLen])
		return Item{kind: KindBytes, str: str}, rest[strLen:], nil

	// Short list.
	case prefix <= 0xF7:
		payloadLen := int(prefix - 0xC0)
		if payloadLen > len(buf)-1 {
			return Item{}, nil, ErrLengthOverflow
		}
		items, err := decodeListPayload(buf[1:1+payloadLen], mode)
		if err != nil {
			return Item{}, nil, err
		}
		return Item{kind: KindList, list: items}, buf[1+payloadLen:], nil

	// Long list.
	default:
		payloadLen, rest, err := readLength(buf, int(prefix-0xF7), mode)
		if err != nil {
			return Item{}, nil, err
		}
		if payloadLen > len(rest) {
			return Item{}, nil, ErrLengthOverflow
		}
		items, err := decodeListPayload(rest[:payloadLen], mode)
		if err != nil {
			return Item{}, nil, err
		}
		return Item{kind: KindList, list: items}, rest[payloadLen:], nil
	}
}

// readLength reads a lenLen-byte big-endian length following the prefix
// byte, enforcing canonical form in strict mode: no leading zero byte and
// no long form for lengths that fit the short form.
func readLength(buf []byte, lenLen int, mode Mode) (int, []byte, error) {
	if lenLen > len(buf)-1 {
		return 0, nil, ErrLengthOverflow
	}
	lenBytes := buf[1 : 1+lenLen]
	if mode == Strict && lenBytes[0] == 0 {
		return 0, nil, ErrNonCanonical
	}
	// Lengths beyond the int range cannot describe a real buffer anyway.
	if lenLen > 8 {
		return 0, nil, ErrLengthOverflow
	}
	var length uint64
	for _, b := range lenBytes {
		length = length<<8 | uint64(b)
	}
	if length > uint64(maxInt) {
		return 0, nil, ErrLengthOverflow
	}
	if mode == Strict && length <= 55 {
		return 0, nil, ErrNonCanonical
	}
	return int(length), buf[1+lenLen:], nil
}

func decodeListPayload(payload []byte, mode Mode) ([]Item, error) {
	items := []Item{}
	for len(payload) > 0 {
		it, rest, err := decodeItem(payload, mode)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
		payload = rest
	}
	return items, nil
}

const maxInt = int(^uint(0) >> 1)
