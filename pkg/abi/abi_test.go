package abi

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func mustType(t *testing.T, s string) Type {
	t.Helper()
	typ, err := ParseType(s)
	require.NoError(t, err)
	return typ
}

func TestParseTypeCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"uint256", "uint256"},
		{"uint", "uint256"},
		{"int", "int256"},
		{"address", "address"},
		{"bool", "bool"},
		{"bytes32", "bytes32"},
		{"bytes", "bytes"},
		{"string", "string"},
		{"uint256[]", "uint256[]"},
		{"uint256[2][]", "uint256[2][]"},
		{"(address,uint256)", "(address,uint256)"},
		{"(address,uint256)[]", "(address,uint256)[]"},
		{"(uint256[2])[3]", "(uint256[2])[3]"},
		{"((uint256,uint256),string)", "((uint256,uint256),string)"},
	}
	for _, tc := range tests {
		typ, err := ParseType(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, typ.String(), tc.in)
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, in := range []string{
		"", "uint257", "uint7", "bytes0", "bytes33", "uintx",
		"(address,uint256", "address,uint256)", "uint256[", "uint256[]]",
		"(address,,uint256)", "elephant",
	} {
		_, err := ParseType(in)
		require.Error(t, err, in)
	}
}

func TestParseSignature(t *testing.T) {
	name, types, err := ParseSignature("fill((address,uint256)[],bool)")
	require.NoError(t, err)
	require.Equal(t, "fill", name)
	require.Len(t, types, 2)
	require.Equal(t, "(address,uint256)[]", types[0].String())
	require.Equal(t, "bool", types[1].String())
	require.Equal(t, "fill((address,uint256)[],bool)", CanonicalSignature(name, types))
}

func TestTypeDynamicAndStaticSize(t *testing.T) {
	tests := []struct {
		typ     string
		dynamic bool
		size    int
	}{
		{"uint256", false, 32},
		{"address", false, 32},
		{"bytes32", false, 32},
		{"bytes", true, 0},
		{"string", true, 0},
		{"uint256[3]", false, 96},
		{"uint256[]", true, 0},
		{"(uint256,uint256)", false, 64},
		{"(uint256,string)", true, 0},
		{"string[2]", true, 0},
	}
	for _, tc := range tests {
		typ := mustType(t, tc.typ)
		require.Equal(t, tc.dynamic, typ.Dynamic(), tc.typ)
		if tc.dynamic {
			_, err := typ.StaticSize()
			require.Error(t, err, tc.typ)
		} else {
			n, err := typ.StaticSize()
			require.NoError(t, err, tc.typ)
			require.Equal(t, tc.size, n, tc.typ)
		}
	}
}

func TestSelectorVectors(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"transfer(address,uint256)", "a9059cbb"},
		{"approve(address,uint256)", "095ea7b3"},
		{"transferFrom(address,address,uint256)", "23b872dd"},
		{"balanceOf(address)", "70a08231"},
	}
	for _, tc := range tests {
		sel, err := Selector(tc.sig)
		require.NoError(t, err, tc.sig)
		require.Equal(t, tc.want, hex.EncodeToString(sel[:]), tc.sig)
	}

	// Whitespace and aliases normalize before hashing.
	sel, err := Selector("transfer(address, uint)")
	require.NoError(t, err)
	require.Equal(t, "a9059cbb", hex.EncodeToString(sel[:]))
}

func TestEventTopic(t *testing.T) {
	topic, err := EventTopic("Transfer(address,address,uint256)")
	require.NoError(t, err)
	require.Equal(t,
		"ddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		hex.EncodeToString(topic[:]))
}

func TestEncodeStaticValues(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		value any
		want  string
	}{
		{
			"uint256 one", "uint256", big.NewInt(1),
			"0000000000000000000000000000000000000000000000000000000000000001",
		},
		{
			"int256 minus one", "int256", big.NewInt(-1),
			"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		},
		{
			"bool true", "bool", true,
			"0000000000000000000000000000000000000000000000000000000000000001",
		},
		{
			"bool false", "bool", false,
			"0000000000000000000000000000000000000000000000000000000000000000",
		},
		{
			"bytes3 left aligned", "bytes3", []byte("abc"),
			"6162630000000000000000000000000000000000000000000000000000000000",
		},
		{
			"address right aligned", "address",
			mustHex(t, "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"),
			"0000000000000000000000005aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeSingle(mustType(t, tc.typ), tc.value)
			require.NoError(t, err)
			require.Equal(t, tc.want, hex.EncodeToString(got))
		})
	}
}

func TestEncodeString(t *testing.T) {
	got, err := Encode([]Type{StringType()}, []any{"dog"})
	require.NoError(t, err)
	require.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000020"+
			"0000000000000000000000000000000000000000000000000000000000000003"+
			"646f670000000000000000000000000000000000000000000000000000000000",
		hex.EncodeToString(got))
}

func TestEncodeDynamicArray(t *testing.T) {
	got, err := Encode(
		[]Type{mustType(t, "uint256[]")},
		[]any{[]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}},
	)
	require.NoError(t, err)
	require.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000020"+
			"0000000000000000000000000000000000000000000000000000000000000003"+
			"0000000000000000000000000000000000000000000000000000000000000001"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"0000000000000000000000000000000000000000000000000000000000000003",
		hex.EncodeToString(got))
}

// A static tuple occupies its full flattened width in the head, so the
// offset of a following dynamic argument counts those words, not one
// placeholder word per argument.
func TestStaticTupleOffsetAccounting(t *testing.T) {
	types := []Type{mustType(t, "(uint256,uint256)"), StringType()}
	got, err := Encode(types, []any{
		[]any{big.NewInt(1), big.NewInt(2)},
		"hi",
	})
	require.NoError(t, err)
	require.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000001"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"0000000000000000000000000000000000000000000000000000000000000060"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"6869000000000000000000000000000000000000000000000000000000000000",
		hex.EncodeToString(got))
}

func TestEncodeRangeErrors(t *testing.T) {
	// 2^8 does not fit uint8.
	_, err := EncodeSingle(mustType(t, "uint8"), big.NewInt(256))
	require.ErrorIs(t, err, ErrTypeMismatch)

	// Negative values never fit an unsigned type.
	_, err = EncodeSingle(mustType(t, "uint256"), big.NewInt(-1))
	require.ErrorIs(t, err, ErrTypeMismatch)

	// -2^7-1 does not fit int8, but -2^7 does.
	_, err = EncodeSingle(mustType(t, "int8"), big.NewInt(-129))
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = EncodeSingle(mustType(t, "int8"), big.NewInt(-128))
	require.NoError(t, err)

	// bytes3 wants exactly three bytes.
	_, err = EncodeSingle(mustType(t, "bytes3"), []byte("ab"))
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Encode([]Type{Bool()}, []any{true, false})
	require.ErrorIs(t, err, ErrArgumentCount)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		types  []string
		values []any
	}{
		{
			"erc20 transfer args",
			[]string{"address", "uint256"},
			[]any{mustHex(t, "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"), big.NewInt(1000)},
		},
		{
			"mixed dynamic",
			[]string{"uint256", "string", "bool"},
			[]any{big.NewInt(7), "hello world", true},
		},
		{
			"nested arrays",
			[]string{"uint256[2][]"},
			[]any{[]any{
				[]any{big.NewInt(1), big.NewInt(2)},
				[]any{big.NewInt(3), big.NewInt(4)},
			}},
		},
		{
			"dynamic tuple array",
			[]string{"(uint256,string)[]"},
			[]any{[]any{
				[]any{big.NewInt(1), "a"},
				[]any{big.NewInt(2), "bc"},
			}},
		},
		{
			"signed negatives",
			[]string{"int256", "int8"},
			[]any{big.NewInt(-1234567), big.NewInt(-5)},
		},
		{
			"empty dynamic values",
			[]string{"string", "uint256[]", "bytes"},
			[]any{"", []any{}, []byte{}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			types := make([]Type, len(tc.types))
			for i, s := range tc.types {
				types[i] = mustType(t, s)
			}
			encoded, err := Encode(types, tc.values)
			require.NoError(t, err)

			decoded, err := Decode(types, encoded)
			require.NoError(t, err)

			reencoded, err := Encode(types, decoded)
			require.NoError(t, err)
			require.Equal(t, encoded, reencoded)
		})
	}
}

func TestDecodeValues(t *testing.T) {
	data := mustHex(t,
		"0000000000000000000000005aaeb6053f3e94c9b9a09f33669435e7ef1beaed"+
			"00000000000000000000000000000000000000000000000000000000000003e8")
	out, err := Decode([]Type{Address(), mustType(t, "uint256")}, data)
	require.NoError(t, err)
	require.Len(t, out, 2)

	addr, ok := out[0].([20]byte)
	require.True(t, ok)
	require.Equal(t, "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", hex.EncodeToString(addr[:]))

	amount, ok := out[1].(*big.Int)
	require.True(t, ok)
	require.Equal(t, int64(1000), amount.Int64())
}

func TestDecodeSignExtension(t *testing.T) {
	word := mustHex(t, "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	v, err := DecodeSingle(mustType(t, "int256"), word)
	require.NoError(t, err)
	require.Equal(t, int64(-1), v.(*big.Int).Int64())

	// The same word read unsigned is the full 256-bit maximum.
	v, err = DecodeSingle(mustType(t, "uint256"), word)
	require.NoError(t, err)
	require.Equal(t, 256, v.(*big.Int).BitLen())
}

func TestDecodeErrors(t *testing.T) {
	// Truncated word.
	_, err := DecodeSingle(mustType(t, "uint256"), make([]byte, 31))
	require.ErrorIs(t, err, ErrShortData)

	// Offset past the end of the payload.
	bad := mustHex(t, "0000000000000000000000000000000000000000000000000000000000000040")
	_, err = Decode([]Type{StringType()}, bad)
	require.ErrorIs(t, err, ErrShortData)

	// Length prefix larger than the remaining payload.
	bad = mustHex(t,
		"0000000000000000000000000000000000000000000000000000000000000020"+
			"00000000000000000000000000000000000000000000000000000000000000ff")
	_, err = Decode([]Type{Bytes()}, bad)
	require.ErrorIs(t, err, ErrShortData)

	// Absurd offset word must not be truncated into range.
	bad = mustHex(t, "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	_, err = Decode([]Type{StringType()}, bad)
	require.Error(t, err)
}

const erc20JSON = `[
  {"type":"function","name":"transfer","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"event","name":"Transfer",
   "inputs":[{"name":"from","type":"address","indexed":true},
             {"name":"to","type":"address","indexed":true},
             {"name":"value","type":"uint256"}]},
  {"type":"function","name":"submit",
   "inputs":[{"name":"orders","type":"tuple[]","components":[
     {"name":"id","type":"uint256"},
     {"name":"payload","type":"bytes"}]}]}
]`

func TestParseJSON(t *testing.T) {
	entries, err := ParseJSON([]byte(erc20JSON))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	sig, err := entries[0].Signature()
	require.NoError(t, err)
	require.Equal(t, "transfer(address,uint256)", sig)

	sel, err := entries[0].Selector()
	require.NoError(t, err)
	require.Equal(t, "a9059cbb", hex.EncodeToString(sel[:]))

	topic, err := entries[1].Topic()
	require.NoError(t, err)
	require.Equal(t,
		"ddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		hex.EncodeToString(topic[:]))

	// Components expand into a tuple before the array suffix re-applies.
	sig, err = entries[2].Signature()
	require.NoError(t, err)
	require.Equal(t, "submit((uint256,bytes)[])", sig)
}

func TestEncodeDecodeCall(t *testing.T) {
	entries, err := ParseJSON([]byte(erc20JSON))
	require.NoError(t, err)

	to := mustHex(t, "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	calldata, err := entries[0].EncodeCall([]any{to, big.NewInt(1000)})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hex.EncodeToString(calldata), "a9059cbb"))
	require.Len(t, calldata, 4+64)

	args, err := entries[0].DecodeCallData(calldata)
	require.NoError(t, err)
	require.Len(t, args, 2)
	require.Equal(t, int64(1000), args[1].(*big.Int).Int64())

	// Wrong selector is rejected.
	calldata[0] ^= 0xff
	_, err = entries[0].DecodeCallData(calldata)
	require.Error(t, err)
}
