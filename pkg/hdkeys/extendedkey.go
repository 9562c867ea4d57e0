package hdkeys

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/grendel/walletcore/pkg/base58"
	"github.com/grendel/walletcore/pkg/hashes"
)

var (
	ErrInvalidSeedLength     = errors.New("hdkeys: seed must be between 16 and 64 bytes")
	ErrUnusableSeed          = errors.New("hdkeys: seed produces an unusable master key")
	ErrInvalidChild          = errors.New("hdkeys: child index produces an invalid key, use the next index")
	ErrDeriveHardenedFromPub = errors.New("hdkeys: cannot derive a hardened child from a public key")
	ErrNotPrivateKey         = errors.New("hdkeys: operation requires a private extended key")
	ErrInvalidKeyData        = errors.New("hdkeys: malformed extended key")
	ErrDepthExceeded         = errors.New("hdkeys: derivation depth exceeds 255")
)

// HardenedKeyStart is the first hardened child index. Indices at or above
// it derive from the parent private key only.
const HardenedKeyStart uint32 = 0x80000000

// serializedKeyLen is the byte length of a BIP-32 extended key before the
// Base58Check checksum: version(4) depth(1) fingerprint(4) index(4)
// chaincode(32) keydata(33).
const serializedKeyLen = 78

const (
	minSeedBytes = 16
	maxSeedBytes = 64
)

// masterHMACKey seeds the HMAC that turns a wallet seed into a master key.
var masterHMACKey = []byte("Bitcoin seed")

// Versions holds the four-byte serialization prefixes for one network's
// private and public extended keys, the "xprv"/"xpub" magic.
type Versions struct {
	Private [4]byte
	Public  [4]byte
}

var (
	// MainNetVersions serializes to the familiar xprv/xpub prefixes.
	MainNetVersions = Versions{
		Private: [4]byte{0x04, 0x88, 0xad, 0xe4},
		Public:  [4]byte{0x04, 0x88, 0xb2, 0x1e},
	}
	// TestNetVersions serializes to tprv/tpub.
	TestNetVersions = Versions{
		Private: [4]byte{0x04, 0x35, 0x83, 0x94},
		Public:  [4]byte{0x04, 0x35, 0x87, 0xcf},
	}
)

// ExtendedKey is a BIP-32 key: key material plus the chain code and
// position metadata needed to derive children and serialize the key.
type ExtendedKey struct {
	versions  Versions
	key       []byte // 32-byte private scalar or 33-byte compressed point
	chainCode []byte
	depth     uint8
	parentFP  [4]byte
	childIdx  uint32
	isPrivate bool
}

// NewMaster derives the master extended key from a wallet seed via
// HMAC-SHA512 keyed with "Bitcoin seed".
func NewMaster(seed []byte, versions Versions) (*ExtendedKey, error) {
	if len(seed) < minSeedBytes || len(seed) > maxSeedBytes {
		return nil, ErrInvalidSeedLength
	}

	sum := hashes.HmacSha512(masterHMACKey, seed)
	keyBytes, chainCode := sum[:32], sum[32:]

	if !usableScalar(keyBytes) {
		return nil, ErrUnusableSeed
	}
	return &ExtendedKey{
		versions:  versions,
		key:       keyBytes,
		chainCode: chainCode,
		isPrivate: true,
	}, nil
}

// usableScalar reports whether k is a valid private key: nonzero and less
// than the curve order.
func usableScalar(k []byte) bool {
	n := new(big.Int).SetBytes(k)
	return n.Sign() != 0 && n.Cmp(btcec.S256().N) < 0
}

// IsPrivate reports whether the key carries private material.
func (k *ExtendedKey) IsPrivate() bool { return k.isPrivate }

// Depth is the number of derivation steps from the master key.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ChildIndex is the index this key was derived at, including the hardened
// bit. It is zero for a master key.
func (k *ExtendedKey) ChildIndex() uint32 { return k.childIdx }

// ChainCode returns a copy of the 32-byte chain code.
func (k *ExtendedKey) ChainCode() []byte {
	out := make([]byte, len(k.chainCode))
	copy(out, k.chainCode)
	return out
}

// ParentFingerprint returns the first four bytes of the parent key's
// identifier.
func (k *ExtendedKey) ParentFingerprint() [4]byte { return k.parentFP }

// pubKeyBytes returns the compressed public key point, computing it from
// the private scalar when necessary.
func (k *ExtendedKey) pubKeyBytes() []byte {
	if !k.isPrivate {
		return k.key
	}
	priv, _ := btcec.PrivKeyFromBytes(k.key)
	return priv.PubKey().SerializeCompressed()
}

// Fingerprint returns the first four bytes of HASH160 of the compressed
// public key.
func (k *ExtendedKey) Fingerprint() [4]byte {
	var fp [4]byte
	copy(fp[:], hashes.Hash160(k.pubKeyBytes())[:4])
	return fp
}

// Derive returns the child key at the given index. Hardened indices
// (HardenedKeyStart and above) require a private parent. Per BIP-32 an
// index can very rarely be invalid; callers should treat ErrInvalidChild
// by moving to the next index.
func (k *ExtendedKey) Derive(index uint32) (*ExtendedKey, error) {
	if k.depth == 0xff {
		return nil, ErrDepthExceeded
	}
	hardened := index >= HardenedKeyStart
	if hardened && !k.isPrivate {
		return nil, ErrDeriveHardenedFromPub
	}

	// data is 0x00||priv||index for hardened children and
	// compressedPub||index otherwise.
	data := make([]byte, 0, 37)
	if hardened {
		data = append(data, 0x00)
		data = append(data, k.key...)
	} else {
		data = append(data, k.pubKeyBytes()...)
	}
	data = binary.BigEndian.AppendUint32(data, index)

	sum := hashes.HmacSha512(k.chainCode, data)
	il, childChain := sum[:32], sum[32:]

	ilNum := new(big.Int).SetBytes(il)
	if ilNum.Cmp(btcec.S256().N) >= 0 {
		return nil, ErrInvalidChild
	}

	child := &ExtendedKey{
		versions:  k.versions,
		chainCode: childChain,
		depth:     k.depth + 1,
		parentFP:  k.Fingerprint(),
		childIdx:  index,
		isPrivate: k.isPrivate,
	}

	if k.isPrivate {
		// childKey = (IL + parent) mod N
		keyNum := new(big.Int).SetBytes(k.key)
		keyNum.Add(keyNum, ilNum)
		keyNum.Mod(keyNum, btcec.S256().N)
		if keyNum.Sign() == 0 {
			return nil, ErrInvalidChild
		}
		childKey := make([]byte, 32)
		keyNum.FillBytes(childKey)
		child.key = childKey
		return child, nil
	}

	// childPoint = IL*G + parentPoint
	parent, err := btcec.ParsePubKey(k.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyData, err)
	}
	ilX, ilY := btcec.S256().ScalarBaseMult(il)
	childX, childY := btcec.S256().Add(ilX, ilY, parent.X(), parent.Y())
	if childX.Sign() == 0 && childY.Sign() == 0 {
		return nil, ErrInvalidChild
	}
	child.key = compressPoint(childX, childY)
	return child, nil
}

// compressPoint serializes an affine curve point in 33-byte compressed
// form.
func compressPoint(x, y *big.Int) []byte {
	out := make([]byte, 33)
	out[0] = 0x02 | byte(y.Bit(0))
	x.FillBytes(out[1:])
	return out
}

// Neuter returns the public extended key corresponding to this key. A
// public key neuters to itself.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	if !k.isPrivate {
		return k
	}
	return &ExtendedKey{
		versions:  k.versions,
		key:       k.pubKeyBytes(),
		chainCode: k.chainCode,
		depth:     k.depth,
		parentFP:  k.parentFP,
		childIdx:  k.childIdx,
		isPrivate: false,
	}
}

// ECPrivKey returns the key as a secp256k1 private key.
func (k *ExtendedKey) ECPrivKey() (*btcec.PrivateKey, error) {
	if !k.isPrivate {
		return nil, ErrNotPrivateKey
	}
	priv, _ := btcec.PrivKeyFromBytes(k.key)
	return priv, nil
}

// ECPubKey returns the key's public point.
func (k *ExtendedKey) ECPubKey() (*btcec.PublicKey, error) {
	return btcec.ParsePubKey(k.pubKeyBytes())
}

// String serializes the key in the 78-byte BIP-32 form wrapped in
// Base58Check.
func (k *ExtendedKey) String() string {
	buf := make([]byte, 0, serializedKeyLen)
	if k.isPrivate {
		buf = append(buf, k.versions.Private[:]...)
	} else {
		buf = append(buf, k.versions.Public[:]...)
	}
	buf = append(buf, k.depth)
	buf = append(buf, k.parentFP[:]...)
	buf = binary.BigEndian.AppendUint32(buf, k.childIdx)
	buf = append(buf, k.chainCode...)
	if k.isPrivate {
		buf = append(buf, 0x00)
	}
	buf = append(buf, k.key...)
	return base58.CheckEncodeRaw(buf)
}

// ParseExtendedKey deserializes a Base58Check extended key. The private
// or public nature of the key is taken from the key-data prefix byte; the
// version bytes are preserved as parsed.
func ParseExtendedKey(text string) (*ExtendedKey, error) {
	payload, err := base58.CheckDecodeRaw(text)
	if err != nil {
		return nil, err
	}
	if len(payload) != serializedKeyLen {
		return nil, fmt.Errorf("%w: %d payload bytes", ErrInvalidKeyData, len(payload))
	}

	var version [4]byte
	copy(version[:], payload[:4])

	k := &ExtendedKey{
		versions: versionsFor(version),
		depth:    payload[4],
		childIdx: binary.BigEndian.Uint32(payload[9:13]),
	}
	copy(k.parentFP[:], payload[5:9])
	k.chainCode = append([]byte(nil), payload[13:45]...)
	keyData := payload[45:78]

	switch keyData[0] {
	case 0x00:
		if !usableScalar(keyData[1:]) {
			return nil, ErrInvalidKeyData
		}
		k.isPrivate = true
		k.key = append([]byte(nil), keyData[1:]...)
	case 0x02, 0x03:
		if _, err := btcec.ParsePubKey(keyData); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKeyData, err)
		}
		k.isPrivate = false
		k.key = append([]byte(nil), keyData...)
	default:
		return nil, ErrInvalidKeyData
	}
	return k, nil
}

// versionsFor resolves a parsed version prefix to its full network table
// so a parsed private key can still be neutered and reserialized. Unknown
// prefixes keep the parsed bytes in both slots.
func versionsFor(version [4]byte) Versions {
	for _, v := range []Versions{MainNetVersions, TestNetVersions} {
		if version == v.Private || version == v.Public {
			return v
		}
	}
	return Versions{Private: version, Public: version}
}
