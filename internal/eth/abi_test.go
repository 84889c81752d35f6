package eth

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector(t *testing.T) {
	sel := selector("transfer(address,uint256)")
	require.Len(t, sel, 4)
	// Well-known ERC-20 transfer selector
	assert.Equal(t, "a9059cbb", hex.EncodeToString(sel))
}

func TestEncodeAddress(t *testing.T) {
	word, err := encodeAddress("0x8e5660b4Ab70168b5a6fEeA0e0315cb49c8Cd539")
	require.NoError(t, err)
	require.Len(t, word, wordSize)

	assert.True(t, bytes.Equal(word[:12], make([]byte, 12)), "address must be left-padded")
	assert.Equal(t, "8e5660b4ab70168b5a6feea0e0315cb49c8cd539", hex.EncodeToString(word[12:]))
}

func TestEncodeAddress_Rejects(t *testing.T) {
	for _, address := range []string{
		"",
		"0x",
		"0x1234",                                      // too short
		"0xzz5660b4ab70168b5a6feea0e0315cb49c8cd539", // not hex
		"0x8e5660b4ab70168b5a6feea0e0315cb49c8cd53900", // 21 bytes
	} {
		t.Run(address, func(t *testing.T) {
			_, err := encodeAddress(address)
			assert.Error(t, err)
		})
	}
}

func TestEncodeUint256(t *testing.T) {
	word, err := encodeUint256(big.NewInt(255))
	require.NoError(t, err)
	require.Len(t, word, wordSize)
	assert.Equal(t, byte(0xff), word[wordSize-1])
	assert.True(t, bytes.Equal(word[:wordSize-1], make([]byte, wordSize-1)))
}

func TestEncodeUint256_Rejects(t *testing.T) {
	_, err := encodeUint256(nil)
	assert.Error(t, err)

	_, err = encodeUint256(big.NewInt(-1))
	assert.Error(t, err)

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = encodeUint256(tooBig)
	assert.Error(t, err)

	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	_, err = encodeUint256(max)
	assert.NoError(t, err)
}

func TestEncodeBytes(t *testing.T) {
	out, err := encodeBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)
	require.Len(t, out, 2*wordSize, "length word plus one padded data word")

	length := new(big.Int).SetBytes(out[:wordSize])
	assert.Equal(t, int64(4), length.Int64())

	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, out[wordSize:wordSize+4])
	assert.True(t, bytes.Equal(out[wordSize+4:], make([]byte, wordSize-4)), "data must be right-padded")
}

func TestEncodeBytes_Empty(t *testing.T) {
	out, err := encodeBytes(nil)
	require.NoError(t, err)
	assert.Len(t, out, wordSize, "empty bytes is just the zero length word")
}

func TestEncodeBytes_WordAligned(t *testing.T) {
	out, err := encodeBytes(make([]byte, wordSize))
	require.NoError(t, err)
	assert.Len(t, out, 2*wordSize, "aligned data needs no padding")
}

func TestEncodeCall_StaticLayout(t *testing.T) {
	data, err := encodeCall("executeOrder(address,uint256,uint256)",
		addressArg("0x8e5660b4ab70168b5a6feea0e0315cb49c8cd539"),
		uint256Arg(big.NewInt(42)),
		uint256Arg(big.NewInt(1000)),
	)
	require.NoError(t, err)
	require.Len(t, data, 4+3*wordSize)

	word := func(i int) []byte { return data[4+i*wordSize : 4+(i+1)*wordSize] }
	assert.Equal(t, int64(42), new(big.Int).SetBytes(word(1)).Int64())
	assert.Equal(t, int64(1000), new(big.Int).SetBytes(word(2)).Int64())
}

func TestEncodeCall_DynamicTailOffset(t *testing.T) {
	fp := []byte{0x01, 0x02}
	data, err := encodeCall("safeExecuteOrder(address,uint256,uint256,bytes)",
		addressArg("0x8e5660b4ab70168b5a6feea0e0315cb49c8cd539"),
		uint256Arg(big.NewInt(42)),
		uint256Arg(big.NewInt(1000)),
		bytesArg(fp),
	)
	require.NoError(t, err)

	// selector + 4 head words + (length word + 1 data word)
	require.Len(t, data, 4+4*wordSize+2*wordSize)

	// The 4th head word is the byte offset of the tail, relative to the
	// start of the arguments: 4 head words of 32 bytes each.
	offsetWord := data[4+3*wordSize : 4+4*wordSize]
	assert.Equal(t, int64(4*wordSize), new(big.Int).SetBytes(offsetWord).Int64())

	tail := data[4+4*wordSize:]
	assert.Equal(t, int64(2), new(big.Int).SetBytes(tail[:wordSize]).Int64())
	assert.Equal(t, fp, tail[wordSize:wordSize+2])
}

func TestParseTokenID(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{in: "42", want: 42},
		{in: "0x2a", want: 42},
		{in: "0X2A", want: 42},
		{in: " 7 ", want: 7},
		{in: "0", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := parseTokenID(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Int64())
		})
	}

	for _, in := range []string{"", "abc", "0x", "12.5"} {
		t.Run("reject "+in, func(t *testing.T) {
			_, err := parseTokenID(in)
			assert.Error(t, err)
		})
	}
}

func TestParseFingerprint(t *testing.T) {
	fp, err := parseFingerprint("0xDEADbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, fp)

	_, err = parseFingerprint("0xnothex")
	assert.Error(t, err)
}
