package cmd

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBig(t *testing.T) {
	n, err := parseBig("--amount", " 1000 ")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), n)

	_, err = parseBig("--amount", "-5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--amount")

	_, err = parseBig("--amount", "1.5")
	require.Error(t, err)

	_, err = parseBig("--amount", "0xff")
	require.Error(t, err)
}

func TestParseBigList(t *testing.T) {
	ids, err := parseBigList("--ids", "1, 2 ,7")
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, big.NewInt(7), ids[2])

	_, err = parseBigList("--ids", "")
	require.Error(t, err)

	_, err = parseBigList("--ids", "1,abc")
	require.Error(t, err)
}

func TestBlockTag(t *testing.T) {
	assert.Equal(t, "earliest", blockTag(""))
	assert.Equal(t, "latest", blockTag("latest"))
	assert.Equal(t, "0x1e240", blockTag("123456"))
	assert.Equal(t, "0xabc", blockTag("0xabc"))
}

func TestParseDataFlag(t *testing.T) {
	data, err := parseDataFlag("0xdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, data)

	data, err = parseDataFlag("")
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = parseDataFlag("0xzz")
	require.Error(t, err)
}

func TestJoinBigs(t *testing.T) {
	assert.Equal(t, "1, 2, 7",
		joinBigs([]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(7)}))
	assert.Equal(t, "", joinBigs(nil))
}

func TestProbeOrDash(t *testing.T) {
	assert.Equal(t, "0xABC", probeOrDash(true, "0xABC"))
	assert.Equal(t, "— not exported", probeOrDash(false, "ignored"))
}
