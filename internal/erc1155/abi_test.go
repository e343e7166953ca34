package erc1155

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Selector regression against the canonical ERC-1155 values. If the embedded
// ABI drifts from the deployed contract these fail first.
func TestFunctionSelectors(t *testing.T) {
	tests := []struct {
		fn       string
		selector string
	}{
		{"balanceOf", "00fdd58e"},
		{"balanceOfBatch", "4e1273f4"},
		{"setApprovalForAll", "a22cb465"},
		{"isApprovedForAll", "e985e9c5"},
		{"safeTransferFrom", "f242432a"},
		{"safeBatchTransferFrom", "2eb2c2d6"},
		{"uri", "0e89341c"},
		{"exists", "4f558e79"},
		{"totalSupply", "bd85b039"},
		{"owner", "8da5cb5b"},
		{"paused", "5c975abb"},
		{"pause", "8456cb59"},
		{"unpause", "3f4ba83a"},
		{"mint", "731133e9"},
		{"mintBatch", "1f7fdffa"},
		{"burn", "f5298aca"},
		{"burnBatch", "6b20c454"},
		{"setURI", "02fe5305"},
		{"transferOwnership", "f2fde38b"},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			method, ok := contractABI().Methods[tt.fn]
			require.True(t, ok, "function %s missing from ABI", tt.fn)
			assert.Equal(t, tt.selector, hex.EncodeToString(method.ID))
		})
	}
}

func TestCoreFunctionsAreNotOptional(t *testing.T) {
	for _, fn := range []string{
		"balanceOf", "balanceOfBatch", "setApprovalForAll",
		"isApprovedForAll", "safeTransferFrom", "safeBatchTransferFrom",
	} {
		assert.False(t, IsOptional(fn), "%s must be treated as always present", fn)
	}
	assert.True(t, IsOptional("owner"))
	assert.True(t, IsOptional("mint"))
}
