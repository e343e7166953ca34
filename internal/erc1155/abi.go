package erc1155

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// The My1155 multi-token contract (Arbitrum Stylus build).
//
// Every deployment exports the six core ERC-1155 functions. The remaining
// functions below are present only in extended builds; calls against a
// minimal deployment revert or return no data, which the Reader surfaces as
// an Unsupported probe rather than a zero value.
//
// Function selectors:
//
//	balanceOf(address,uint256)                              → 0x00fdd58e
//	balanceOfBatch(address[],uint256[])                     → 0x4e1273f4
//	setApprovalForAll(address,bool)                         → 0xa22cb465
//	isApprovedForAll(address,address)                       → 0xe985e9c5
//	safeTransferFrom(address,address,uint256,uint256,bytes) → 0xf242432a
//	safeBatchTransferFrom(address,address,uint256[],uint256[],bytes) → 0x2eb2c2d6
//	uri(uint256)                                            → 0x0e89341c
//	exists(uint256)                                         → 0x4f558e79
//	totalSupply(uint256)                                    → 0xbd85b039
//	owner()                                                 → 0x8da5cb5b
//	paused()                                                → 0x5c975abb
//	pause()                                                 → 0x8456cb59
//	unpause()                                               → 0x3f4ba83a
//	mint(address,uint256,uint256,bytes)                     → 0x731133e9
//	mintBatch(address,uint256[],uint256[],bytes)            → 0x1f7fdffa
//	burn(address,uint256,uint256)                           → 0xf5298aca
//	burnBatch(address,uint256[],uint256[])                  → 0x6b20c454
//	setURI(string)                                          → 0x02fe5305
//	transferOwnership(address)                              → 0xf2fde38b
const abiJSON = `[
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"},{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"balanceOfBatch","stateMutability":"view","inputs":[{"name":"accounts","type":"address[]"},{"name":"ids","type":"uint256[]"}],"outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"setApprovalForAll","stateMutability":"nonpayable","inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],"outputs":[]},
  {"type":"function","name":"isApprovedForAll","stateMutability":"view","inputs":[{"name":"account","type":"address"},{"name":"operator","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"safeTransferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"value","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"safeBatchTransferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"ids","type":"uint256[]"},{"name":"values","type":"uint256[]"},{"name":"data","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"uri","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"exists","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"paused","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"pause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"unpause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"mintAuto","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"mintBatch","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"ids","type":"uint256[]"},{"name":"amounts","type":"uint256[]"},{"name":"data","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"burnBatch","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"ids","type":"uint256[]"},{"name":"amounts","type":"uint256[]"}],"outputs":[]},
  {"type":"function","name":"setURI","stateMutability":"nonpayable","inputs":[{"name":"newUri","type":"string"}],"outputs":[]},
  {"type":"function","name":"transferOwnership","stateMutability":"nonpayable","inputs":[{"name":"newOwner","type":"address"}],"outputs":[]},
  {"type":"event","name":"TransferSingle","inputs":[{"name":"operator","type":"address","indexed":true},{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"id","type":"uint256","indexed":false},{"name":"value","type":"uint256","indexed":false}]},
  {"type":"event","name":"TransferBatch","inputs":[{"name":"operator","type":"address","indexed":true},{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"ids","type":"uint256[]","indexed":false},{"name":"values","type":"uint256[]","indexed":false}]},
  {"type":"event","name":"ApprovalForAll","inputs":[{"name":"account","type":"address","indexed":true},{"name":"operator","type":"address","indexed":true},{"name":"approved","type":"bool","indexed":false}]},
  {"type":"event","name":"URI","inputs":[{"name":"value","type":"string","indexed":false},{"name":"id","type":"uint256","indexed":true}]}
]`

var (
	parsedABI     abi.ABI
	parseABIOnce  sync.Once
	parseABIError error
)

// contractABI returns the parsed My1155 ABI. Parsing a constant cannot fail
// after the package tests pass, so callers treat an error as a programmer bug.
func contractABI() abi.ABI {
	parseABIOnce.Do(func() {
		parsedABI, parseABIError = abi.JSON(strings.NewReader(abiJSON))
	})
	if parseABIError != nil {
		panic("erc1155: invalid embedded ABI: " + parseABIError.Error())
	}
	return parsedABI
}

// optionalFunctions are documented in the ABI but absent from minimal Stylus
// deployments. Reads against them go through capability probes.
var optionalFunctions = map[string]bool{
	"uri":               true,
	"exists":            true,
	"totalSupply":       true,
	"owner":             true,
	"paused":            true,
	"pause":             true,
	"unpause":           true,
	"mint":              true,
	"mintAuto":          true,
	"mintBatch":         true,
	"burn":              true,
	"burnBatch":         true,
	"setURI":            true,
	"transferOwnership": true,
}

// IsOptional reports whether fn may be missing from a deployed build.
func IsOptional(fn string) bool { return optionalFunctions[fn] }
