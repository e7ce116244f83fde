package wallet

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

const etherDecimals = 18

// FormatAddress shortens an address to "0x1234...abcd": the first six and
// last four runes around an ellipsis. Empty input gives an empty string.
func FormatAddress(address string) string {
	if address == "" {
		return ""
	}
	r := []rune(address)
	return string(r[:min(6, len(r))]) + "..." + string(r[max(0, len(r)-4):])
}

// FormatEther renders a wei amount in ether with at least one fractional
// digit ("0.0", "1.5", "0.000000000000000001").
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)

	whole, frac := new(big.Int).QuoRem(abs, big.NewInt(params.Ether), new(big.Int))

	fs := frac.String()
	fs = strings.Repeat("0", etherDecimals-len(fs)) + fs
	fs = strings.TrimRight(fs, "0")
	if fs == "" {
		fs = "0"
	}

	out := whole.String() + "." + fs
	if neg {
		out = "-" + out
	}
	return out
}
