// Package wallet observes a wallet provider: the connected address, the
// current chain, and requests to switch to a supported chain. It never signs
// or sends transactions.
package wallet

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	BaseMainnet uint64 = 8453
	BaseSepolia uint64 = 84532
)

var chainNames = map[uint64]string{
	1:           "Ethereum",
	10:          "OP Mainnet",
	137:         "Polygon",
	42161:       "Arbitrum One",
	11155111:    "Sepolia",
	BaseMainnet: "Base",
	BaseSepolia: "Base Sepolia",
}

// Supported reports whether id is one of the Base chains.
func Supported(id uint64) bool {
	return id == BaseMainnet || id == BaseSepolia
}

// NetworkName returns a display name for a chain id.
func NetworkName(id uint64) string {
	if name, ok := chainNames[id]; ok {
		return name
	}
	return "Unknown"
}

// Badge is the network label for state; empty when disconnected.
func Badge(s State) string {
	if !s.Connected {
		return ""
	}
	switch s.ChainID {
	case BaseMainnet:
		return "Base Mainnet"
	case BaseSepolia:
		return "Base Sepolia"
	default:
		return "Wrong Network"
	}
}

// ValidAddress reports whether addr is a 0x-prefixed 20 byte hex address.
func ValidAddress(addr string) bool {
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return false
	}
	_, err := hex.DecodeString(addr[2:])
	return err == nil
}

// ShortAddress abbreviates an address to its first six and last four chars.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

func formatChainID(id uint64) string {
	return "0x" + strconv.FormatUint(id, 16)
}

func parseChainID(s string) (uint64, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if trimmed == "" {
		return 0, fmt.Errorf("empty chain id %q", s)
	}
	id, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse chain id %q: %w", s, err)
	}
	return id, nil
}
