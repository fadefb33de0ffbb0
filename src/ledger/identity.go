package ledger

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Hex addresses are stored in their EIP-55 checksum form, so they compare case-insensitively.
// Any other identity is kept verbatim.
func CanonicalIdentity(identity string) string {
	identity = strings.TrimSpace(identity)
	if common.IsHexAddress(identity) {
		return common.HexToAddress(identity).Hex()
	}
	return identity
}

func SameIdentity(a, b string) bool {
	return CanonicalIdentity(a) == CanonicalIdentity(b)
}
