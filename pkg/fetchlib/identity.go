package fetchlib

import (
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// Identity is the deduplication key of a URL.
type Identity string

// NormalizeURL trims surrounding whitespace and replaces literal spaces
// with "+", the form handed to the transport.
func NormalizeURL(rawURL string) string {
	return strings.ReplaceAll(strings.TrimSpace(rawURL), " ", "+")
}

// NewIdentity returns the identity of rawURL. URLs that normalize to the
// same string share an identity.
func NewIdentity(rawURL string) Identity {
	return identityOf(NormalizeURL(rawURL))
}

// identityOf hashes an already normalized URL.
func identityOf(normalized string) Identity {
	sum := xxh3.HashString(normalized)
	s := strconv.FormatUint(sum, 16)
	if pad := 16 - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return Identity(s)
}

func (id Identity) String() string {
	return string(id)
}
