package project

import (
	"crypto/sha256"
	"sort"
)

// Digest is a fixed 256-bit content hash.
type Digest [32]byte

// HashBytes digests raw file content.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

// Combine builds an aggregate hash H(content || part1 || part2 ...). The
// parts must arrive in a deterministic order.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashEnv digests the declared argument environment so cache keys change
// when a type declaration does. Entries hash in name order.
func HashEnv(args map[string]string) Digest {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(args[name]))
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
