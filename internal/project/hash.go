package project

import (
	"crypto/sha256"
	"fmt"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит хеш: H( content || dep1 || dep2 ... ).
// Порядок deps должен быть детерминированным.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Digest hashes the settings that change compiled output. Combine rules are
// applied after compilation and are not part of it.
func (c Config) Digest() Digest {
	h := sha256.New()
	g := c.Generate
	_, _ = fmt.Fprintf(h, "%q|%t|%q|%t", g.InternalCode, g.Log, g.Runtime, c.Diagnostics.ReportMissingAfterTypeError)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
