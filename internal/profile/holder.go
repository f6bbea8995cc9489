package profile

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"
)

// Applied is a snapshot of the last profile written to the hosts file.
type Applied struct {
	ProfileName string
	ContentSum  string // hex sha256 of the generated file content
	AppliedAt   time.Time
}

// Holder publishes the active Applied snapshot to concurrent readers. Writers
// replace the whole snapshot; values are never mutated after Set.
type Holder struct {
	value atomic.Pointer[Applied]
}

func NewHolder() *Holder {
	h := &Holder{}
	h.value.Store(&Applied{})
	return h
}

func (h *Holder) Get() *Applied {
	return h.value.Load()
}

func (h *Holder) Set(a *Applied) {
	h.value.Store(a)
}

// ContentSum hashes generated hosts content the way Applied records it.
func ContentSum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
