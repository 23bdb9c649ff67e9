// Package secure wraps memguard to keep backend credentials encrypted
// while they sit in process memory between authentication and use.
package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned by Open after Destroy.
var ErrDestroyed = errors.New("secure buffer destroyed")

// Buffer stores a credential in an encrypted memguard enclave. The
// plaintext only exists inside a locked buffer while Open'd; callers
// must Destroy the locked buffer when done.
type Buffer struct {
	enclave   *memguard.Enclave
	mu        sync.RWMutex
	destroyed bool
}

// NewBuffer copies data into a protected memory region. The caller
// should zero its own copy afterwards.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{enclave: memguard.NewEnclave(data)}
}

// Open decrypts the credential into a locked buffer. The returned
// buffer is mlock'd and guarded; Destroy it to wipe the plaintext.
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return nil, ErrDestroyed
	}
	return b.enclave.Open()
}

// Destroy prevents further use of the buffer. Idempotent. The
// encrypted enclave itself is safe to leave for garbage collection;
// call memguard.Purge at process exit for full cleanup.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}
