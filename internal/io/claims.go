package ioutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// maxClaimAttempts bounds the counter search in PathClaims.Claim.
const maxClaimAttempts = 10000

// ErrNoFreePath is returned when no unused name could be found for a file.
var ErrNoFreePath = errors.New("no free destination path")

// PathClaims hands out conflict-free destination paths.
//
// A path is considered occupied when it already exists on disk or when it
// was returned by an earlier Claim on the same PathClaims. The in-memory
// half makes names stable in simulate mode, where nothing is written, and
// keeps concurrent writers from settling on the same name.
//
// The zero value is not usable; create one with NewPathClaims.
type PathClaims struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewPathClaims creates an empty claim registry.
func NewPathClaims() *PathClaims {
	return &PathClaims{claimed: make(map[string]struct{})}
}

// Claim reserves the first free path among
//
//	dir/base.ext, dir/base (1).ext, dir/base (2).ext, ...
//
// ext is given without the leading dot. The returned bool reports whether
// the name had to be disambiguated.
func (c *PathClaims) Claim(dir, base, ext string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		name := base
		if attempt > 0 {
			name = fmt.Sprintf("%s (%d)", base, attempt)
		}
		if ext != "" {
			name += "." + ext
		}
		candidate := filepath.Join(dir, name)

		if _, taken := c.claimed[candidate]; taken {
			continue
		}
		occupied, err := exists(candidate)
		if err != nil {
			return "", false, err
		}
		if occupied {
			continue
		}

		c.claimed[candidate] = struct{}{}
		return candidate, attempt > 0, nil
	}

	return "", false, fmt.Errorf("%s in %s: %w", base, dir, ErrNoFreePath)
}

// Len returns the number of claimed paths.
func (c *PathClaims) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.claimed)
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
