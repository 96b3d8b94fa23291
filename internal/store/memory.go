package store

import "context"

// MemoryTier keeps blobs in process memory. It plays the role the session
// store played in the browser version: a second copy that survives primary
// store failures within one run, and a convenient fake for tests.
type MemoryTier struct {
	name  string
	blobs map[string][]byte

	// FailGet / FailSet force errors, for exercising fan-out behavior in tests.
	FailGet error
	FailSet error
}

func NewMemoryTier(name string) *MemoryTier {
	return &MemoryTier{name: name, blobs: make(map[string][]byte)}
}

func (m *MemoryTier) Name() string { return m.name }

func (m *MemoryTier) Get(_ context.Context, key string) ([]byte, error) {
	if m.FailGet != nil {
		return nil, m.FailGet
	}
	return m.blobs[key], nil
}

func (m *MemoryTier) Set(_ context.Context, key string, blob []byte) error {
	if m.FailSet != nil {
		return m.FailSet
	}
	b := make([]byte, len(blob))
	copy(b, blob)
	m.blobs[key] = b
	return nil
}
