// Package localstore is the guest-mode persistence layer: a small
// string-valued key/value store backed by one JSON file, plus typed helpers
// for the guest dataset. It mirrors the browser localStorage contract the
// synced client grew out of: synchronous, never throws, malformed content
// reads as empty.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// KV is a file-backed key/value store. All values are strings; writes go
// through a temp file and rename so a crash never leaves a half-written
// store behind.
type KV struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenKV loads the store at path, creating parent directories as needed.
// A missing or unreadable file starts the store empty.
func OpenKV(path string) (*KV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	kv := &KV{path: path, data: map[string]string{}}
	raw, err := os.ReadFile(path)
	if err == nil {
		// corrupt files read as empty, matching the localStorage contract
		_ = json.Unmarshal(raw, &kv.data)
	}
	if kv.data == nil {
		kv.data = map[string]string{}
	}
	return kv, nil
}

// GetItem returns the value for key, or "" and false when absent.
func (kv *KV) GetItem(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok
}

// SetItem stores value under key and flushes to disk.
func (kv *KV) SetItem(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return kv.flush()
}

// RemoveItem deletes key and flushes to disk. Removing an absent key is a
// no-op.
func (kv *KV) RemoveItem(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if _, ok := kv.data[key]; !ok {
		return nil
	}
	delete(kv.data, key)
	return kv.flush()
}

func (kv *KV) flush() error {
	raw, err := json.MarshalIndent(kv.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, kv.path)
}
