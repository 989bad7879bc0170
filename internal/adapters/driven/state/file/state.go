// Package file persists run state inside the repository's .git
// directory: the current-intent file, the rate-limit cache and the
// append-only debug log.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rajivsinclair/intentd/internal/core/domain"
	"github.com/rajivsinclair/intentd/internal/core/ports/driven"
)

// Ensure implementations satisfy the interfaces.
var (
	_ driven.IntentStore = (*Store)(nil)
	_ driven.IntentCache = (*Cache)(nil)
)

// File names inside the .git directory. CLAUDE_INTENT sits next to
// COMMIT_EDITMSG so commit tooling can pick it up.
const (
	intentFileName = "CLAUDE_INTENT"
	cacheFileName  = "CLAUDE_INTENT_CACHE"
	debugLogName   = "intent_debug.log"
)

// RepoRoot walks up from dir looking for a .git entry and returns the
// containing directory. Returns domain.ErrNotRepository when the walk
// reaches the filesystem root without finding one.
func RepoRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no .git above %s: %w", dir, domain.ErrNotRepository)
		}
		dir = parent
	}
}

// Store writes the intent file and debug log.
type Store struct {
	gitDir string

	// now is injectable for tests.
	now func() time.Time
}

// NewStore creates a store writing into repoRoot/.git.
func NewStore(repoRoot string) *Store {
	return &Store{
		gitDir: filepath.Join(repoRoot, ".git"),
		now:    time.Now,
	}
}

// WriteIntent overwrites the current-intent file.
func (s *Store) WriteIntent(intent string) error {
	return os.WriteFile(filepath.Join(s.gitDir, intentFileName), []byte(intent), 0644)
}

// AppendDebug appends one line to the debug log. A zero RunID is filled
// in so every run is traceable.
func (s *Store) AppendDebug(rec domain.DebugRecord) error {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	at := rec.At
	if at.IsZero() {
		at = s.now()
	}

	f, err := os.OpenFile(filepath.Join(s.gitDir, debugLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s run=%s boundary=%s index=%d items=%d git_files=%d intent=%s\n",
		at.Format(time.RFC3339), rec.RunID, rec.Boundary.Reason, rec.Boundary.Index,
		rec.ItemCount, rec.DiffFiles, rec.Intent)
	_, err = f.WriteString(line)
	return err
}

// cacheRecord is the JSON layout of the cache file. LastUpdate is epoch
// seconds.
type cacheRecord struct {
	LastUpdate  float64 `json:"last_update"`
	ContextHash string  `json:"context_hash"`
}

// Cache suppresses redundant runs via a single whole-file JSON record.
type Cache struct {
	gitDir string
	ttl    time.Duration

	// now is injectable for tests.
	now func() time.Time
}

// NewCache creates a cache in repoRoot/.git with the given TTL.
func NewCache(repoRoot string, ttl time.Duration) *Cache {
	return &Cache{
		gitDir: filepath.Join(repoRoot, ".git"),
		ttl:    ttl,
		now:    time.Now,
	}
}

// ShouldUpdate reports whether a run with this context hash should
// proceed. A missing or unreadable cache file always permits the run.
func (c *Cache) ShouldUpdate(contextHash string) bool {
	data, err := os.ReadFile(filepath.Join(c.gitDir, cacheFileName))
	if err != nil {
		return true
	}

	var rec cacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return true
	}

	if rec.ContextHash == contextHash {
		return false
	}
	elapsed := c.now().Sub(time.Unix(0, int64(rec.LastUpdate*float64(time.Second))))
	return elapsed >= c.ttl
}

// Record stores the hash and current time, overwriting the whole file.
func (c *Cache) Record(contextHash string) error {
	rec := cacheRecord{
		LastUpdate:  float64(c.now().UnixNano()) / float64(time.Second),
		ContextHash: contextHash,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.gitDir, cacheFileName), data, 0644)
}
