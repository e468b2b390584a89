package cache

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver" // registers the "sqlite3" database/sql driver
	_ "github.com/ncruces/go-sqlite3/embed"  // bundles the wazero-compiled sqlite3.wasm

	"github.com/untoldecay/rhema/internal/rhemaerr"
)

// DiskTierConfig configures on-disk storage, per §4.G.2.
type DiskTierConfig struct {
	CacheDir               string
	MaxSizeMB              float64 // 0 means unbounded; used only by the cache monitor's disk% metric
	CompressionCodec       Codec
	CompressionThresholdKB float64
}

// DiskTier persists entries as gob-encoded, optionally compressed files
// under CacheDir, with an embedded-SQLite index (index.bin) mapping keys
// to access patterns — the same database/sql-over-ncruces/go-sqlite3
// wiring the teacher uses for its own issue database (internal/storage/
// sqlite), repurposed here for a small per-cache metadata index instead of
// the full issue schema.
type DiskTier struct {
	cfg DiskTierConfig
	db  *sql.DB
}

// gobEntry is the on-disk envelope; Compressed records which codec (if any)
// was applied. Get decompresses whenever Compressed names a codec other than
// CodecNone and derives the entry's compression ratio from the decoded size;
// the envelope stores no ratio of its own.
type gobEntry struct {
	Key               string
	Value             []byte
	CreatedAt         time.Time
	AccessedAt        time.Time
	AccessCount       int
	SemanticRelevance float64
	Tags              []string
	Embedding         []float64
	OriginalSize      int64
	Compressed        Codec
}

// NewDiskTier opens (creating if needed) the index database at
// {cache_dir}/index.bin.
func NewDiskTier(cfg DiskTierConfig) (*DiskTier, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	indexPath := filepath.Join(cfg.CacheDir, "index.bin")
	db, err := sql.Open("sqlite3", indexPath)
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS cache_index (
	key TEXT PRIMARY KEY,
	accessed_at INTEGER NOT NULL,
	access_count INTEGER NOT NULL,
	semantic_relevance REAL NOT NULL,
	vector_id TEXT
);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache index schema: %w", err)
	}
	return &DiskTier{cfg: cfg, db: db}, nil
}

// Close releases the index database handle.
func (d *DiskTier) Close() error {
	return d.db.Close()
}

func (d *DiskTier) entryPath(key string) string {
	return filepath.Join(d.cfg.CacheDir, key+".cache")
}

// Set writes e to disk, compressing it first when it meets the configured
// threshold.
func (d *DiskTier) Set(e Entry) error {
	codec := CodecNone
	payload := e.Value
	thresholdBytes := d.cfg.CompressionThresholdKB * 1024
	if d.cfg.CompressionCodec != "" && d.cfg.CompressionCodec != CodecNone && float64(len(payload)) >= thresholdBytes {
		compressed, err := compress(d.cfg.CompressionCodec, payload)
		if err != nil {
			return err
		}
		codec = d.cfg.CompressionCodec
		payload = compressed
	}

	ge := gobEntry{
		Key:               e.Key,
		Value:             payload,
		CreatedAt:         e.CreatedAt,
		AccessedAt:        e.AccessedAt,
		AccessCount:       e.AccessCount,
		SemanticRelevance: e.SemanticRelevance,
		Tags:              e.Tags,
		Embedding:         e.Embedding,
		OriginalSize:      e.SizeBytes,
		Compressed:        codec,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ge); err != nil {
		return &rhemaerr.SerializationError{Key: e.Key, Err: err}
	}
	if err := os.WriteFile(d.entryPath(e.Key), buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write cache entry %s: %w", e.Key, err)
	}

	_, err := d.db.Exec(
		`INSERT INTO cache_index (key, accessed_at, access_count, semantic_relevance) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET accessed_at=excluded.accessed_at, access_count=excluded.access_count, semantic_relevance=excluded.semantic_relevance`,
		e.Key, e.AccessedAt.Unix(), e.AccessCount, e.SemanticRelevance,
	)
	if err != nil {
		return fmt.Errorf("update cache index for %s: %w", e.Key, err)
	}
	return nil
}

// Get reads and decompresses key's entry, returning (Entry{}, false) on a
// clean miss.
func (d *DiskTier) Get(key string) (Entry, bool, error) {
	data, err := os.ReadFile(d.entryPath(key)) // #nosec G304 -- key is validated by the caller's opaque-string contract
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("read cache entry %s: %w", key, err)
	}

	var ge gobEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&ge); err != nil {
		return Entry{}, false, &rhemaerr.SerializationError{Key: key, Err: err}
	}

	value := ge.Value
	ratio := 0.0
	if ge.Compressed != "" && ge.Compressed != CodecNone {
		decoded, err := decompress(ge.Compressed, ge.Value)
		if err != nil {
			return Entry{}, false, err
		}
		value = decoded
		if len(ge.Value) > 0 {
			ratio = float64(len(decoded)) / float64(len(ge.Value))
		}
	}

	now := time.Now().UTC()
	var accessCount int
	var relevance float64
	if err := d.db.QueryRow(
		`SELECT access_count, semantic_relevance FROM cache_index WHERE key = ?`, key,
	).Scan(&accessCount, &relevance); err != nil {
		accessCount = ge.AccessCount
		relevance = ge.SemanticRelevance
	}
	accessCount++

	_, _ = d.db.Exec(
		`INSERT INTO cache_index (key, accessed_at, access_count, semantic_relevance) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET accessed_at=excluded.accessed_at, access_count=excluded.access_count`,
		key, now.Unix(), accessCount, relevance,
	)

	return Entry{
		Key:               ge.Key,
		Value:             value,
		CreatedAt:         ge.CreatedAt,
		AccessedAt:        now,
		AccessCount:       accessCount,
		SemanticRelevance: relevance,
		Tags:              ge.Tags,
		Embedding:         ge.Embedding,
		SizeBytes:         ge.OriginalSize,
		CompressionRatio:  ratio,
	}, true, nil
}

// Delete removes key's entry file and index row.
func (d *DiskTier) Delete(key string) error {
	err := os.Remove(d.entryPath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	_, execErr := d.db.Exec(`DELETE FROM cache_index WHERE key = ?`, key)
	return execErr
}

// Keys returns every key currently indexed.
func (d *DiskTier) Keys() ([]string, error) {
	rows, err := d.db.Query(`SELECT key FROM cache_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// StaleKeys returns keys whose indexed access time is before cutoff, used
// by the optimizer's CleanupExpired action.
func (d *DiskTier) StaleKeys(cutoff time.Time) ([]string, error) {
	rows, err := d.db.Query(`SELECT key FROM cache_index WHERE accessed_at < ?`, cutoff.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Config returns the tier's current configuration.
func (d *DiskTier) Config() DiskTierConfig {
	return d.cfg
}

// SetCompressionCodec changes the codec applied to future writes, used by
// the optimizer's EnableCompression action.
func (d *DiskTier) SetCompressionCodec(codec Codec) {
	d.cfg.CompressionCodec = codec
}

// SetCompressionThresholdKB changes the size above which writes are
// compressed, used by the optimizer's AdjustCompressionThreshold action.
func (d *DiskTier) SetCompressionThresholdKB(kb float64) {
	d.cfg.CompressionThresholdKB = kb
}

// UsedBytes sums the on-disk size of every entry file, the numerator of
// disk%.
func (d *DiskTier) UsedBytes() (int64, error) {
	entries, err := os.ReadDir(d.cfg.CacheDir)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".cache" {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// OptimizeIndex runs SQLite's own index-maintenance commands, used by the
// optimizer's OptimizeIndexes action.
func (d *DiskTier) OptimizeIndex() error {
	if _, err := d.db.Exec(`ANALYZE`); err != nil {
		return fmt.Errorf("analyze cache index: %w", err)
	}
	if _, err := d.db.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("vacuum cache index: %w", err)
	}
	return nil
}
