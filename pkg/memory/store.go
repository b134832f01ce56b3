package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/google/uuid"
	"github.com/harun/cortex/internal/observability"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

func init() {
	// Auto-register sqlite-vec extension
	sqlite_vec.Auto()
}

// Store owns the memories table, the vec_memories index and the slot/id
// mapping between them. It is the only component that mutates any of them.
type Store struct {
	db     *sql.DB
	dim    int
	logger zerolog.Logger
}

// Config holds store configuration.
type Config struct {
	DBPath    string
	Dimension int
	Logger    zerolog.Logger
}

// Open opens (creating if needed) the memory database.
func Open(cfg Config) (*Store, error) {
	observability.EnsureRegistered()

	if cfg.DBPath == "" {
		return nil, errors.New("database path is required")
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("embedding dimension must be positive")
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{
		db:     db,
		dim:    cfg.Dimension,
		logger: cfg.Logger,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.logger.Info().Str("db", cfg.DBPath).Int("dimension", cfg.Dimension).Msg("Memory store opened")
	return s, nil
}

// initSchema creates database tables
func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS personal_info (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_name TEXT NOT NULL DEFAULT '',
			device TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS memories (
			uuid TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			category TEXT NOT NULL,
			summary TEXT NOT NULL,
			importance REAL,
			embedding_json TEXT,
			metadata TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_memories_date ON memories(date);

		CREATE TABLE IF NOT EXISTS vec_memory_mapping (
			vec_rowid INTEGER PRIMARY KEY,
			memory_uuid TEXT NOT NULL UNIQUE,
			FOREIGN KEY (memory_uuid) REFERENCES memories(uuid)
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	vectorSchema := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS vec_memories USING vec0(
			embedding float[%d]
		);
	`, s.dim)

	if _, err := s.db.Exec(vectorSchema); err != nil {
		return fmt.Errorf("failed to create vector table: %w", err)
	}

	if _, err := s.db.Exec(`INSERT OR IGNORE INTO personal_info (id, user_name, device) VALUES (1, '', '')`); err != nil {
		return fmt.Errorf("failed to seed personal_info: %w", err)
	}

	return nil
}

// Insert persists a memory and, when an embedding is supplied, its vector
// index row plus the slot/id mapping in the same transaction. A failure on
// any of the three writes rolls back all of them.
func (s *Store) Insert(ctx context.Context, mem Memory, embedding []float32) (string, error) {
	if mem.ID == "" {
		mem.ID = uuid.New().String()
	}
	if mem.Category == "" {
		mem.Category = CategoryNote
	}
	if err := mem.Validate(); err != nil {
		return "", err
	}
	if len(embedding) > 0 && len(embedding) != s.dim {
		return "", fmt.Errorf("embedding has %d dimensions, store expects %d", len(embedding), s.dim)
	}

	start := time.Now()
	defer func() { observability.RecordStoreWrite(time.Since(start)) }()

	meta, err := json.Marshal(metadata{
		OriginalTime:     mem.OriginalTime,
		OriginalCategory: mem.OriginalCategory,
		Tags:             mem.Tags,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	var embeddingJSON sql.NullString
	if len(embedding) > 0 {
		raw, err := json.Marshal(embedding)
		if err != nil {
			return "", fmt.Errorf("failed to marshal embedding: %w", err)
		}
		embeddingJSON = sql.NullString{String: string(raw), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO memories (uuid, date, category, summary, importance, embedding_json, metadata) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		mem.ID, mem.Date, mem.Category, mem.Summary, mem.Importance, embeddingJSON, string(meta),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert memory: %w", err)
	}

	if len(embedding) > 0 {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO vec_memories (embedding) VALUES (?)`,
			embeddingJSON.String,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert vector: %w", err)
		}

		slot, err := result.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("failed to read vector slot: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO vec_memory_mapping (vec_rowid, memory_uuid) VALUES (?, ?)`,
			slot, mem.ID,
		)
		if err != nil {
			return "", fmt.Errorf("failed to map vector slot %d: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	s.logger.Debug().Str("id", mem.ID).Str("date", mem.Date).Bool("indexed", len(embedding) > 0).Msg("Memory inserted")
	return mem.ID, nil
}

// Get returns the memory with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Memory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT uuid, date, category, summary, importance, metadata, created_at FROM memories WHERE uuid = ?`,
		id,
	)
	mem, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Memory{}, fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}
	return mem, err
}

// Delete removes a memory and, where present, its index row and mapping in
// one transaction.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var slot sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT vec_rowid FROM vec_memory_mapping WHERE memory_uuid = ?`, id).Scan(&slot)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up vector slot: %w", err)
	}

	if slot.Valid {
		if _, err := tx.ExecContext(ctx, `DELETE FROM vec_memory_mapping WHERE vec_rowid = ?`, slot.Int64); err != nil {
			return fmt.Errorf("failed to delete mapping: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM vec_memories WHERE rowid = ?`, slot.Int64); err != nil {
			return fmt.Errorf("failed to delete vector: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE uuid = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// SlotDistance is one hit returned by the vector index: the index-internal
// slot plus its cosine distance from the query.
type SlotDistance struct {
	Slot     int64
	Distance float64
}

// Nearest queries the vector index for the closest embeddings by cosine
// distance. Rows come back ordered by ascending distance.
func (s *Store) Nearest(ctx context.Context, embedding []float32, limit int) ([]SlotDistance, error) {
	if len(embedding) != s.dim {
		return nil, fmt.Errorf("query has %d dimensions, store expects %d: %w", len(embedding), s.dim, ErrInvalidQuery)
	}

	raw, err := json.Marshal(embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query embedding: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rowid, vec_distance_cosine(embedding, ?) AS distance
		FROM vec_memories
		ORDER BY distance ASC
		LIMIT ?
	`, string(raw), limit)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}
	defer rows.Close()

	var hits []SlotDistance
	for rows.Next() {
		var h SlotDistance
		if err := rows.Scan(&h.Slot, &h.Distance); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ResolveSlots resolves index slots to memory records through the mapping
// table in one read, preserving the input order. A slot with no mapping row
// means the index and the mapping have diverged: that is store corruption
// and surfaces as ErrInconsistentIndex.
func (s *Store) ResolveSlots(ctx context.Context, slots []int64) ([]Memory, error) {
	if len(slots) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(slots))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(slots))
	for i, slot := range slots {
		args[i] = slot
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT map.vec_rowid, m.uuid, m.date, m.category, m.summary, m.importance, m.metadata, m.created_at
		FROM vec_memory_mapping map
		JOIN memories m ON map.memory_uuid = m.uuid
		WHERE map.vec_rowid IN (%s)
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve slots: %w", err)
	}
	defer rows.Close()

	bySlot := make(map[int64]Memory, len(slots))
	for rows.Next() {
		var slot int64
		var mem Memory
		var importance sql.NullFloat64
		var meta sql.NullString
		var created sql.NullTime
		if err := rows.Scan(&slot, &mem.ID, &mem.Date, &mem.Category, &mem.Summary, &importance, &meta, &created); err != nil {
			return nil, err
		}
		applyStoredFields(&mem, importance, meta, created)
		bySlot[slot] = mem
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	resolved := make([]Memory, 0, len(slots))
	for _, slot := range slots {
		mem, ok := bySlot[slot]
		if !ok {
			return nil, fmt.Errorf("slot %d: %w", slot, ErrInconsistentIndex)
		}
		resolved = append(resolved, mem)
	}
	return resolved, nil
}

// Count returns the number of stored memories.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&n)
	return n, err
}

// VerifyIndex checks invariant 3: every vector row has exactly one mapping
// row and vice versa.
func (s *Store) VerifyIndex(ctx context.Context) error {
	var vecRows, mapRows, joined int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vec_memories`).Scan(&vecRows); err != nil {
		return err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vec_memory_mapping`).Scan(&mapRows); err != nil {
		return err
	}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM vec_memories v
		JOIN vec_memory_mapping map ON v.rowid = map.vec_rowid
	`).Scan(&joined)
	if err != nil {
		return err
	}

	if vecRows != mapRows || joined != vecRows {
		return fmt.Errorf("index has %d vectors, %d mappings, %d joined: %w", vecRows, mapRows, joined, ErrInconsistentIndex)
	}
	return nil
}

// Profile returns the singleton personal_info row.
func (s *Store) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	err := s.db.QueryRowContext(ctx,
		`SELECT user_name, device, updated_at FROM personal_info WHERE id = 1`,
	).Scan(&p.UserName, &p.Device, &p.UpdatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	return p, nil
}

// SetProfile updates the singleton personal_info row.
func (s *Store) SetProfile(ctx context.Context, p Profile) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE personal_info SET user_name = ?, device = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`,
		p.UserName, p.Device,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// Close closes the store.
func (s *Store) Close() error {
	s.logger.Info().Msg("Closing memory store")
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMemory(row rowScanner) (Memory, error) {
	var mem Memory
	var importance sql.NullFloat64
	var meta sql.NullString
	var created sql.NullTime
	if err := row.Scan(&mem.ID, &mem.Date, &mem.Category, &mem.Summary, &importance, &meta, &created); err != nil {
		return Memory{}, err
	}
	applyStoredFields(&mem, importance, meta, created)
	return mem, nil
}

func applyStoredFields(mem *Memory, importance sql.NullFloat64, meta sql.NullString, created sql.NullTime) {
	if importance.Valid {
		mem.Importance = importance.Float64
	}
	if created.Valid {
		mem.CreatedAt = created.Time
	}
	if meta.Valid && meta.String != "" {
		var md metadata
		if err := json.Unmarshal([]byte(meta.String), &md); err == nil {
			mem.Tags = md.Tags
			mem.OriginalTime = md.OriginalTime
			mem.OriginalCategory = md.OriginalCategory
		}
	}
}
