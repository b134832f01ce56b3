package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 4

func createTestStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)

	s, err := Open(Config{
		DBPath:    filepath.Join(dir, "test.db"),
		Dimension: testDim,
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func testMemory(summary string) Memory {
	return Memory{
		Date:       "2026-02-05",
		Category:   CategoryKnowledge,
		Summary:    summary,
		Importance: 0.8,
		Tags:       []string{"tech"},
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)

	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "empty db path",
			config: Config{DBPath: "", Dimension: testDim, Logger: logger},
		},
		{
			name:   "zero dimension",
			config: Config{DBPath: "/tmp/x.db", Dimension: 0, Logger: logger},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.config)
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}

func TestStore_InsertAndGet(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, testMemory("prefers sqlite-vec for vector search"), []float32{0.1, 0.2, 0.3, 0.4})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	mem, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, mem.ID)
	assert.Equal(t, "2026-02-05", mem.Date)
	assert.Equal(t, CategoryKnowledge, mem.Category)
	assert.Equal(t, "prefers sqlite-vec for vector search", mem.Summary)
	assert.InDelta(t, 0.8, mem.Importance, 1e-9)
	assert.Equal(t, []string{"tech"}, mem.Tags)

	require.NoError(t, s.VerifyIndex(ctx))
}

func TestStore_InsertWithoutEmbedding(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, testMemory("still searchable by keyword"), nil)
	require.NoError(t, err)

	_, err = s.Get(ctx, id)
	require.NoError(t, err)

	// No index row, no mapping row
	var vecRows, mapRows int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM vec_memories`).Scan(&vecRows))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM vec_memory_mapping`).Scan(&mapRows))
	assert.Equal(t, 0, vecRows)
	assert.Equal(t, 0, mapRows)
	require.NoError(t, s.VerifyIndex(ctx))
}

func TestStore_Insert_Invalid(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	t.Run("empty summary", func(t *testing.T) {
		mem := testMemory("")
		_, err := s.Insert(ctx, mem, nil)
		assert.Error(t, err)
	})

	t.Run("bad date", func(t *testing.T) {
		mem := testMemory("x")
		mem.Date = "05-02-2026"
		_, err := s.Insert(ctx, mem, nil)
		assert.Error(t, err)
	})

	t.Run("importance out of range", func(t *testing.T) {
		mem := testMemory("x")
		mem.Importance = 1.5
		_, err := s.Insert(ctx, mem, nil)
		assert.Error(t, err)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := s.Insert(ctx, testMemory("x"), []float32{0.1, 0.2})
		assert.Error(t, err)
	})
}

func TestStore_Insert_DefaultsCategory(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	mem := testMemory("uncategorized")
	mem.Category = ""
	id, err := s.Insert(ctx, mem, nil)
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, CategoryNote, got.Category)
}

func TestStore_Insert_RollsBackOnMappingConflict(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Occupy the mapping slot the next vector insert will claim, so the
	// third write of the transaction fails after the first two succeeded.
	_, err := s.db.Exec(
		`INSERT INTO memories (uuid, date, category, summary) VALUES ('occupier', '2026-02-01', 'note', 'occupier')`,
	)
	require.NoError(t, err)
	_, err = s.db.Exec(`INSERT INTO vec_memory_mapping (vec_rowid, memory_uuid) VALUES (1, 'occupier')`)
	require.NoError(t, err)

	mem := testMemory("should not survive")
	mem.ID = "doomed"
	_, err = s.Insert(ctx, mem, []float32{0.1, 0.2, 0.3, 0.4})
	require.Error(t, err)

	// The whole transaction rolled back: no memory row, no vector row.
	_, err = s.Get(ctx, "doomed")
	assert.ErrorIs(t, err, ErrNotFound)

	var vecRows int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM vec_memories`).Scan(&vecRows))
	assert.Equal(t, 0, vecRows)
}

func TestStore_MappingUniqueness(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, testMemory("first"), []float32{1, 0, 0, 0})
	require.NoError(t, err)

	// Re-inserting the same id must fail and leave the index untouched
	dup := testMemory("duplicate")
	dup.ID = id
	_, err = s.Insert(ctx, dup, []float32{0, 1, 0, 0})
	require.Error(t, err)

	var vecRows, mapRows, distinctIDs int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM vec_memories`).Scan(&vecRows))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM vec_memory_mapping`).Scan(&mapRows))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(DISTINCT memory_uuid) FROM vec_memory_mapping`).Scan(&distinctIDs))
	assert.Equal(t, 1, vecRows)
	assert.Equal(t, 1, mapRows)
	assert.Equal(t, 1, distinctIDs)
	require.NoError(t, s.VerifyIndex(ctx))
}

func TestStore_Get_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, testMemory("temporary"), []float32{0.5, 0.5, 0.5, 0.5})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.VerifyIndex(ctx))

	var vecRows, mapRows int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM vec_memories`).Scan(&vecRows))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM vec_memory_mapping`).Scan(&mapRows))
	assert.Equal(t, 0, vecRows)
	assert.Equal(t, 0, mapRows)
}

func TestStore_Delete_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Nearest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	near := testMemory("about databases")
	far := testMemory("about gardening")
	nearID, err := s.Insert(ctx, near, []float32{1, 0, 0, 0})
	require.NoError(t, err)
	_, err = s.Insert(ctx, far, []float32{0, 1, 0, 0})
	require.NoError(t, err)

	hits, err := s.Nearest(ctx, []float32{0.9, 0.1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	// Ascending distance, closest first
	assert.Less(t, hits[0].Distance, hits[1].Distance)

	resolved, err := s.ResolveSlots(ctx, []int64{hits[0].Slot})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, nearID, resolved[0].ID)
}

func TestStore_Nearest_DimensionMismatch(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Nearest(context.Background(), []float32{1, 0}, 10)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestStore_ResolveSlots(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, summary := range []string{"first", "second", "third"} {
		vec := []float32{float32(len(ids)), 1, 0, 0}
		id, err := s.Insert(ctx, testMemory(summary), vec)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	t.Run("preserves input order", func(t *testing.T) {
		resolved, err := s.ResolveSlots(ctx, []int64{3, 1, 2})
		require.NoError(t, err)
		require.Len(t, resolved, 3)
		assert.Equal(t, ids[2], resolved[0].ID)
		assert.Equal(t, ids[0], resolved[1].ID)
		assert.Equal(t, ids[1], resolved[2].ID)
	})

	t.Run("empty input", func(t *testing.T) {
		resolved, err := s.ResolveSlots(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, resolved)
	})

	t.Run("unmapped slot is corruption", func(t *testing.T) {
		_, err := s.ResolveSlots(ctx, []int64{1, 99})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInconsistentIndex)
	})
}

func TestStore_VerifyIndex_Inconsistent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, testMemory("indexed"), []float32{1, 0, 0, 0})
	require.NoError(t, err)
	require.NoError(t, s.VerifyIndex(ctx))

	// Drop the mapping row behind the store's back
	_, err = s.db.Exec(`DELETE FROM vec_memory_mapping`)
	require.NoError(t, err)

	err = s.VerifyIndex(ctx)
	assert.ErrorIs(t, err, ErrInconsistentIndex)
}

func TestStore_Count(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = s.Insert(ctx, testMemory("one"), nil)
	require.NoError(t, err)
	_, err = s.Insert(ctx, testMemory("two"), []float32{1, 0, 0, 0})
	require.NoError(t, err)

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_Profile(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Empty(t, p.UserName)

	p.UserName = "harun"
	p.Device = "laptop"
	require.NoError(t, s.SetProfile(ctx, p))

	got, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "harun", got.UserName)
	assert.Equal(t, "laptop", got.Device)
}

func TestMemory_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Memory)
		wantErr bool
	}{
		{name: "valid", mutate: func(m *Memory) {}, wantErr: false},
		{name: "missing summary", mutate: func(m *Memory) { m.Summary = "" }, wantErr: true},
		{name: "missing date", mutate: func(m *Memory) { m.Date = "" }, wantErr: true},
		{name: "malformed date", mutate: func(m *Memory) { m.Date = "2026/02/05" }, wantErr: true},
		{name: "negative importance", mutate: func(m *Memory) { m.Importance = -0.1 }, wantErr: true},
		{name: "importance above one", mutate: func(m *Memory) { m.Importance = 1.01 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := testMemory("valid summary")
			tt.mutate(&mem)
			err := mem.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{ErrInvalidQuery, ErrInvalidWeight, ErrInconsistentIndex, ErrNotFound}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b))
		}
	}
}
