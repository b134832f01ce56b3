// Package memory persists long-term memories in SQLite alongside a
// sqlite-vec index, and keeps the two in lockstep.
//
// Invariants:
// - Every vector index row has exactly one mapping row to a memory id.
// - Index row + mapping row are written in one transaction with the memory.
// - Memories without an embedding have no index row.
//
// Usage:
//
//	s, _ := memory.Open(memory.Config{DBPath: "/data/cortex.db", Dimension: 1024})
//	defer s.Close()
//	id, _ := s.Insert(ctx, memory.Memory{Date: "2026-02-05", Summary: "..."}, vec)
//	_ = id
package memory
