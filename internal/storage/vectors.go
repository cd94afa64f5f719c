package storage

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/cocktail-advisor/internal/embedding"
)

// lookupChunk keeps IN (...) lists well under SQLite's variable limit.
const lookupChunk = 400

// GetVectors returns the stored vectors for the given texts. Missing texts are
// absent from the result.
func (s *SQLite) GetVectors(ctx context.Context, model string, texts []string) (map[string]embedding.Vector, error) {
	out := make(map[string]embedding.Vector, len(texts))
	for start := 0; start < len(texts); start += lookupChunk {
		chunk := texts[start:min(start+lookupChunk, len(texts))]

		args := make([]any, 0, len(chunk)+1)
		args = append(args, model)
		for _, t := range chunk {
			args = append(args, t)
		}
		query := `SELECT text, vector FROM embeddings WHERE model = ? AND text IN (` +
			strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",") + `)`

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query vectors: %w", err)
		}
		for rows.Next() {
			var text string
			var blob []byte
			if err := rows.Scan(&text, &blob); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan vector: %w", err)
			}
			v, err := decodeVector(blob)
			if err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("vector for %q: %w", text, err)
			}
			out[text] = v
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// PutVectors upserts vectors in one transaction.
func (s *SQLite) PutVectors(ctx context.Context, model string, vectors map[string]embedding.Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO embeddings (model, text, dims, vector) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare vector insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for text, v := range vectors {
		if _, err := stmt.ExecContext(ctx, model, text, len(v), encodeVector(v)); err != nil {
			return fmt.Errorf("failed to store vector for %q: %w", text, err)
		}
	}
	return tx.Commit()
}

// CountVectors returns how many vectors are stored for model.
func (s *SQLite) CountVectors(ctx context.Context, model string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embeddings WHERE model = ?`, model).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count vectors: %w", err)
	}
	return n, nil
}

// encodeVector packs float32 values little-endian.
func encodeVector(v embedding.Vector) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(b []byte) (embedding.Vector, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("corrupt vector blob of %d bytes", len(b))
	}
	v := make(embedding.Vector, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
