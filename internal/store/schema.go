package store

import (
	"context"
	"fmt"
)

// Department is part of the identity key, so it is stored as an empty string
// rather than NULL: SQLite treats NULLs as distinct in unique constraints,
// which would let duplicate (name, NULL) rows slip through.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS faculty (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        email TEXT,
        department TEXT NOT NULL DEFAULT '',
        school TEXT,
        research_interests TEXT,
        lab_affiliation TEXT,
        personal_website TEXT,
        profile_url TEXT,
        confidence_score REAL NOT NULL DEFAULT 0.0,
        last_updated TEXT NOT NULL,
        UNIQUE(name, department)
    )`,
	`CREATE TABLE IF NOT EXISTS publications (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        faculty_id INTEGER NOT NULL,
        title TEXT NOT NULL,
        source TEXT,
        FOREIGN KEY (faculty_id) REFERENCES faculty(id),
        UNIQUE(faculty_id, title)
    )`,
	`CREATE TABLE IF NOT EXISTS provenance (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        faculty_id INTEGER NOT NULL,
        source_name TEXT NOT NULL,
        source_url TEXT,
        retrieved_at TEXT NOT NULL,
        FOREIGN KEY (faculty_id) REFERENCES faculty(id)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_faculty_confidence ON faculty(confidence_score)`,
	`CREATE INDEX IF NOT EXISTS idx_publications_faculty ON publications(faculty_id)`,
	`CREATE INDEX IF NOT EXISTS idx_provenance_faculty ON provenance(faculty_id)`,
}

// applySchema creates tables and indexes when missing.
func (s *Store) applySchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
