package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	scherrors "github.com/scholarmap/scholarmap/pkg/errors"
	"github.com/scholarmap/scholarmap/pkg/faculty"
	"github.com/scholarmap/scholarmap/pkg/logging"
)

// FieldUpdates carries a partial overwrite for an existing record. Empty
// string fields are left untouched; publications are additions, never
// replacements.
type FieldUpdates struct {
	Email             string
	School            string
	ResearchInterests string
	LabAffiliation    string
	PersonalWebsite   string
	ProfileURL        string
	Confidence        *float64
	NewPublications   []faculty.Publication
}

func (u FieldUpdates) empty() bool {
	return u.Email == "" && u.School == "" && u.ResearchInterests == "" &&
		u.LabAffiliation == "" && u.PersonalWebsite == "" && u.ProfileURL == "" &&
		u.Confidence == nil && len(u.NewPublications) == 0
}

// IdentityEntry is the minimal projection of a record used to build the
// fuzzy identity index without loading publications.
type IdentityEntry struct {
	ID         int64
	Name       string
	Department string
}

// Upsert inserts a record or merges it into the existing record with the
// same (name, department) identity. Non-empty incoming fields overwrite
// existing values last-write-wins; publications are unioned; a provenance
// entry is appended; last_updated is touched. The whole merge runs in one
// transaction. A record carrying only a name is valid.
func (s *Store) Upsert(ctx context.Context, rec *faculty.Record, sourceName string) (int64, error) {
	if rec == nil || strings.TrimSpace(rec.Name) == "" {
		return 0, &scherrors.ValidationError{Field: "name", Message: "record must carry a name"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, scherrors.WrapStorage("upsert", "faculty", rec.Name, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := timestamp(time.Now())

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM faculty WHERE name = ? AND department = ?`,
		rec.Name, rec.Department,
	).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, insErr := tx.ExecContext(ctx,
			`INSERT INTO faculty (
                name, email, department, school, research_interests,
                lab_affiliation, personal_website, profile_url, last_updated
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.Name,
			nullableString(rec.Email),
			rec.Department,
			nullableString(rec.School),
			nullableString(rec.ResearchInterests),
			nullableString(rec.LabAffiliation),
			nullableString(rec.PersonalWebsite),
			nullableString(rec.ProfileURL),
			now,
		)
		if insErr != nil {
			return 0, scherrors.WrapStorage("upsert", "faculty", rec.Name, insErr)
		}
		id, insErr = res.LastInsertId()
		if insErr != nil {
			return 0, scherrors.WrapStorage("upsert", "faculty", rec.Name, insErr)
		}
	case err != nil:
		return 0, scherrors.WrapStorage("upsert", "faculty", rec.Name, err)
	default:
		// Merge-on-conflict: incoming non-empty fields win, existing values
		// survive where the incoming record is silent.
		_, updErr := tx.ExecContext(ctx,
			`UPDATE faculty SET
                email = COALESCE(?, email),
                school = COALESCE(?, school),
                research_interests = COALESCE(?, research_interests),
                lab_affiliation = COALESCE(?, lab_affiliation),
                personal_website = COALESCE(?, personal_website),
                profile_url = COALESCE(?, profile_url),
                last_updated = ?
            WHERE id = ?`,
			nullableString(rec.Email),
			nullableString(rec.School),
			nullableString(rec.ResearchInterests),
			nullableString(rec.LabAffiliation),
			nullableString(rec.PersonalWebsite),
			nullableString(rec.ProfileURL),
			now,
			id,
		)
		if updErr != nil {
			return 0, scherrors.WrapStorage("upsert", "faculty", rec.Name, updErr)
		}
	}

	for _, pub := range rec.Publications {
		title := strings.TrimSpace(pub.Title)
		if title == "" {
			continue
		}
		source := pub.Source
		if source == "" {
			source = sourceName
		}
		if _, pubErr := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO publications (faculty_id, title, source) VALUES (?, ?, ?)`,
			id, title, source,
		); pubErr != nil {
			return 0, scherrors.WrapStorage("upsert", "publication", title, pubErr)
		}
	}

	if _, provErr := tx.ExecContext(ctx,
		`INSERT INTO provenance (faculty_id, source_name, source_url, retrieved_at) VALUES (?, ?, ?, ?)`,
		id, sourceName, nullableString(rec.ProfileURL), now,
	); provErr != nil {
		return 0, scherrors.WrapStorage("upsert", "provenance", sourceName, provErr)
	}

	if err := tx.Commit(); err != nil {
		return 0, scherrors.WrapStorage("upsert", "faculty", rec.Name, err)
	}
	return id, nil
}

// GetByID fetches a single record with publications attached. A missing ID
// yields (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*faculty.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM faculty WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, scherrors.WrapStorage("query", "faculty", fmt.Sprint(id), err)
	}
	if err := s.attachPublications(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetByName returns records matching a display name. With fuzzy set, the
// name matches as a case-insensitive substring; otherwise exactly.
func (s *Store) GetByName(ctx context.Context, name string, fuzzy bool) ([]*faculty.Record, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if fuzzy {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+recordColumns+` FROM faculty WHERE name LIKE ? ORDER BY id`,
			"%"+name+"%",
		)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+recordColumns+` FROM faculty WHERE name = ? ORDER BY id`,
			name,
		)
	}
	if err != nil {
		return nil, scherrors.WrapStorage("query", "faculty", name, err)
	}
	return s.collectRecords(ctx, rows)
}

// GetByDepartment returns records whose department or school contains the
// keyword.
func (s *Store) GetByDepartment(ctx context.Context, keyword string) ([]*faculty.Record, error) {
	pattern := "%" + keyword + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM faculty WHERE department LIKE ? OR school LIKE ? ORDER BY id`,
		pattern, pattern,
	)
	if err != nil {
		return nil, scherrors.WrapStorage("query", "faculty", keyword, err)
	}
	return s.collectRecords(ctx, rows)
}

// GetAll returns every record at or above the confidence floor, ordered by
// descending confidence.
func (s *Store) GetAll(ctx context.Context, minConfidence float64) ([]*faculty.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM faculty WHERE confidence_score >= ? ORDER BY confidence_score DESC, id`,
		minConfidence,
	)
	if err != nil {
		return nil, scherrors.WrapStorage("query", "faculty", "", err)
	}
	return s.collectRecords(ctx, rows)
}

// ListIdentities returns the identity projection of every record in
// insertion order, for building the fuzzy identity index.
func (s *Store) ListIdentities(ctx context.Context) ([]IdentityEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, department FROM faculty ORDER BY id`)
	if err != nil {
		return nil, scherrors.WrapStorage("query", "faculty", "", err)
	}
	defer rows.Close()

	var entries []IdentityEntry
	for rows.Next() {
		var entry IdentityEntry
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Department); err != nil {
			return nil, scherrors.WrapStorage("query", "faculty", "", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateFields applies a partial overwrite plus publication additions to an
// existing record. It fails silently: on any storage error the record is
// left unchanged, the error is logged, and false is returned. Callers must
// check the result.
func (s *Store) UpdateFields(ctx context.Context, id int64, updates FieldUpdates) bool {
	if updates.empty() {
		return true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Err(err).Int64("record_id", id).Msg("Update failed to begin transaction")
		return false
	}
	defer func() { _ = tx.Rollback() }()

	setClauses := []string{"last_updated = ?"}
	args := []any{timestamp(time.Now())}

	addSet := func(column, value string) {
		if value != "" {
			setClauses = append(setClauses, column+" = ?")
			args = append(args, value)
		}
	}
	addSet("email", updates.Email)
	addSet("school", updates.School)
	addSet("research_interests", updates.ResearchInterests)
	addSet("lab_affiliation", updates.LabAffiliation)
	addSet("personal_website", updates.PersonalWebsite)
	addSet("profile_url", updates.ProfileURL)
	if updates.Confidence != nil {
		setClauses = append(setClauses, "confidence_score = ?")
		args = append(args, *updates.Confidence)
	}

	args = append(args, id)
	query := `UPDATE faculty SET ` + strings.Join(setClauses, ", ") + ` WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		logging.Err(err).Int64("record_id", id).Msg("Update failed")
		return false
	}

	for _, pub := range updates.NewPublications {
		title := strings.TrimSpace(pub.Title)
		if title == "" {
			continue
		}
		source := pub.Source
		if source == "" {
			source = "verification"
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO publications (faculty_id, title, source) VALUES (?, ?, ?)`,
			id, title, source,
		); err != nil {
			logging.Err(err).Int64("record_id", id).Str("title", title).Msg("Publication insert failed")
			return false
		}
	}

	if err := tx.Commit(); err != nil {
		logging.Err(err).Int64("record_id", id).Msg("Update failed to commit")
		return false
	}
	return true
}

// AppendProvenance records an audit entry without touching record fields.
func (s *Store) AppendProvenance(ctx context.Context, id int64, entry faculty.Provenance) error {
	retrieved := entry.RetrievedAt
	if retrieved.IsZero() {
		retrieved = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO provenance (faculty_id, source_name, source_url, retrieved_at) VALUES (?, ?, ?, ?)`,
		id, entry.Source, nullableString(entry.URL), timestamp(retrieved),
	)
	if err != nil {
		return scherrors.WrapStorage("upsert", "provenance", entry.Source, err)
	}
	return nil
}

// Provenance returns the append-only audit log for a record, oldest first.
func (s *Store) Provenance(ctx context.Context, id int64) ([]faculty.Provenance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_name, source_url, retrieved_at FROM provenance WHERE faculty_id = ? ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, scherrors.WrapStorage("query", "provenance", fmt.Sprint(id), err)
	}
	defer rows.Close()

	var entries []faculty.Provenance
	for rows.Next() {
		var (
			entry    faculty.Provenance
			url      sql.NullString
			retrieve string
		)
		if err := rows.Scan(&entry.Source, &url, &retrieve); err != nil {
			return nil, scherrors.WrapStorage("query", "provenance", fmt.Sprint(id), err)
		}
		entry.URL = url.String
		if t, tErr := parseTimestamp(retrieve); tErr == nil {
			entry.RetrievedAt = t
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// RescoreAll recomputes confidence for every record from its materialized
// snapshot using the pure scorer, and returns the number of records updated.
// Scores always reflect current data regardless of which update paths ran.
func (s *Store) RescoreAll(ctx context.Context) (int, error) {
	records, err := s.GetAll(ctx, 0.0)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, scherrors.WrapStorage("update", "faculty", "", err)
	}
	defer func() { _ = tx.Rollback() }()

	updated := 0
	for _, rec := range records {
		score := faculty.Score(rec)
		if score == rec.Confidence {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE faculty SET confidence_score = ? WHERE id = ?`,
			score, rec.ID,
		); err != nil {
			return 0, scherrors.WrapStorage("update", "faculty", fmt.Sprint(rec.ID), err)
		}
		updated++
	}

	if err := tx.Commit(); err != nil {
		return 0, scherrors.WrapStorage("update", "faculty", "", err)
	}
	return updated, nil
}
