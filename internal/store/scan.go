package store

import (
	"context"
	"database/sql"

	scherrors "github.com/scholarmap/scholarmap/pkg/errors"
	"github.com/scholarmap/scholarmap/pkg/faculty"
)

const recordColumns = "id, name, email, department, school, research_interests, lab_affiliation, personal_website, profile_url, confidence_score, last_updated"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*faculty.Record, error) {
	var (
		id          int64
		name        string
		email       sql.NullString
		department  string
		school      sql.NullString
		interests   sql.NullString
		lab         sql.NullString
		website     sql.NullString
		profileURL  sql.NullString
		confidence  float64
		lastUpdated sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&email,
		&department,
		&school,
		&interests,
		&lab,
		&website,
		&profileURL,
		&confidence,
		&lastUpdated,
	); err != nil {
		return nil, err
	}

	rec := &faculty.Record{
		ID:                id,
		Name:              name,
		Email:             email.String,
		Department:        department,
		School:            school.String,
		ResearchInterests: interests.String,
		LabAffiliation:    lab.String,
		PersonalWebsite:   website.String,
		ProfileURL:        profileURL.String,
		Confidence:        confidence,
	}
	if lastUpdated.Valid {
		if t, err := parseTimestamp(lastUpdated.String); err == nil {
			rec.LastUpdated = t
		}
	}
	return rec, nil
}

// collectRecords drains rows into records and attaches publications to each.
func (s *Store) collectRecords(ctx context.Context, rows *sql.Rows) ([]*faculty.Record, error) {
	defer rows.Close()

	var records []*faculty.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, scherrors.WrapStorage("query", "faculty", "", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, scherrors.WrapStorage("query", "faculty", "", err)
	}

	for _, rec := range records {
		if err := s.attachPublications(ctx, rec); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// attachPublications loads a record's publications in insertion order.
func (s *Store) attachPublications(ctx context.Context, rec *faculty.Record) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, source FROM publications WHERE faculty_id = ? ORDER BY id`,
		rec.ID,
	)
	if err != nil {
		return scherrors.WrapStorage("query", "publication", rec.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			title  string
			source sql.NullString
		)
		if err := rows.Scan(&title, &source); err != nil {
			return scherrors.WrapStorage("query", "publication", rec.Name, err)
		}
		rec.Publications = append(rec.Publications, faculty.Publication{Title: title, Source: source.String})
	}
	return rows.Err()
}
