// Package bridge serializes the canonical record store to and from
// interchange documents. Import routes candidate entries through the fuzzy
// identity matcher before upserting; export re-validates URL fields and
// strips internal-only data. JSON is the primary format; YAML is selected
// by file extension.
package bridge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/scholarmap/scholarmap/internal/store"
	scherrors "github.com/scholarmap/scholarmap/pkg/errors"
	"github.com/scholarmap/scholarmap/pkg/faculty"
	"github.com/scholarmap/scholarmap/pkg/identity"
	"github.com/scholarmap/scholarmap/pkg/logging"
	"github.com/scholarmap/scholarmap/pkg/urlcheck"
)

// ImportSource is the provenance tag recorded for bridge imports.
const ImportSource = "import"

// ImportStats summarizes one import run. Skipped counts navigation-text and
// empty-name rejections, which are data-quality filtering, not errors.
type ImportStats struct {
	Imported int
	Skipped  int
	Failed   int
}

// Bridge moves interchange documents in and out of a record store.
type Bridge struct {
	store *store.Store
}

// New creates a bridge over the given store.
func New(s *store.Store) *Bridge {
	return &Bridge{store: s}
}

// ImportFile reads an interchange document list from path and upserts its
// entries. Import is best-effort per entry: one bad entry is logged and
// skipped, never failing the batch.
func (b *Bridge) ImportFile(ctx context.Context, path string) (ImportStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportStats{}, scherrors.WrapIO("read", path, err)
	}

	var docs []Document
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &docs); err != nil {
			return ImportStats{}, scherrors.WrapParse("yaml", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &docs); err != nil {
			return ImportStats{}, scherrors.WrapParse("json", path, err)
		}
	}

	return b.Import(ctx, docs)
}

// Import batch-upserts interchange documents. Entries whose normalized name
// is empty or matches the navigation-text denylist are counted and skipped.
// Fuzzy name variants of known identities are folded onto the canonical
// record rather than creating duplicates.
func (b *Bridge) Import(ctx context.Context, docs []Document) (ImportStats, error) {
	log := logging.FromContext(ctx)
	var stats ImportStats

	index, byID, err := b.identityIndex(ctx)
	if err != nil {
		return stats, err
	}

	for _, doc := range docs {
		norm := identity.Normalize(doc.Name)
		if norm == "" || identity.IsNavigationTitle(norm) {
			stats.Skipped++
			log.Debug().Str("name", doc.Name).Msg("Skipping non-person entry")
			continue
		}

		rec := doc.record()

		// The matcher decides the upsert target: a fuzzy variant of a known
		// name is persisted under the canonical display name so the store's
		// (name, department) key hits the existing row. A department
		// mismatch keeps the entries separate; the same name in two
		// departments is two records.
		if id, ok := index.Match(norm); ok {
			if known, exists := byID[id]; exists {
				sameDept := rec.Department == "" || known.Department == "" || rec.Department == known.Department
				if sameDept {
					rec.Name = known.Name
					if rec.Department == "" {
						rec.Department = known.Department
					}
				}
			}
		}

		id, upErr := b.store.Upsert(ctx, rec, ImportSource)
		if upErr != nil {
			stats.Failed++
			log.Error().Err(upErr).Str("name", doc.Name).Msg("Import entry failed, continuing")
			continue
		}

		if index.Add(identity.Normalize(rec.Name), id) {
			byID[id] = store.IdentityEntry{ID: id, Name: rec.Name, Department: rec.Department}
		}
		stats.Imported++
	}

	log.Info().
		Int("imported", stats.Imported).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("Import complete")
	return stats, nil
}

// ExportFile writes all records at or above the confidence floor to path.
// URL fields are re-validated and scrubbed to the sentinel; publications
// are flattened to titles; internal-only fields are dropped.
func (b *Bridge) ExportFile(ctx context.Context, path string, minConfidence float64, includeConfidence bool) (int, error) {
	docs, err := b.Export(ctx, minConfidence, includeConfidence)
	if err != nil {
		return 0, err
	}

	var data []byte
	if isYAML(path) {
		data, err = yaml.Marshal(docs)
		if err != nil {
			return 0, scherrors.WrapParse("yaml", path, err)
		}
	} else {
		data, err = json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return 0, scherrors.WrapParse("json", path, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, scherrors.WrapIO("write", path, err)
	}

	logging.FromContext(ctx).Info().
		Int("records", len(docs)).
		Str("path", path).
		Msg("Export complete")
	return len(docs), nil
}

// Export materializes the interchange document list without touching disk.
func (b *Bridge) Export(ctx context.Context, minConfidence float64, includeConfidence bool) ([]Document, error) {
	records, err := b.store.GetAll(ctx, minConfidence)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(records))
	for _, rec := range records {
		doc := Document{
			Name:              rec.Name,
			Email:             rec.Email,
			Department:        rec.Department,
			School:            rec.School,
			ResearchInterests: FlexText(rec.ResearchInterests),
			LabAffiliation:    rec.LabAffiliation,
			PersonalWebsite:   urlcheck.Scrub(rec.PersonalWebsite),
			ProfileURL:        urlcheck.Scrub(rec.ProfileURL),
			Publications:      rec.PublicationTitles(),
		}
		if includeConfidence {
			confidence := rec.Confidence
			doc.Confidence = &confidence
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// identityIndex builds the fuzzy matcher input from the store's current
// identities, in insertion order.
func (b *Bridge) identityIndex(ctx context.Context) (*identity.Index, map[int64]store.IdentityEntry, error) {
	entries, err := b.store.ListIdentities(ctx)
	if err != nil {
		return nil, nil, err
	}

	index := identity.NewIndex()
	byID := make(map[int64]store.IdentityEntry, len(entries))
	for _, entry := range entries {
		if index.Add(identity.Normalize(entry.Name), entry.ID) {
			byID[entry.ID] = entry
		}
	}
	return index, byID, nil
}

// record converts a document into a candidate store record. URL fields that
// fail validation are rewritten to the sentinel on the way in, so
// directory links scraped as profile URLs never persist as real values.
func (d Document) record() *faculty.Record {
	rec := &faculty.Record{
		Name:              strings.TrimSpace(d.Name),
		Email:             strings.TrimSpace(d.Email),
		Department:        strings.TrimSpace(d.Department),
		School:            strings.TrimSpace(d.School),
		ResearchInterests: strings.TrimSpace(d.ResearchInterests.String()),
		LabAffiliation:    strings.TrimSpace(d.LabAffiliation),
	}
	if site := strings.TrimSpace(d.PersonalWebsite); site != "" {
		rec.PersonalWebsite = urlcheck.Scrub(site)
	}
	if profile := strings.TrimSpace(d.ProfileURL); profile != "" {
		rec.ProfileURL = urlcheck.Scrub(profile)
	}
	for _, title := range d.Publications {
		rec.AddPublication(title, ImportSource)
	}
	return rec
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
