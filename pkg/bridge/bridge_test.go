package bridge_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarmap/scholarmap/internal/store"
	"github.com/scholarmap/scholarmap/pkg/bridge"
	"github.com/scholarmap/scholarmap/pkg/faculty"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "faculty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestImportSkipsNavigationEntries(t *testing.T) {
	s := openTestStore(t)
	b := bridge.New(s)
	ctx := context.Background()

	stats, err := b.Import(ctx, []bridge.Document{
		{Name: "Faculty Directory"},
		{Name: "Home"},
		{Name: ""},
		{Name: "..."},
	})
	require.NoError(t, err)

	assert.Zero(t, stats.Imported)
	assert.Equal(t, 4, stats.Skipped)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestImportFoldsNameVariants(t *testing.T) {
	s := openTestStore(t)
	b := bridge.New(s)
	ctx := context.Background()

	// Two scrapes of the same person: a titled variant carrying the email
	// and a plain variant carrying a publication.
	stats, err := b.Import(ctx, []bridge.Document{
		{Name: "Dr. John Smith", Department: "ECE", Email: "john@gatech.edu"},
		{Name: "John Smith", Department: "ECE", Publications: []string{"A Paper"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Imported)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count, "variants collapse onto one record")

	recs, err := s.GetByName(ctx, "Dr. John Smith", false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "john@gatech.edu", recs[0].Email)
	assert.Equal(t, []string{"A Paper"}, recs[0].PublicationTitles())
}

func TestImportKeepsDepartmentsApart(t *testing.T) {
	s := openTestStore(t)
	b := bridge.New(s)
	ctx := context.Background()

	_, err := b.Import(ctx, []bridge.Document{
		{Name: "John Smith", Department: "ECE"},
		{Name: "John Smith", Department: "Physics"},
	})
	require.NoError(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "same name in two departments stays two records")
}

func TestImportScrubsInvalidURLs(t *testing.T) {
	s := openTestStore(t)
	b := bridge.New(s)
	ctx := context.Background()

	_, err := b.Import(ctx, []bridge.Document{{
		Name:            "Jane Smith",
		ProfileURL:      "https://ece.gatech.edu/directory",
		PersonalWebsite: "https://jane.example.edu",
	}})
	require.NoError(t, err)

	recs, err := s.GetByName(ctx, "Jane Smith", false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, faculty.Unknown, recs[0].ProfileURL)
	assert.Equal(t, "https://jane.example.edu", recs[0].PersonalWebsite)
}

func TestImportFileJSONWithFlexibleInterests(t *testing.T) {
	s := openTestStore(t)
	b := bridge.New(s)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "faculty.json")
	payload := `[
        {"name": "Jane Smith", "department": "ECE", "research_interests": ["signal processing", "machine learning"]},
        {"name": "John Doe", "department": "CS", "research_interests": "theory"}
    ]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	stats, err := b.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Imported)

	recs, err := s.GetByName(ctx, "Jane Smith", false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "signal processing; machine learning", recs[0].ResearchInterests)
}

func TestImportFileMissing(t *testing.T) {
	b := bridge.New(openTestStore(t))

	_, err := b.ImportFile(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestExportFileScrubsURLsAndFiltersByConfidence(t *testing.T) {
	s := openTestStore(t)
	b := bridge.New(s)
	ctx := context.Background()

	id, err := s.Upsert(ctx, &faculty.Record{
		Name:       "Jane Smith",
		Email:      "jane@gatech.edu",
		ProfileURL: "https://ece.gatech.edu/directory",
	}, "import")
	require.NoError(t, err)
	score := 0.6
	require.True(t, s.UpdateFields(ctx, id, store.FieldUpdates{Confidence: &score}))

	_, err = s.Upsert(ctx, &faculty.Record{Name: "Low Confidence"}, "import")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.json")
	count, err := b.ExportFile(ctx, path, 0.5, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var docs []bridge.Document
	require.NoError(t, json.Unmarshal(data, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Jane Smith", docs[0].Name)
	assert.Equal(t, faculty.Unknown, docs[0].ProfileURL, "invalid URL scrubbed on export")
	require.NotNil(t, docs[0].Confidence)
	assert.InDelta(t, 0.6, *docs[0].Confidence, 1e-9)
}

func TestExportFileYAML(t *testing.T) {
	s := openTestStore(t)
	b := bridge.New(s)
	ctx := context.Background()

	_, err := s.Upsert(ctx, &faculty.Record{Name: "Jane Smith", Department: "ECE"}, "import")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.yaml")
	count, err := b.ExportFile(ctx, path, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var docs []bridge.Document
	require.NoError(t, yaml.Unmarshal(data, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Jane Smith", docs[0].Name)
	assert.Nil(t, docs[0].Confidence, "confidence omitted on request")
}

func TestImportDeduplicatesAndScoresEndToEnd(t *testing.T) {
	s := openTestStore(t)
	b := bridge.New(s)
	ctx := context.Background()

	// Two scrapes of the same person, one without an email.
	_, err := b.Import(ctx, []bridge.Document{
		{Name: "Dr. John Smith", Department: "ECE"},
		{Name: "Dr. John Smith", Department: "ECE", Email: "jsmith@test.edu"},
	})
	require.NoError(t, err)

	_, err = s.RescoreAll(ctx)
	require.NoError(t, err)

	all, err := s.GetAll(ctx, 0.0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "jsmith@test.edu", all[0].Email)
	assert.Greater(t, all[0].Confidence, 0.0)
}

func TestImportThenExportRoundTrip(t *testing.T) {
	s := openTestStore(t)
	b := bridge.New(s)
	ctx := context.Background()

	_, err := b.Import(ctx, []bridge.Document{{
		Name:         "Dr. John Smith",
		Department:   "ECE",
		Email:        "john@gatech.edu",
		Publications: []string{"A Paper"},
	}})
	require.NoError(t, err)

	_, err = s.RescoreAll(ctx)
	require.NoError(t, err)

	docs, err := b.Export(ctx, 0, true)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Dr. John Smith", docs[0].Name)
	assert.Equal(t, []string{"A Paper"}, docs[0].Publications)
	require.NotNil(t, docs[0].Confidence)
	assert.Greater(t, *docs[0].Confidence, 0.0)
}
