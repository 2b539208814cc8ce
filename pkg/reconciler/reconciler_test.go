package reconciler_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarmap/scholarmap/internal/store"
	"github.com/scholarmap/scholarmap/pkg/faculty"
	"github.com/scholarmap/scholarmap/pkg/reconciler"
	"github.com/scholarmap/scholarmap/pkg/sources"
)

// fakeSource returns a canned finding or error for every record.
type fakeSource struct {
	id      sources.ID
	finding sources.Finding
	err     error
	calls   int
}

func (f *fakeSource) ID() sources.ID { return f.id }

func (f *fakeSource) Verify(_ context.Context, _ *faculty.Record) (sources.Finding, error) {
	f.calls++
	return f.finding, f.err
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "faculty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBatchAppliesMergedFindings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Upsert(ctx, &faculty.Record{Name: "Jane Smith", Department: "ECE"}, "import")
	require.NoError(t, err)

	strong := &fakeSource{
		id: sources.DBLPID,
		finding: sources.Finding{
			Confidence:   0.8,
			Fields:       sources.Fields{Email: "jane@gatech.edu"},
			Publications: []string{"A Paper"},
		},
	}
	weak := &fakeSource{
		id: sources.OpenAlexID,
		finding: sources.Finding{
			Confidence: 0.4,
			Fields: sources.Fields{
				Email:             "stale@gatech.edu",
				ResearchInterests: "signal processing",
			},
		},
	}

	rec := reconciler.New(s, []sources.Source{strong, weak}, reconciler.WithRecordDelay(0))
	result, err := rec.Batch(ctx, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Zero(t, result.Failed)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, strong.calls)
	assert.Equal(t, 1, weak.calls)

	got, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "jane@gatech.edu", got.Email, "higher-confidence source wins")
	assert.Equal(t, "signal processing", got.ResearchInterests, "uncontested field from the weaker source")
	assert.Equal(t, []string{"A Paper"}, got.PublicationTitles())
	assert.InDelta(t, 0.6, got.Confidence, 1e-9, "mean of 0.8 and 0.4")
}

func TestBatchSourceFailureDegradesToZero(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Upsert(ctx, &faculty.Record{Name: "Jane Smith"}, "import")
	require.NoError(t, err)

	good := &fakeSource{
		id:      sources.DBLPID,
		finding: sources.Finding{Confidence: 0.8, Fields: sources.Fields{Email: "jane@gatech.edu"}},
	}
	broken := &fakeSource{
		id:  sources.OpenAlexID,
		err: errors.New("upstream down"),
	}

	rec := reconciler.New(s, []sources.Source{good, broken}, reconciler.WithRecordDelay(0))
	result, err := rec.Batch(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed, "one failing source never fails the record")

	got, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "jane@gatech.edu", got.Email)
	assert.InDelta(t, 0.4, got.Confidence, 1e-9, "failure counts as zero in the mean")
}

func TestBatchRecordsProvenancePerContributingSource(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Upsert(ctx, &faculty.Record{Name: "Jane Smith"}, "import")
	require.NoError(t, err)

	contributing := &fakeSource{id: sources.DBLPID, finding: sources.Finding{Confidence: 0.5}}
	silent := &fakeSource{id: sources.OpenAlexID, finding: sources.Finding{Confidence: 0}}

	rec := reconciler.New(s, []sources.Source{contributing, silent}, reconciler.WithRecordDelay(0))
	result, err := rec.Batch(ctx, 0, 0)
	require.NoError(t, err)

	entries, err := s.Provenance(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 2, "upsert entry plus one contributing source")
	assert.Equal(t, "dblp", entries[1].Source)
	assert.Equal(t, "urn:scholarmap:run:"+result.RunID, entries[1].URL)
}

func TestBatchHonorsMaxRecords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := s.Upsert(ctx, &faculty.Record{Name: name}, "import")
		require.NoError(t, err)
	}

	src := &fakeSource{id: sources.DBLPID, finding: sources.Finding{Confidence: 0.5}}
	rec := reconciler.New(s, []sources.Source{src}, reconciler.WithRecordDelay(0))

	result, err := rec.Batch(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, src.calls)
}

func TestBatchStopsOnCanceledContext(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Upsert(context.Background(), &faculty.Record{Name: "Jane Smith"}, "import")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{id: sources.DBLPID, finding: sources.Finding{Confidence: 0.5}}
	rec := reconciler.New(s, []sources.Source{src}, reconciler.WithRecordDelay(0))

	_, err = rec.Batch(ctx, 0, 0)
	require.Error(t, err)
	assert.Zero(t, src.calls)
}

func TestRecordRejectsNil(t *testing.T) {
	rec := reconciler.New(openTestStore(t), nil)
	assert.Error(t, rec.Record(context.Background(), nil))
}
