// Package reconciler orchestrates multi-source verification of faculty
// records. For each record it queries every configured source, ranks the
// findings by per-source confidence, merges them into a single field update
// under a highest-confidence-wins-per-field policy, and applies the update
// through the record store.
package reconciler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/scholarmap/scholarmap/internal/store"
	scherrors "github.com/scholarmap/scholarmap/pkg/errors"
	"github.com/scholarmap/scholarmap/pkg/faculty"
	"github.com/scholarmap/scholarmap/pkg/logging"
	"github.com/scholarmap/scholarmap/pkg/sources"
)

// Reconciler verifies records against a fixed set of sources.
type Reconciler struct {
	store *store.Store
	srcs  []sources.Source
	opts  *options
}

// BatchResult summarizes one verification batch.
type BatchResult struct {
	RunID     string
	Processed int
	Failed    int
}

// New creates a Reconciler over the given store and sources.
func New(s *store.Store, srcs []sources.Source, opts ...Option) *Reconciler {
	return &Reconciler{
		store: s,
		srcs:  srcs,
		opts:  newOptions(opts...),
	}
}

// Record runs one verification pass for a single record: every source is
// queried with a bounded wait, failures degrade to zero confidence, and the
// merged update is applied in one store transaction. The record is left
// unchanged when the update cannot be committed.
func (r *Reconciler) Record(ctx context.Context, rec *faculty.Record) error {
	if rec == nil {
		return &scherrors.ValidationError{Field: "record", Message: "cannot be nil"}
	}
	log := logging.FromContext(ctx)

	findings := make([]sources.Finding, 0, len(r.srcs))
	for _, src := range r.srcs {
		findings = append(findings, r.verify(ctx, src, rec))
	}

	merged := MergeFindings(findings)

	updates := store.FieldUpdates{
		Confidence: &merged.Confidence,
	}
	// A merged value only overwrites when it differs from what the record
	// already holds; identical values would just churn last_updated.
	if merged.Fields.Email != "" && merged.Fields.Email != rec.Email {
		updates.Email = merged.Fields.Email
	}
	if merged.Fields.PersonalWebsite != "" && merged.Fields.PersonalWebsite != rec.PersonalWebsite {
		updates.PersonalWebsite = merged.Fields.PersonalWebsite
	}
	if merged.Fields.ProfileURL != "" && merged.Fields.ProfileURL != rec.ProfileURL {
		updates.ProfileURL = merged.Fields.ProfileURL
	}
	if merged.Fields.ResearchInterests != "" && merged.Fields.ResearchInterests != rec.ResearchInterests {
		updates.ResearchInterests = merged.Fields.ResearchInterests
	}
	if merged.Fields.LabAffiliation != "" && merged.Fields.LabAffiliation != rec.LabAffiliation {
		updates.LabAffiliation = merged.Fields.LabAffiliation
	}
	for _, title := range merged.Publications {
		if !rec.HasPublication(title) {
			updates.NewPublications = append(updates.NewPublications, faculty.Publication{
				Title:  title,
				Source: "verification",
			})
		}
	}

	if !r.store.UpdateFields(ctx, rec.ID, updates) {
		return scherrors.WrapStorage("update", "faculty", rec.Name, scherrors.New("verification update not committed"))
	}

	runID := logging.RunID(ctx)
	for _, finding := range findings {
		if finding.Confidence <= 0 {
			continue
		}
		entry := faculty.Provenance{Source: finding.Source.String(), RetrievedAt: time.Now()}
		if runID != "" {
			entry.URL = "urn:scholarmap:run:" + runID
		}
		if err := r.store.AppendProvenance(ctx, rec.ID, entry); err != nil {
			log.Warn().Err(err).Int64("record_id", rec.ID).Msg("Provenance append failed")
		}
	}

	log.Info().
		Str("name", rec.Name).
		Float64("confidence", merged.Confidence).
		Int("new_publications", len(updates.NewPublications)).
		Msg("Record verified")
	return nil
}

// verify queries one source with a bounded wait. Errors and timeouts are
// logged and collapse to a zero-confidence finding so they count against
// the merged mean without contributing fields.
func (r *Reconciler) verify(ctx context.Context, src sources.Source, rec *faculty.Record) sources.Finding {
	log := logging.FromContext(ctx)

	callCtx, cancel := context.WithTimeout(ctx, r.opts.sourceTimeout)
	defer cancel()

	finding, err := src.Verify(callCtx, rec)
	if err != nil {
		log.Warn().
			Err(err).
			Str("source", src.ID().String()).
			Str("name", rec.Name).
			Msg("Source verification failed")
		return sources.Finding{Source: src.ID(), Confidence: 0}
	}

	finding.Source = src.ID()
	finding.Confidence = sources.ClampConfidence(finding.Confidence)
	return finding
}

// Batch verifies all records at or above the confidence floor, up to
// maxRecords (zero or negative means no cap). The cap stops new records
// from being picked up but never aborts an in-flight merge, and no single
// record's failure terminates the batch. A fixed pause separates records.
func (r *Reconciler) Batch(ctx context.Context, minConfidence float64, maxRecords int) (BatchResult, error) {
	result := BatchResult{RunID: uuid.NewString()}
	ctx = logging.WithRunID(ctx, result.RunID)
	log := logging.FromContext(ctx)

	records, err := r.store.GetAll(ctx, minConfidence)
	if err != nil {
		return result, err
	}
	if maxRecords > 0 && len(records) > maxRecords {
		records = records[:maxRecords]
	}

	log.Info().
		Int("records", len(records)).
		Float64("min_confidence", minConfidence).
		Msg("Starting verification batch")

	for i, rec := range records {
		if ctx.Err() != nil {
			log.Warn().Int("remaining", len(records)-i).Msg("Verification batch canceled")
			return result, scherrors.ErrCanceled
		}

		if err := r.Record(ctx, rec); err != nil {
			result.Failed++
			log.Error().
				Err(err).
				Str("name", rec.Name).
				Msg("Record verification failed, continuing batch")
		} else {
			result.Processed++
		}

		if i < len(records)-1 && r.opts.recordDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(r.opts.recordDelay):
			}
		}
	}

	log.Info().
		Int("processed", result.Processed).
		Int("failed", result.Failed).
		Msg("Verification batch complete")
	return result, nil
}
