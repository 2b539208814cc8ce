package faculty

// FieldWeight is the confidence contribution of each populated field.
const FieldWeight = 0.2

// Score computes the completeness confidence of a record in [0.0, 1.0].
// It is a pure function of the record's current field values: 0.2 for each
// of email, non-sentinel personal website, non-sentinel profile URL,
// non-empty research interests, and at least one publication. Recomputing
// from the same snapshot always yields the same score.
func Score(r *Record) float64 {
	if r == nil {
		return 0
	}

	score := 0.0
	if Known(r.Email) {
		score += FieldWeight
	}
	if Known(r.PersonalWebsite) {
		score += FieldWeight
	}
	if Known(r.ProfileURL) {
		score += FieldWeight
	}
	if Known(r.ResearchInterests) {
		score += FieldWeight
	}
	if len(r.Publications) > 0 {
		score += FieldWeight
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
