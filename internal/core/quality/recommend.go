package quality

// DefaultMaxRecommendations caps the recommendation list.
const DefaultMaxRecommendations = 5

// Recommend lists the remediation text of unsatisfied rules in catalog order,
// truncated to limit entries. Rules without remediation text are skipped.
// A limit of zero or less uses DefaultMaxRecommendations.
func Recommend(cat *Catalog, out Outcomes, limit int) []string {
	if limit <= 0 {
		limit = DefaultMaxRecommendations
	}
	recs := make([]string, 0, limit)
	for _, r := range cat.Rules() {
		if len(recs) == limit {
			break
		}
		if out[r.ID] || r.Remediation == "" {
			continue
		}
		recs = append(recs, r.Remediation)
	}
	return recs
}
