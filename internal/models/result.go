package models

type MatchRequest struct {
	JobDescription string `form:"job_description" validate:"required,notblank"`
}

type RankedCandidate struct {
	Rank             int              `json:"rank"`
	Name             string           `json:"name"`
	Score            float64          `json:"score"`
	ExtractionStatus ExtractionStatus `json:"extraction_status"`
}

type MatchResponse struct {
	RunID   string            `json:"run_id,omitempty"`
	Results []RankedCandidate `json:"results"`
}

type MatchRunSummary struct {
	ID             string `json:"id"`
	CandidateCount int    `json:"candidate_count"`
	JobDescription string `json:"job_description"`
	CreatedAt      string `json:"created_at"`
}

func NewRankedCandidates(results []ScoreResult) []RankedCandidate {
	ranked := make([]RankedCandidate, len(results))
	for i, r := range results {
		ranked[i] = RankedCandidate{
			Rank:             i + 1,
			Name:             r.Name,
			Score:            r.Score,
			ExtractionStatus: r.Status,
		}
	}
	return ranked
}
