package domain

// RecommendationSource tells the caller how a list was produced.
type RecommendationSource string

const (
	SourcePersonalized RecommendationSource = "personalized"
	SourceSimilarity   RecommendationSource = "similarity"
	SourcePopularity   RecommendationSource = "popularity"
	SourceTrending     RecommendationSource = "trending"
)

// RankedMovie is a catalog movie with the score it was ranked by.
type RankedMovie struct {
	Movie
	Score float64 `json:"score"`
}

type RecommendationMeta struct {
	CacheHit    bool                 `json:"cache_hit"`
	Source      RecommendationSource `json:"source"`
	Degraded    bool                 `json:"degraded"`
	GeneratedAt string               `json:"generated_at"`
	TotalCount  int                  `json:"total_count"`
}

type RecommendationResult struct {
	Recommendations []RankedMovie        `json:"recommendations"`
	Source          RecommendationSource `json:"source"`
	CacheHit        bool                 `json:"-"`
}

type BatchStatus string

const (
	StatusSuccess BatchStatus = "success"
	StatusFailed  BatchStatus = "failed"
)

type BatchUserResult struct {
	UserID          int64                `json:"user_id"`
	Recommendations []RankedMovie        `json:"recommendations,omitempty"`
	Source          RecommendationSource `json:"source,omitempty"`
	Status          BatchStatus          `json:"status"`
	Error           string               `json:"error,omitempty"`
	Message         string               `json:"message,omitempty"`
}

type BatchSummary struct {
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

type BatchMeta struct {
	GeneratedAt string `json:"generated_at"`
}

type BatchResponse struct {
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalUsers int               `json:"total_users"`
	Results    []BatchUserResult `json:"results"`
	Summary    BatchSummary      `json:"summary"`
	Metadata   BatchMeta         `json:"metadata"`
}
