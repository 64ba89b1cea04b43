package app

import "time"

// User is the authenticated account as returned by GET /auth/me.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// BiasedSpan marks a biased fragment inside a sentence. Start and End are
// byte offsets into the sentence as reported by the analyzer.
type BiasedSpan struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
}

type SentenceAnalysis struct {
	Sentence    string       `json:"sentence"`
	BiasedSpans []BiasedSpan `json:"biased_spans"`
	Suggestion  string       `json:"suggestion"`
}

type AnalysisSummary struct {
	Score       float64 `json:"score"`
	BiasedCount int     `json:"biased_count"`
}

// AnalysisResult is the analyzer's verdict for one submission. It is an
// opaque value type: nothing in the client mutates it after decoding.
type AnalysisResult struct {
	OriginalText string             `json:"original_text"`
	Summary      AnalysisSummary    `json:"summary"`
	Sentences    []SentenceAnalysis `json:"sentences"`
}

// HistoryRecord is one past analysis. ID is server-assigned and immutable;
// records are never edited locally, only added to or removed from the list.
type HistoryRecord struct {
	ID             int            `json:"id"`
	OriginalText   string         `json:"original_text"`
	AnalysisResult AnalysisResult `json:"analysis_result"`
	CreatedAt      time.Time      `json:"created_at"`
	ProviderUsed   string         `json:"provider_used"`
}

// HistoryPage is one page of GET /chat/history.
type HistoryPage struct {
	History    []HistoryRecord `json:"history"`
	TotalCount int             `json:"total_count"`
}
