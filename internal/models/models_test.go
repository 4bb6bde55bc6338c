package models

import (
	"fmt"
	"testing"
)

func TestErrored(t *testing.T) {
	r := AnalysisResult{}
	if r.Errored() {
		t.Error("result without signal errors must not be errored")
	}

	r.SignalErrors = []string{"signal contextual failed: offline"}
	if !r.Errored() {
		t.Error("result with signal errors must be errored")
	}
}

func TestSummarize(t *testing.T) {
	report := &BatchReport{
		SessionID:     "s-1",
		OverallStatus: "rejected",
		QualityScore:  42.5,
		Statistics:    Statistics{TotalItems: 8, ItemsRejected: 8},
		Partial:       true,
	}
	for i := 0; i < 5; i++ {
		report.TopIssues = append(report.TopIssues, Issue{
			ItemID: fmt.Sprintf("item_%d", i),
			Type:   IssueRejection,
		})
		report.Recommendations = append(report.Recommendations, fmt.Sprintf("recommendation %d", i))
	}

	s := report.Summarize()

	if s.SessionID != "s-1" || s.Status != "rejected" || s.QualityScore != 42.5 {
		t.Errorf("summary header mismatch: %+v", s)
	}
	if !s.Partial {
		t.Error("partial flag must carry over")
	}
	if len(s.TopIssues) != 3 {
		t.Errorf("expected issues truncated to 3, got %d", len(s.TopIssues))
	}
	if s.TopIssues[0].ItemID != "item_0" {
		t.Errorf("truncation must keep the leading issues, got %q", s.TopIssues[0].ItemID)
	}
	if len(s.Recommendations) != 3 {
		t.Errorf("expected recommendations truncated to 3, got %d", len(s.Recommendations))
	}

	// The source report keeps its full lists.
	if len(report.TopIssues) != 5 || len(report.Recommendations) != 5 {
		t.Error("summarizing must not mutate the report")
	}
}

func TestSummarizeShortLists(t *testing.T) {
	report := &BatchReport{
		SessionID:       "s-2",
		OverallStatus:   "approved",
		TopIssues:       []Issue{},
		Recommendations: []string{"proceed"},
	}

	s := report.Summarize()
	if len(s.TopIssues) != 0 {
		t.Errorf("expected no issues, got %v", s.TopIssues)
	}
	if len(s.Recommendations) != 1 {
		t.Errorf("expected single recommendation, got %v", s.Recommendations)
	}
}
