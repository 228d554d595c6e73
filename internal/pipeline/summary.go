package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JakeFAU/legislation-crawler/internal/crawler"
	"github.com/JakeFAU/legislation-crawler/internal/legislation"
)

const (
	sampleSize     = 3
	sampleTitleLen = 60
)

// StageCount is one row of the stage distribution.
type StageCount struct {
	Stage legislation.Stage
	Count int
}

// Summary describes the outcome of a run.
type Summary struct {
	RunID      string
	State      State
	States     []State
	Year       legislation.Year
	Path       string
	TotalItems int
	NewItems   int
	Stages     []StageCount
	LawNumbers []string
	Samples    []legislation.Record
	Remaining  int
	Stats      crawler.Stats
	FinishedAt time.Time
	Err        error
}

// summarize fills the record-derived fields from the snapshot contents.
func (s *Summary) summarize(records []legislation.Record) {
	s.TotalItems = len(records)
	s.Stages = nil
	s.LawNumbers = nil
	index := make(map[legislation.Stage]int)
	for _, rec := range records {
		stage := rec.Stage
		if stage == "" {
			stage = legislation.StageUnknown
		}
		if i, ok := index[stage]; ok {
			s.Stages[i].Count++
		} else {
			index[stage] = len(s.Stages)
			s.Stages = append(s.Stages, StageCount{Stage: stage, Count: 1})
		}
		if rec.LawNumber != "" {
			s.LawNumbers = append(s.LawNumbers, rec.LawNumber)
		}
	}
	n := min(sampleSize, len(records))
	s.Samples = append([]legislation.Record(nil), records[:n]...)
	s.Remaining = len(records) - n
}

// StageMap returns the stage distribution keyed by stage name.
func (s Summary) StageMap() map[string]int {
	out := make(map[string]int, len(s.Stages))
	for _, sc := range s.Stages {
		out[string(sc.Stage)] = sc.Count
	}
	return out
}

// WriteTo renders the summary as text. A failed run prints only its error.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	if s.State == StateFailed {
		fmt.Fprintf(&b, "Run %s failed: %v\n", s.RunID, s.Err)
		n, err := io.WriteString(w, b.String())
		return int64(n), err
	}

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(&b, rule)
	if s.State == StateNoNewData {
		fmt.Fprintln(&b, "No new legislation; existing snapshot unchanged.")
	} else {
		fmt.Fprintln(&b, "Scraping complete.")
	}
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Run ID: %s\n", s.RunID)
	fmt.Fprintf(&b, "Current Year: %s\n", s.Year.Label)
	fmt.Fprintf(&b, "Results saved to: %s\n", s.Path)
	fmt.Fprintf(&b, "Total Items: %d (%d new)\n", s.TotalItems, s.NewItems)
	if s.TotalItems == 0 {
		fmt.Fprintln(&b, "No results to display")
	} else {
		fmt.Fprintf(&b, "Law Numbers Found: %s\n", strings.Join(s.LawNumbers, ", "))
		fmt.Fprintln(&b, "Stage Distribution:")
		for _, sc := range s.Stages {
			fmt.Fprintf(&b, "  %s: %d\n", sc.Stage, sc.Count)
		}
		fmt.Fprintln(&b, "Sample Results:")
		for i, rec := range s.Samples {
			fmt.Fprintf(&b, "  %d. N°%s: %s... (%s)\n", i+1, orUnknown(rec.LawNumber), truncate(orUnknown(rec.Title), sampleTitleLen), orUnknown(string(rec.Stage)))
		}
		if s.Remaining > 0 {
			fmt.Fprintf(&b, "  ... and %d more items\n", s.Remaining)
		}
	}
	fmt.Fprintln(&b, rule)

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
