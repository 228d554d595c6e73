package legislation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFallbackYear(t *testing.T) {
	t.Parallel()

	year := FallbackYear(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, Year{Label: "2025-2026", ID: "2025"}, year)
	assert.Equal(t, "2026", year.FileKey())
}

func TestDetectStage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  Stage
	}{
		{"Projet de loi N°03.25 Lecture 1", StageLecture1},
		{"Projet de loi N°12.24 Lecture 2", StageLecture2},
		{"Projet de loi N°12.24 Lecture 1 puis Lecture 2", StageLecture2},
		{"Projet de loi N°07.25", StageUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectStage(tt.label), tt.label)
	}
}
