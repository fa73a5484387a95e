// Package features turns raw text into points the engine can cluster.
package features

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Dimension is the number of features produced per line.
const Dimension = 2

var (
	encoderOnce sync.Once
	encoder     *tiktoken.Tiktoken
)

func loadEncoder() *tiktoken.Tiktoken {
	encoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			slog.Warn("tiktoken cl100k_base unavailable, using word-based estimate", "error", err)
			return
		}
		encoder = enc
	})
	return encoder
}

// CountTokens counts tokens using tiktoken, falling back to a word-based estimate.
func CountTokens(text string) int {
	if enc := loadEncoder(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return int(float64(len(strings.Fields(text))) * 1.33)
}

// TextPoint maps a line to (token count, word count).
func TextPoint(text string) []float64 {
	return []float64{
		float64(CountTokens(text)),
		float64(len(strings.Fields(text))),
	}
}

// TextPoints featurizes every non-blank line, returning the kept lines
// alongside their points.
func TextPoints(lines []string) ([]string, [][]float64) {
	var kept []string
	var points [][]float64
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
		points = append(points, TextPoint(line))
	}
	return kept, points
}
