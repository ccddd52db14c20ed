package qdrant

import (
	"math"

	"github.com/4f71/mentormate/internal/core/domain"
)

type candidate struct {
	doc    domain.Document
	score  float64
	vector []float32
}

// selectMMR greedily picks k candidates maximizing
// lambda*relevance - (1-lambda)*max-similarity-to-selected.
// Candidates arrive sorted by relevance, so the first pick is always
// the nearest neighbor.
func selectMMR(candidates []candidate, k int, lambda float64) []candidate {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if lambda <= 0 || lambda > 1 {
		lambda = 0.5
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	selected := make([]candidate, 0, k)
	used := make([]bool, len(candidates))

	selected = append(selected, candidates[0])
	used[0] = true

	for len(selected) < k {
		bestIdx := -1
		bestVal := math.Inf(-1)

		for i, cand := range candidates {
			if used[i] {
				continue
			}
			maxSim := 0.0
			for _, sel := range selected {
				if sim := cosineSimilarity(cand.vector, sel.vector); sim > maxSim {
					maxSim = sim
				}
			}
			val := lambda*cand.score - (1-lambda)*maxSim
			if val > bestVal {
				bestVal = val
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}
		selected = append(selected, candidates[bestIdx])
		used[bestIdx] = true
	}
	return selected
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
