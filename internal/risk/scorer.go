package risk

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ScoreFunc scores a single image reference. Implementations return an error
// for transport or parse failures; the scorer converts those to the fallback
// assessment rather than surfacing them.
type ScoreFunc func(ctx context.Context, imageRef string) (ScoreResult, error)

// ScorerConfig holds configuration for the batch scorer.
type ScorerConfig struct {
	// Logger for scorer operations.
	Logger zerolog.Logger

	// Concurrency is the ceiling on in-flight oracle calls (default: 3).
	Concurrency int
}

// Scorer runs image assessments in concurrency-bounded windows.
type Scorer struct {
	logger      zerolog.Logger
	concurrency int
}

// NewScorer creates a batch scorer with defaults applied.
func NewScorer(cfg ScorerConfig) *Scorer {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	return &Scorer{
		logger:      cfg.Logger,
		concurrency: concurrency,
	}
}

// ScoreBatch scores every image reference and returns index-aligned results.
// References are processed in consecutive windows of at most the configured
// concurrency; each window completes fully before the next starts, so no more
// than that many oracle calls are ever in flight. A failed call degrades that
// index to the fallback assessment and never aborts the batch.
func (s *Scorer) ScoreBatch(ctx context.Context, imageRefs []string, score ScoreFunc) BatchResult {
	start := time.Now()

	result := BatchResult{
		Scores:       make([]int, len(imageRefs)),
		Explanations: make([]string, len(imageRefs)),
		Precautions:  make([]string, len(imageRefs)),
	}

	var failed atomic.Int32

	for windowStart := 0; windowStart < len(imageRefs); windowStart += s.concurrency {
		windowEnd := windowStart + s.concurrency
		if windowEnd > len(imageRefs) {
			windowEnd = len(imageRefs)
		}

		var wg sync.WaitGroup
		for i := windowStart; i < windowEnd; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()

				assessment, err := s.scoreOne(ctx, imageRefs[idx], score)
				if err != nil {
					s.logger.Warn().
						Err(err).
						Int("index", idx).
						Str("image_ref", imageRefs[idx]).
						Msg("image scoring failed, using fallback assessment")
					assessment = FallbackResult()
					failed.Add(1)
				}

				// Results are placed by input index, so output order never
				// depends on call completion order.
				result.Scores[idx] = assessment.Score
				result.Explanations[idx] = assessment.Explanation
				result.Precautions[idx] = assessment.Precaution
			}(i)
		}
		wg.Wait()
	}

	s.logger.Debug().
		Int("images", len(imageRefs)).
		Int32("failed", failed.Load()).
		Dur("duration", time.Since(start)).
		Msg("image batch scored")

	return result
}

// scoreOne invokes the score function, containing panics so a misbehaving
// oracle client degrades a single index instead of crashing the batch.
func (s *Scorer) scoreOne(ctx context.Context, imageRef string, score ScoreFunc) (result ScoreResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Interface("panic", r).
				Str("image_ref", imageRef).
				Msg("score function panicked")
			result = ScoreResult{}
			err = ErrOracleUnavailable
		}
	}()

	return score(ctx, imageRef)
}
