package analyses

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobmate-backend/internal/batch"
	"jobmate-backend/internal/orchestrate"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	analyses map[string]Analysis
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{analyses: make(map[string]Analysis)}
}

func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses[analysis.ID] = analysis
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.analyses[analysisID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

func (r *MemoryRepo) SetProcessing(ctx context.Context, analysisID string, startedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.analyses[analysisID]
	if !ok {
		return ErrNotFound
	}
	analysis.Status = StatusProcessing
	analysis.StartedAt = &startedAt
	analysis.UpdatedAt = &startedAt
	r.analyses[analysisID] = analysis
	return nil
}

func (r *MemoryRepo) Complete(ctx context.Context, analysisID string, result orchestrate.AnalysisResult, batchResult batch.Result, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.analyses[analysisID]
	if !ok {
		return ErrNotFound
	}
	analysis.Status = StatusCompleted
	analysis.Result = &result
	analysis.BatchResult = &batchResult
	analysis.ErrorMessage = nil
	analysis.CompletedAt = &completedAt
	analysis.UpdatedAt = &completedAt
	r.analyses[analysisID] = analysis
	return nil
}

func (r *MemoryRepo) Fail(ctx context.Context, analysisID, message string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.analyses[analysisID]
	if !ok {
		return ErrNotFound
	}
	analysis.Status = StatusFailed
	analysis.ErrorMessage = &message
	analysis.CompletedAt = &completedAt
	analysis.UpdatedAt = &completedAt
	r.analyses[analysisID] = analysis
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Analysis
	for _, analysis := range r.analyses {
		if analysis.UserID == userID {
			out = append(out, analysis)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
