package reports

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	reports map[string]Report
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{reports: make(map[string]Report)}
}

func memKey(userID, reportID string) string {
	return userID + "/" + reportID
}

func (r *MemoryRepo) Save(ctx context.Context, report Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memKey(report.UserID, report.ReportID)
	if existing, ok := r.reports[key]; ok {
		report.ID = existing.ID
	}
	r.reports[key] = report
	return nil
}

func (r *MemoryRepo) GetByUser(ctx context.Context, userID string) ([]Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Report
	for _, report := range r.reports {
		if report.UserID == userID {
			out = append(out, report)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) GetByReport(ctx context.Context, userID, reportID string) (Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[memKey(userID, reportID)]
	if !ok {
		return Report{}, ErrNotFound
	}
	return report, nil
}

var _ Repo = (*MemoryRepo)(nil)
