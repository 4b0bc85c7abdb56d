package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/schoolable/timetable-api/internal/models"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
)

type teacherLoadReader interface {
	ListTeacherLoads(ctx context.Context, schoolID, termID string, schoolType models.SchoolType) ([]models.TeacherLoadRow, error)
	CountByTeacher(ctx context.Context, termID, teacherID string) (int, error)
}

type competencyReader interface {
	ListCompetentForSubject(ctx context.Context, subjectID string) ([]models.Teacher, error)
}

type subjectCoverageReader interface {
	ListUncovered(ctx context.Context, schoolID string) ([]models.Subject, error)
}

// WorkloadService derives per-teacher load aggregates from committed LESSON
// periods. Nothing here is persisted; every summary is recomputed from the
// period store (optionally short-circuited by the cache).
type WorkloadService struct {
	loads      teacherLoadReader
	teachers   competencyReader
	subjects   subjectCoverageReader
	thresholds models.WorkloadThresholds
	cache      *CacheService
	metrics    *MetricsService
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewWorkloadService instantiates WorkloadService.
func NewWorkloadService(
	loads teacherLoadReader,
	teachers competencyReader,
	subjects subjectCoverageReader,
	thresholds models.WorkloadThresholds,
	cache *CacheService,
	metrics *MetricsService,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *WorkloadService {
	if thresholds.LowBelow <= 0 {
		thresholds = models.WorkloadThresholds{LowBelow: 10, NormalUpTo: 25, HighUpTo: 30}
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadService{
		loads:      loads,
		teachers:   teachers,
		subjects:   subjects,
		thresholds: thresholds,
		cache:      cache,
		metrics:    metrics,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Summarize aggregates every teacher's committed LESSON periods for the term
// into counts, classifications, and warnings, plus the list of subjects no
// competent teacher covers.
func (s *WorkloadService) Summarize(ctx context.Context, schoolID, termID string, schoolType models.SchoolType) (*models.WorkloadSummary, error) {
	cacheKey := fmt.Sprintf("workload:%s:summary:%s:%s", termID, schoolID, schoolType)
	var cached models.WorkloadSummary
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	start := time.Now()
	rows, err := s.loads.ListTeacherLoads(ctx, schoolID, termID, schoolType)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("teacher_loads", time.Since(start))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher periods")
	}

	byTeacher := make(map[string]*models.TeacherWorkload)
	order := make([]string, 0)
	for _, row := range rows {
		workload, ok := byTeacher[row.TeacherID]
		if !ok {
			workload = &models.TeacherWorkload{
				TeacherID:   row.TeacherID,
				TeacherName: row.TeacherName,
				PerSubject:  map[string]int{},
				PerSection:  map[string]int{},
			}
			byTeacher[row.TeacherID] = workload
			order = append(order, row.TeacherID)
		}
		workload.TotalPeriods++
		if ref := row.TeachingRef(); ref != "" {
			workload.PerSubject[ref]++
		}
		if key := row.SectionKey(); key != ":" && key != "" {
			workload.PerSection[key]++
		}
	}

	summary := &models.WorkloadSummary{
		SchoolID:   schoolID,
		TermID:     termID,
		Teachers:   make([]models.TeacherWorkload, 0, len(byTeacher)),
		Thresholds: s.thresholds,
	}
	for _, teacherID := range order {
		workload := byTeacher[teacherID]
		workload.DistinctSubjects = len(workload.PerSubject)
		workload.DistinctSections = len(workload.PerSection)
		workload.Status = s.thresholds.Classify(workload.TotalPeriods)
		summary.Teachers = append(summary.Teachers, *workload)

		switch workload.Status {
		case models.WorkloadStatusHigh:
			summary.Warnings = append(summary.Warnings, models.WorkloadWarning{
				TeacherID: workload.TeacherID,
				Status:    workload.Status,
				Message:   fmt.Sprintf("%s carries %d periods this term, approaching the limit", workload.TeacherName, workload.TotalPeriods),
			})
		case models.WorkloadStatusOverloaded:
			summary.Warnings = append(summary.Warnings, models.WorkloadWarning{
				TeacherID: workload.TeacherID,
				Status:    workload.Status,
				Message:   fmt.Sprintf("%s carries %d periods this term, above the sustainable limit", workload.TeacherName, workload.TotalPeriods),
			})
		}
	}
	sort.SliceStable(summary.Teachers, func(i, j int) bool {
		if summary.Teachers[i].TotalPeriods != summary.Teachers[j].TotalPeriods {
			return summary.Teachers[i].TotalPeriods > summary.Teachers[j].TotalPeriods
		}
		return summary.Teachers[i].TeacherName < summary.Teachers[j].TeacherName
	})

	uncovered, err := s.subjects.ListUncovered(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject coverage")
	}
	for _, subject := range uncovered {
		summary.UncoveredSubjects = append(summary.UncoveredSubjects, models.UncoveredSubject{
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
		})
	}

	_ = s.cache.Set(ctx, cacheKey, summary, s.cacheTTL)
	return summary, nil
}

// LeastLoadedTeacherFor returns the competent teacher with the fewest LESSON
// periods in the term, ties resolved by competency order (first encountered).
// A nil teacher with a nil error means no competent teacher exists; callers
// must handle that case rather than assume an assignment is always possible.
func (s *WorkloadService) LeastLoadedTeacherFor(ctx context.Context, subjectID, termID string, excludeIDs []string) (*models.Teacher, error) {
	candidates, err := s.teachers.ListCompetentForSubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load competent teachers")
	}

	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	var best *models.Teacher
	bestCount := 0
	for i := range candidates {
		candidate := &candidates[i]
		if _, skip := excluded[candidate.ID]; skip {
			continue
		}
		count, err := s.loads.CountByTeacher(ctx, termID, candidate.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teacher periods")
		}
		if best == nil || count < bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best, nil
}
