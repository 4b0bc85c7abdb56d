package service

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolable/timetable-api/internal/dto"
	"github.com/schoolable/timetable-api/internal/models"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
	"github.com/schoolable/timetable-api/pkg/timeutil"
)

const freePeriodLabel = "Free Period"

type subjectCatalog interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.Subject, error)
}

// GeneratorOptions tunes one distribution run.
type GeneratorOptions struct {
	MaxSameSubjectPerDay int
	FreePeriodsPerDay    int
	CoreKeywords         []string
}

// GeneratorService proposes a weekly subject distribution for a section and
// writes accepted proposals back through the conflict-checked period path.
// Generation itself touches nothing: the output is a proposal until Apply.
type GeneratorService struct {
	periods   schedulePeriodReader
	subjects  subjectCatalog
	schools   schoolReader
	writer    *PeriodService
	defaults  GeneratorOptions
	metrics   *MetricsService
	rng       *rand.Rand
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGeneratorService instantiates GeneratorService. A nil rng falls back to
// a time-seeded source; tests inject a fixed seed for repeatable proposals.
func NewGeneratorService(
	periods schedulePeriodReader,
	subjects subjectCatalog,
	schools schoolReader,
	writer *PeriodService,
	defaults GeneratorOptions,
	metrics *MetricsService,
	rng *rand.Rand,
	validate *validator.Validate,
	logger *zap.Logger,
) *GeneratorService {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.MaxSameSubjectPerDay <= 0 {
		defaults.MaxSameSubjectPerDay = 2
	}
	if defaults.FreePeriodsPerDay < 0 {
		defaults.FreePeriodsPerDay = 1
	}
	if len(defaults.CoreKeywords) == 0 {
		defaults.CoreKeywords = []string{"english", "mathematics", "math", "basic science", "science"}
	}
	return &GeneratorService{
		periods:   periods,
		subjects:  subjects,
		schools:   schools,
		writer:    writer,
		defaults:  defaults,
		metrics:   metrics,
		rng:       rng,
		validator: validate,
		logger:    logger,
	}
}

// Generate builds a weekly proposal for the section. Committed assignments
// are kept as-is and echoed back with Existing=true; only unassigned lesson
// slots receive a subject or an explicit free period.
func (s *GeneratorService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	school, err := s.schools.FindByID(ctx, req.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}

	section := req.Section()
	existing, err := s.periods.ListBySection(ctx, req.TermID, section)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing periods")
	}

	catalog, err := s.subjects.ListBySchool(ctx, req.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject catalog")
	}
	pool := make([]models.PoolItem, 0, len(catalog))
	for _, subject := range catalog {
		pool = append(pool, models.PoolItem{ID: subject.ID, Name: subject.Name})
	}
	if len(pool) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject catalog is empty, nothing to distribute")
	}

	opts := s.defaults
	if req.MaxSameSubjectPerDay > 0 {
		opts.MaxSameSubjectPerDay = req.MaxSameSubjectPerDay
	}
	if req.FreePeriodsPerDay > 0 {
		opts.FreePeriodsPerDay = req.FreePeriodsPerDay
	}

	slots := s.distribute(req.Template, pool, existing, school.Type, opts)

	filled := 0
	for _, slot := range slots {
		if !slot.Existing && slot.Kind == models.PeriodKindLesson && (slot.SubjectID != nil || slot.CourseID != nil) {
			filled++
		}
	}
	if s.metrics != nil {
		s.metrics.RecordGeneratorRun(filled)
	}
	s.logger.Info("timetable proposal generated",
		zap.String("term_id", req.TermID),
		zap.String("section", section.Key()),
		zap.Int("slots", len(slots)),
		zap.Int("filled", filled),
	)

	return &dto.GenerateTimetableResponse{TermID: req.TermID, Section: section, Slots: slots}, nil
}

// distribute is the pure planning pass. Existing committed assignments are
// never overwritten; everything else is filled from the weighted pool.
func (s *GeneratorService) distribute(
	template []models.SlotTemplate,
	pool []models.PoolItem,
	existing []models.Period,
	schoolType models.SchoolType,
	opts GeneratorOptions,
) []dto.GeneratedSlot {
	type slotKey struct{ day, start string }

	existingByKey := make(map[slotKey]*models.Period, len(existing))
	for i := range existing {
		p := &existing[i]
		existingByKey[slotKey{p.DayOfWeek, p.StartTime}] = p
	}

	var slots []dto.GeneratedSlot

	// Non-lesson structure: seed from template only on a blank grid. A
	// populated grid keeps whatever break/assembly/lunch layout it already has.
	if len(existing) == 0 {
		for _, day := range timeutil.Weekdays {
			for _, tpl := range template {
				if tpl.Kind == models.PeriodKindLesson {
					continue
				}
				slots = append(slots, dto.GeneratedSlot{
					DayOfWeek:   day,
					StartTime:   tpl.StartTime,
					EndTime:     tpl.EndTime,
					Kind:        tpl.Kind,
					DisplayName: tpl.Label,
				})
			}
		}
	} else {
		for i := range existing {
			p := &existing[i]
			if p.Kind == models.PeriodKindLesson {
				continue
			}
			label := ""
			if p.Label != nil {
				label = *p.Label
			}
			slots = append(slots, dto.GeneratedSlot{
				DayOfWeek:   p.DayOfWeek,
				StartTime:   p.StartTime,
				EndTime:     p.EndTime,
				Kind:        p.Kind,
				DisplayName: label,
				Existing:    true,
			})
		}
	}

	lessonSlots := lessonSlotSet(template, existing)

	for _, day := range timeutil.Weekdays {
		freeBudget := opts.FreePeriodsPerDay
		if freeBudget > 0 && s.rng.Intn(2) == 0 {
			freeBudget++
		}
		usedToday := make(map[string]int, len(pool))
		lastRef := ""

		for idx, slot := range lessonSlots {
			remainingSlots := len(lessonSlots) - idx

			if p, ok := existingByKey[slotKey{day, slot.StartTime}]; ok {
				if p.Kind != models.PeriodKindLesson {
					continue
				}
				if ref := p.TeachingRef(); ref != nil {
					usedToday[*ref]++
					lastRef = *ref
					slots = append(slots, dto.GeneratedSlot{
						DayOfWeek: day,
						StartTime: p.StartTime,
						EndTime:   p.EndTime,
						Kind:      models.PeriodKindLesson,
						SubjectID: p.SubjectID,
						CourseID:  p.CourseID,
						Existing:  true,
					})
					continue
				}
			}

			if freeBudget > 0 && s.rng.Float64() < float64(freeBudget)/float64(remainingSlots) {
				freeBudget--
				lastRef = ""
				slots = append(slots, dto.GeneratedSlot{
					DayOfWeek:   day,
					StartTime:   slot.StartTime,
					EndTime:     slot.EndTime,
					Kind:        models.PeriodKindLesson,
					DisplayName: freePeriodLabel,
				})
				continue
			}

			chosen := s.pickSubject(pool, opts, usedToday, lastRef)
			usedToday[chosen.ID]++
			lastRef = chosen.ID

			generated := dto.GeneratedSlot{
				DayOfWeek:   day,
				StartTime:   slot.StartTime,
				EndTime:     slot.EndTime,
				Kind:        models.PeriodKindLesson,
				DisplayName: chosen.Name,
			}
			id := chosen.ID
			if schoolType == models.SchoolTypeTertiary {
				generated.CourseID = &id
			} else {
				generated.SubjectID = &id
			}
			slots = append(slots, generated)
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		di, dj := timeutil.DayIndex(slots[i].DayOfWeek), timeutil.DayIndex(slots[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots
}

// pickSubject shuffles a weighted copy of the pool and returns the first
// candidate that avoids a back-to-back repeat and stays under the daily cap.
// When every candidate violates a constraint, coverage wins and the first
// entry is taken anyway.
func (s *GeneratorService) pickSubject(pool []models.PoolItem, opts GeneratorOptions, usedToday map[string]int, lastRef string) models.PoolItem {
	weighted := make([]models.PoolItem, 0, len(pool)*3)
	for _, item := range pool {
		weight := 2
		if isCoreSubject(item.Name, opts.CoreKeywords) {
			weight = 3
		}
		for w := 0; w < weight; w++ {
			weighted = append(weighted, item)
		}
	}
	s.rng.Shuffle(len(weighted), func(i, j int) {
		weighted[i], weighted[j] = weighted[j], weighted[i]
	})

	for _, candidate := range weighted {
		if candidate.ID == lastRef {
			continue
		}
		if usedToday[candidate.ID] >= opts.MaxSameSubjectPerDay {
			continue
		}
		return candidate
	}
	return weighted[0]
}

func isCoreSubject(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// lessonSlotSet derives the working lesson grid. An established schedule's own
// unique (start, end) lesson slots take precedence over the template.
func lessonSlotSet(template []models.SlotTemplate, existing []models.Period) []models.SlotTemplate {
	type timeRange struct{ start, end string }
	seen := make(map[timeRange]struct{})
	var slots []models.SlotTemplate

	hasLessons := false
	for i := range existing {
		if existing[i].Kind == models.PeriodKindLesson {
			hasLessons = true
			break
		}
	}

	if hasLessons {
		for i := range existing {
			p := &existing[i]
			if p.Kind != models.PeriodKindLesson {
				continue
			}
			key := timeRange{p.StartTime, p.EndTime}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			slots = append(slots, models.SlotTemplate{StartTime: p.StartTime, EndTime: p.EndTime, Kind: models.PeriodKindLesson})
		}
	} else {
		for _, tpl := range template {
			if tpl.Kind != models.PeriodKindLesson {
				continue
			}
			key := timeRange{tpl.StartTime, tpl.EndTime}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			slots = append(slots, tpl)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime < slots[j].StartTime })
	return slots
}

// Apply commits a proposal slot by slot through the conflict-checked period
// path. Slots already occupied are skipped, conflicts and failures are
// reported per slot, and the batch always runs to completion.
func (s *GeneratorService) Apply(ctx context.Context, req dto.ApplyTimetableRequest) (*dto.ApplyTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid apply payload")
	}

	section := req.Section()
	existing, err := s.periods.ListBySection(ctx, req.TermID, section)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing periods")
	}
	type slotKey struct{ day, start string }
	existingByKey := make(map[slotKey]*models.Period, len(existing))
	for i := range existing {
		p := &existing[i]
		existingByKey[slotKey{p.DayOfWeek, p.StartTime}] = p
	}

	result := &dto.ApplyTimetableResponse{Outcomes: make([]dto.SlotOutcome, 0, len(req.Slots))}
	for _, slot := range req.Slots {
		outcome := dto.SlotOutcome{DayOfWeek: slot.DayOfWeek, StartTime: slot.StartTime}

		if slot.Existing {
			outcome.Status = dto.SlotOutcomeSkipped
			result.Skipped++
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		if current, ok := existingByKey[slotKey{slot.DayOfWeek, slot.StartTime}]; ok {
			if current.Assigned() || current.Kind != models.PeriodKindLesson {
				outcome.Status = dto.SlotOutcomeSkipped
				outcome.PeriodID = current.ID
				result.Skipped++
				result.Outcomes = append(result.Outcomes, outcome)
				continue
			}
			// Seeded empty lesson slot: fill it in place.
			updated, err := s.writer.Update(ctx, current.ID, dto.UpdatePeriodRequest{
				SubjectID: slot.SubjectID,
				CourseID:  slot.CourseID,
				Label:     labelFor(slot),
			})
			s.recordOutcome(result, &outcome, updated, err)
			continue
		}

		created, err := s.writer.Create(ctx, dto.CreatePeriodRequest{
			SchoolID:   req.SchoolID,
			TermID:     req.TermID,
			DayOfWeek:  slot.DayOfWeek,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			Kind:       slot.Kind,
			Label:      labelFor(slot),
			SubjectID:  slot.SubjectID,
			CourseID:   slot.CourseID,
			ClassID:    req.ClassID,
			ClassArmID: req.ClassArmID,
		})
		s.recordOutcome(result, &outcome, created, err)
	}
	return result, nil
}

func (s *GeneratorService) recordOutcome(result *dto.ApplyTimetableResponse, outcome *dto.SlotOutcome, period *models.Period, err error) {
	switch {
	case err == nil:
		outcome.Status = dto.SlotOutcomeCreated
		outcome.PeriodID = period.ID
		result.Created++
	case isConflictError(err):
		outcome.Status = dto.SlotOutcomeConflict
		outcome.Message = err.Error()
		result.Conflict++
	default:
		outcome.Status = dto.SlotOutcomeFailed
		outcome.Message = err.Error()
		result.Failed++
	}
	result.Outcomes = append(result.Outcomes, *outcome)
}

func labelFor(slot dto.GeneratedSlot) *string {
	if slot.DisplayName == "" {
		return nil
	}
	label := slot.DisplayName
	return &label
}

func isConflictError(err error) bool {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Code == appErrors.ErrConflict.Code
	}
	return false
}
