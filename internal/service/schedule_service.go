package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-schedule-api/internal/dto"
	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
)

type timeSlotStore interface {
	LockTimetable(ctx context.Context, exec sqlx.ExtContext, key string) error
	ListByTimetable(ctx context.Context, exec sqlx.ExtContext, scope models.TimetableScope) ([]models.TimeSlot, error)
	Create(ctx context.Context, exec sqlx.ExtContext, slot *models.TimeSlot) error
	Update(ctx context.Context, exec sqlx.ExtContext, id string, slot scheduling.Slot, at time.Time) error
	SoftDelete(ctx context.Context, exec sqlx.ExtContext, ids []string, at time.Time) (int64, error)
	SoftDeleteByCourse(ctx context.Context, exec sqlx.ExtContext, scope models.CourseScope, at time.Time) (int64, error)
}

type sessionDateStore interface {
	List(ctx context.Context, exec sqlx.ExtContext, filter models.SessionDateFilter) ([]models.SessionDate, error)
	InsertClassDates(ctx context.Context, exec sqlx.ExtContext, course models.CourseScope, dates []scheduling.Date) ([]models.SessionDate, error)
	DeleteClassDates(ctx context.Context, exec sqlx.ExtContext, course models.CourseScope, dates []scheduling.Date) (int64, error)
	DeleteByCourse(ctx context.Context, exec sqlx.ExtContext, course models.CourseScope) (int64, error)
}

type periodReader interface {
	FindByID(ctx context.Context, academyID, id string) (*models.AcademicPeriod, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, academyID, id string) (*models.Subject, error)
}

type memberRoleReader interface {
	Roles(ctx context.Context, academyID, userID string) ([]models.AcademyRole, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// ScheduleConfig tunes slot validation, date generation and timetable caching.
type ScheduleConfig struct {
	Bounds       scheduling.Bounds
	MaxRangeDays int
	CacheTTL     time.Duration
}

// ScheduleService reconciles course schedules against professor timetables.
type ScheduleService struct {
	db        txProvider
	slots     timeSlotStore
	sessions  sessionDateStore
	periods   periodReader
	subjects  subjectReader
	members   memberRoleReader
	cache     timetableCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    ScheduleConfig
	now       func() time.Time
}

// NewScheduleService wires the schedule service. cache and metrics may be nil.
func NewScheduleService(
	db txProvider,
	slots timeSlotStore,
	sessions sessionDateStore,
	periods periodReader,
	subjects subjectReader,
	members memberRoleReader,
	cache timetableCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	config ScheduleConfig,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Bounds == (scheduling.Bounds{}) {
		config.Bounds = scheduling.DefaultBounds
	}
	return &ScheduleService{
		db:        db,
		slots:     slots,
		sessions:  sessions,
		periods:   periods,
		subjects:  subjects,
		members:   members,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// TimetableCacheKey is the cache key of a professor timetable.
func TimetableCacheKey(scope models.TimetableScope) string {
	return fmt.Sprintf("timetable:%s:%s:%s", scope.AcademyID, scope.PeriodID, scope.ProfessorID)
}

// Reconcile brings the stored schedule of a course to the requested state in one transaction.
func (s *ScheduleService) Reconcile(ctx context.Context, course models.CourseScope, req dto.ReconcileScheduleRequest) (report *models.ReconcileReport, err error) {
	started := time.Now()
	defer func() {
		s.metrics.RecordReconcile(reconcileOutcome(report, err), time.Since(started))
	}()

	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid schedule payload")
	}

	desired, err := s.parseDesired(req.TimeSlots)
	if err != nil {
		return nil, err
	}
	desiredSlots := make([]scheduling.Slot, len(desired))
	for i, d := range desired {
		desiredSlots[i] = d.Slot
	}

	period, subject, err := s.loadCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	if err := s.requireProfessor(ctx, course.TimetableScope); err != nil {
		return nil, err
	}
	template := courseSlot(course, subject)

	if i, j, ok := scheduling.FindInternalOverlap(desiredSlots); ok {
		held := template
		held.ID = desired[i].ID
		held.SetSlot(desiredSlots[i])
		s.metrics.RecordConflicts(1)
		return nil, newConflictError([]models.ScheduleConflict{models.NewScheduleConflict(desiredSlots[j], held)})
	}

	dates, dateRange, skipped, err := s.resolveSessionDates(req, period, scheduling.WeekdaysOf(desiredSlots))
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeError("begin schedule transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.slots.LockTimetable(ctx, tx, course.LockKey()); err != nil {
		return nil, storeError("lock professor timetable", err)
	}

	live, err := s.slots.ListByTimetable(ctx, tx, course.TimetableScope)
	if err != nil {
		return nil, storeError("load professor timetable", err)
	}

	own := make(map[string]models.TimeSlot)
	var stored []scheduling.Stored
	var others []models.TimeSlot
	for _, slot := range live {
		if slot.Subject() == course.SubjectID {
			own[slot.ID] = slot
			stored = append(stored, scheduling.Stored{ID: slot.ID, Slot: slot.WeeklySlot()})
			continue
		}
		others = append(others, slot)
	}

	plan := scheduling.Diff(stored, desired)
	screened := screenCandidates(others, own, plan, template, req.AllowPartial)
	s.metrics.RecordConflicts(len(screened.conflicts))
	if len(screened.conflicts) > 0 && !req.AllowPartial {
		return nil, newConflictError(screened.conflicts)
	}

	at := s.now().UTC()
	deleteIDs := make([]string, len(plan.Delete))
	for i, d := range plan.Delete {
		deleteIDs[i] = d.ID
	}
	if _, err = s.slots.SoftDelete(ctx, tx, deleteIDs, at); err != nil {
		return nil, storeError("delete time slots", err)
	}

	final := make([]models.TimeSlot, 0, len(desired))
	for _, k := range plan.Keep {
		final = append(final, own[k.ID])
	}
	for _, id := range screened.rejected {
		final = append(final, own[id])
	}
	for _, u := range screened.updates {
		if err = s.slots.Update(ctx, tx, u.ID, u.To, at); err != nil {
			return nil, storeError(fmt.Sprintf("update time slot %s", u.To), err)
		}
		row := own[u.ID]
		row.SetSlot(u.To)
		row.UpdatedAt = at
		final = append(final, row)
	}
	for _, slot := range screened.creates {
		row := template
		row.SetSlot(slot)
		if err = s.slots.Create(ctx, tx, &row); err != nil {
			return nil, storeError(fmt.Sprintf("create time slot %s", slot), err)
		}
		final = append(final, row)
	}
	sortTimeSlots(final)

	report = &models.ReconcileReport{
		Created:          len(screened.creates),
		Updated:          len(screened.updates),
		Deleted:          len(plan.Delete),
		Unchanged:        len(plan.Keep),
		Conflicts:        screened.conflicts,
		TimeSlots:        final,
		SessionDates:     []models.SessionDate{},
		SessionDateRange: dateRange,
		SessionsSkipped:  skipped,
	}

	if !skipped {
		if len(screened.conflicts) > 0 {
			dates = onWeekdays(dates, weekdaysOfRows(final))
		}
		sessions, added, removed, syncErr := s.syncSessionDates(ctx, tx, course, dates)
		if syncErr != nil {
			err = syncErr
			return nil, err
		}
		report.SessionDates = sessions
		report.SessionsAdded = added
		report.SessionsRemoved = removed
	}

	if err = tx.Commit(); err != nil {
		return nil, storeError("commit schedule", err)
	}

	switch {
	case len(screened.conflicts) > 0:
		report.Status = models.ReconcileStatusPartial
	case plan.Empty() && report.SessionsAdded == 0 && report.SessionsRemoved == 0:
		report.Status = models.ReconcileStatusUnchanged
	default:
		report.Status = models.ReconcileStatusApplied
	}

	s.metrics.RecordSessionDates(report.SessionsAdded, report.SessionsRemoved)
	s.invalidateTimetable(ctx, course.TimetableScope)
	s.logger.Info("course schedule reconciled",
		zap.String("academy_id", course.AcademyID),
		zap.String("professor_id", course.ProfessorID),
		zap.String("period_id", course.PeriodID),
		zap.String("subject_id", course.SubjectID),
		zap.String("status", string(report.Status)),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("deleted", report.Deleted),
		zap.Int("sessions_added", report.SessionsAdded),
		zap.Int("sessions_removed", report.SessionsRemoved),
		zap.Int("conflicts", len(report.Conflicts)),
	)

	return report, nil
}

// DeleteCourse soft-deletes every slot of the course and removes its session dates.
func (s *ScheduleService) DeleteCourse(ctx context.Context, course models.CourseScope) (result *dto.CourseDeletionResponse, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeError("begin course deletion", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.slots.LockTimetable(ctx, tx, course.LockKey()); err != nil {
		return nil, storeError("lock professor timetable", err)
	}

	slots, err := s.slots.SoftDeleteByCourse(ctx, tx, course, s.now().UTC())
	if err != nil {
		return nil, storeError("delete course time slots", err)
	}

	sessions, err := s.sessions.DeleteByCourse(ctx, tx, course)
	if err != nil {
		return nil, storeError("delete course session dates", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, storeError("commit course deletion", err)
	}

	s.invalidateTimetable(ctx, course.TimetableScope)
	s.logger.Info("course schedule deleted",
		zap.String("professor_id", course.ProfessorID),
		zap.String("subject_id", course.SubjectID),
		zap.Int64("slots", slots),
		zap.Int64("sessions", sessions),
	)

	return &dto.CourseDeletionResponse{SlotsDeleted: slots, SessionsDeleted: sessions}, nil
}

// Timetable returns the live slots of a professor in a period, served from cache when enabled.
func (s *ScheduleService) Timetable(ctx context.Context, scope models.TimetableScope) ([]models.TimeSlot, error) {
	key := TimetableCacheKey(scope)
	if s.cache != nil {
		var cached []models.TimeSlot
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, nil
		}
	}

	start := time.Now()
	slots, err := s.slots.ListByTimetable(ctx, nil, scope)
	s.metrics.ObserveDBQuery("list_timetable", time.Since(start))
	if err != nil {
		return nil, storeError("load professor timetable", err)
	}
	if slots == nil {
		slots = []models.TimeSlot{}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, slots, s.config.CacheTTL)
	}
	return slots, nil
}

// CheckSlot validates one slot and reports the first collision with the professor's timetable.
func (s *ScheduleService) CheckSlot(ctx context.Context, scope models.TimetableScope, req dto.CheckSlotRequest) (*dto.CheckSlotResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid slot payload")
	}

	slot, err := s.parseSlot("slot", req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	live, err := s.slots.ListByTimetable(ctx, nil, scope)
	if err != nil {
		return nil, storeError("load professor timetable", err)
	}

	held := live[:0:0]
	for _, existing := range live {
		if existing.ID != req.ExcludeSlotID {
			held = append(held, existing)
		}
	}

	resp := &dto.CheckSlotResponse{Available: true, Slot: slot}
	if hit, found := scheduling.FindConflict(slot, held); found {
		conflict := models.NewScheduleConflict(slot, hit)
		resp.Available = false
		resp.Conflict = &conflict
		s.metrics.RecordConflicts(1)
	}
	return resp, nil
}

func (s *ScheduleService) parseDesired(inputs []dto.TimeSlotInput) ([]scheduling.Desired, error) {
	desired := make([]scheduling.Desired, 0, len(inputs))
	for i, in := range inputs {
		slot, err := s.parseSlot(fmt.Sprintf("time_slots[%d]", i), in.DayOfWeek, in.StartTime, in.EndTime)
		if err != nil {
			return nil, err
		}
		desired = append(desired, scheduling.Desired{ID: in.ID, Slot: slot})
	}
	return desired, nil
}

func (s *ScheduleService) parseSlot(field string, day int, start, end string) (scheduling.Slot, error) {
	from, err := scheduling.ParseTimeOfDay(start)
	if err != nil {
		return scheduling.Slot{}, invalidTime(field+".start_time", start, err)
	}
	to, err := scheduling.ParseTimeOfDay(end)
	if err != nil {
		return scheduling.Slot{}, invalidTime(field+".end_time", end, err)
	}
	slot := scheduling.Slot{Day: scheduling.Weekday(day), Start: from, End: to}
	if err := scheduling.Validate(slot, s.config.Bounds); err != nil {
		return slot, translateSchedulingError(err)
	}
	return slot, nil
}

func (s *ScheduleService) loadCourse(ctx context.Context, course models.CourseScope) (*models.AcademicPeriod, *models.Subject, error) {
	period, err := s.periods.FindByID(ctx, course.AcademyID, course.PeriodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "academic period not found")
		}
		return nil, nil, storeError("load academic period", err)
	}
	subject, err := s.subjects.FindByID(ctx, course.AcademyID, course.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, nil, storeError("load subject", err)
	}
	return period, subject, nil
}

// requireProfessor checks that the timetable owner teaches in the academy.
func (s *ScheduleService) requireProfessor(ctx context.Context, scope models.TimetableScope) error {
	roles, err := s.members.Roles(ctx, scope.AcademyID, scope.ProfessorID)
	if err != nil {
		return storeError("load professor membership", err)
	}
	for _, role := range roles {
		if role == models.AcademyRoleProfessor {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("professor %s not found in this academy", scope.ProfessorID))
}

// resolveSessionDates picks the desired "clase" dates: explicit dates, else the
// request range, else the period range. skipped is true when none is available.
func (s *ScheduleService) resolveSessionDates(req dto.ReconcileScheduleRequest, period *models.AcademicPeriod, weekdays scheduling.WeekdaySet) (dates []scheduling.Date, rng *models.DateRange, skipped bool, err error) {
	if len(req.SessionDates) > 0 {
		parsed := make([]scheduling.Date, 0, len(req.SessionDates))
		for i, raw := range req.SessionDates {
			d, err := scheduling.ParseDate(raw)
			if err != nil {
				return nil, nil, false, invalidDate(fmt.Sprintf("session_dates[%d]", i), raw, err)
			}
			parsed = append(parsed, d)
		}
		dates, err = scheduling.ValidateSessionDates(parsed, weekdays)
		if err != nil {
			return nil, nil, false, translateSchedulingError(err)
		}
		return dates, &models.DateRange{Start: dates[0], End: dates[len(dates)-1]}, false, nil
	}

	var requested *models.DateRange
	if req.StartDate != "" {
		start, err := scheduling.ParseDate(req.StartDate)
		if err != nil {
			return nil, nil, false, invalidDate("start_date", req.StartDate, err)
		}
		end, err := scheduling.ParseDate(req.EndDate)
		if err != nil {
			return nil, nil, false, invalidDate("end_date", req.EndDate, err)
		}
		if end.Before(start) {
			return nil, nil, false, translateSchedulingError(&scheduling.DateRangeError{
				Kind:    scheduling.KindRangeInverted,
				Message: fmt.Sprintf("end date %s is before start date %s", end, start),
			})
		}
		requested = &models.DateRange{Start: start, End: end}
	}

	if weekdays.Empty() {
		return nil, nil, false, nil
	}

	switch {
	case requested != nil:
		rng = requested
	case period.HasRange():
		rng = &models.DateRange{Start: period.StartDate, End: period.EndDate}
	default:
		return nil, nil, true, nil
	}

	dates, err = scheduling.GenerateSessionDates(rng.Start, rng.End, weekdays, scheduling.GeneratorOptions{MaxDays: s.config.MaxRangeDays})
	if err != nil {
		return nil, nil, false, translateSchedulingError(err)
	}
	return dates, rng, false, nil
}

func (s *ScheduleService) syncSessionDates(ctx context.Context, tx *sqlx.Tx, course models.CourseScope, desired []scheduling.Date) ([]models.SessionDate, int, int, error) {
	stored, err := s.sessions.List(ctx, tx, models.SessionDateFilter{
		PeriodID:  course.PeriodID,
		SubjectID: course.SubjectID,
		ProfileID: course.ProfessorID,
		Types:     []models.SessionDateType{models.SessionDateClass},
	})
	if err != nil {
		return nil, 0, 0, storeError("load session dates", err)
	}

	existing := make([]scheduling.Date, len(stored))
	for i, sd := range stored {
		existing[i] = sd.Date
	}
	toDelete, toInsert := scheduling.DiffDates(existing, desired)

	if _, err := s.sessions.DeleteClassDates(ctx, tx, course, toDelete); err != nil {
		return nil, 0, 0, storeError("delete session dates", err)
	}
	inserted, err := s.sessions.InsertClassDates(ctx, tx, course, toInsert)
	if err != nil {
		return nil, 0, 0, storeError("insert session dates", err)
	}

	removed := make(map[string]bool, len(toDelete))
	for _, d := range toDelete {
		removed[d.String()] = true
	}
	result := make([]models.SessionDate, 0, len(stored)-len(toDelete)+len(inserted))
	for _, sd := range stored {
		if !removed[sd.Date.String()] {
			result = append(result, sd)
		}
	}
	result = append(result, inserted...)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })

	return result, len(toInsert), len(toDelete), nil
}

func (s *ScheduleService) invalidateTimetable(ctx context.Context, scope models.TimetableScope) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, TimetableCacheKey(scope)); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.String("professor_id", scope.ProfessorID), zap.Error(err))
	}
}

type screenResult struct {
	updates   []scheduling.Update
	creates   []scheduling.Slot
	rejected  []string
	conflicts []models.ScheduleConflict
}

// screenCandidates checks updates then creates against the professor's other
// slots, the kept slots of the course and the candidates accepted so far.
// With allowPartial a conflicting update leaves its row in place, so screening
// restarts with that row held.
func screenCandidates(others []models.TimeSlot, own map[string]models.TimeSlot, plan scheduling.Plan, template models.TimeSlot, allowPartial bool) screenResult {
	var rejected []string
	var rejectedConflicts []models.ScheduleConflict

	for {
		res := screenResult{rejected: rejected}
		held := append([]models.TimeSlot(nil), others...)
		for _, k := range plan.Keep {
			held = append(held, own[k.ID])
		}
		skip := make(map[string]bool, len(rejected))
		for _, id := range rejected {
			held = append(held, own[id])
			skip[id] = true
		}

		restart := false
		for _, u := range plan.Update {
			if skip[u.ID] {
				continue
			}
			if hit, found := scheduling.FindConflict(u.To, held); found {
				conflict := models.NewScheduleConflict(u.To, hit)
				if allowPartial {
					rejected = append(rejected, u.ID)
					rejectedConflicts = append(rejectedConflicts, conflict)
					restart = true
					break
				}
				res.conflicts = append(res.conflicts, conflict)
				continue
			}
			row := own[u.ID]
			row.SetSlot(u.To)
			held = append(held, row)
			res.updates = append(res.updates, u)
		}
		if restart {
			continue
		}

		for _, slot := range plan.Create {
			if hit, found := scheduling.FindConflict(slot, held); found {
				res.conflicts = append(res.conflicts, models.NewScheduleConflict(slot, hit))
				continue
			}
			row := template
			row.SetSlot(slot)
			held = append(held, row)
			res.creates = append(res.creates, slot)
		}

		res.conflicts = append(rejectedConflicts, res.conflicts...)
		return res
	}
}

func courseSlot(course models.CourseScope, subject *models.Subject) models.TimeSlot {
	subjectID := course.SubjectID
	return models.TimeSlot{
		AcademyID:   course.AcademyID,
		ProfessorID: course.ProfessorID,
		PeriodID:    course.PeriodID,
		SubjectID:   &subjectID,
		CourseName:  subject.Name,
	}
}

func sortTimeSlots(slots []models.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].WeeklySlot().Less(slots[j].WeeklySlot())
	})
}

func weekdaysOfRows(rows []models.TimeSlot) scheduling.WeekdaySet {
	var set scheduling.WeekdaySet
	for _, r := range rows {
		set = set.Add(r.DayOfWeek)
	}
	return set
}

func onWeekdays(dates []scheduling.Date, weekdays scheduling.WeekdaySet) []scheduling.Date {
	kept := dates[:0:0]
	for _, d := range dates {
		if weekdays.Has(d.Weekday()) {
			kept = append(kept, d)
		}
	}
	return kept
}

func reconcileOutcome(report *models.ReconcileReport, err error) string {
	if err == nil {
		if report == nil {
			return "error"
		}
		return string(report.Status)
	}
	appErr := appErrors.FromError(err)
	switch {
	case appErr.Code == appErrors.ErrScheduleConflict.Code:
		return "conflict"
	case appErr.Status < 500:
		return "invalid"
	default:
		return "error"
	}
}
