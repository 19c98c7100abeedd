/*
daystore.go - Authoritative in-memory planner state

PURPOSE:
  Owns the day map and holiday settings, runs the planning engine, commits
  the result and persists it through the injected Repository.

OPTIMISTIC UPDATES:
  1. Snapshot the current day map (maps are never mutated in place)
  2. Commit the engine's output to memory
  3. Persist the touched days
  4. On failure restore the snapshot, notify, return *PersistenceError

  Days already written before a failure stay written when the repository
  cannot batch. All bundled repositories implement BatchSaver, so a
  multi-day write is all-or-nothing there.

CONCURRENCY:
  Every operation holds the store mutex until persistence returns, so
  mutations on the same day are applied one after another.

REPOSITORY SWITCHING:
  SetRepository replaces the backend; callers follow it with LoadAll.
*/
package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warp/year-planner/internal/log"
)

// =============================================================================
// NOTIFICATIONS
// =============================================================================

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notifier surfaces non-fatal, user-visible outcomes.
type Notifier interface {
	Notify(level NoticeLevel, message string)
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

func (LogNotifier) Notify(level NoticeLevel, message string) {
	log.Info("notify", "level", level, "message", message)
}

// =============================================================================
// DAY STORE
// =============================================================================

type DayStore struct {
	mu       sync.Mutex
	repo     Repository
	notifier Notifier
	holidays []Holiday
	bank     BankHolidaySet
	defaults HolidaySettings
	days     map[string]DayRecord
	settings HolidaySettings
	now      func() time.Time
}

type Option func(*DayStore)

func WithNotifier(n Notifier) Option { return func(s *DayStore) { s.notifier = n } }

// WithHolidays replaces the seed bank-holiday calendar.
func WithHolidays(h []Holiday) Option { return func(s *DayStore) { s.holidays = h } }

// WithDefaultSettings sets the settings used until the repository has some.
func WithDefaultSettings(hs HolidaySettings) Option {
	return func(s *DayStore) { s.defaults = hs }
}

func WithClock(now func() time.Time) Option { return func(s *DayStore) { s.now = now } }

// NewDayStore creates an empty store over repo. Call LoadAll to populate it.
func NewDayStore(repo Repository, opts ...Option) *DayStore {
	s := &DayStore{
		repo:     repo,
		notifier: LogNotifier{},
		holidays: SpanishHolidays,
		now:      time.Now,
		days:     make(map[string]DayRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaults.RolloverExpiryDate == "" {
		s.defaults = DefaultSettings(s.now().Year())
	}
	s.settings = s.defaults
	s.bank = NewBankHolidaySet(s.holidays)
	return s
}

// SetRepository swaps the persistence backend. In-memory state is kept
// until the next LoadAll.
func (s *DayStore) SetRepository(repo Repository) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = repo
}

// =============================================================================
// LOADING
// =============================================================================

// LoadAll replaces in-memory state with the repository contents. Stored
// vacation flags are ignored and re-derived from the plans.
func (s *DayStore) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo == nil {
		return ErrNoRepository
	}

	records, err := s.repo.GetAllDayRecords(ctx)
	if err != nil {
		return s.loadFailed(err)
	}
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return s.loadFailed(err)
	}

	days := make(map[string]DayRecord, len(records))
	for date, rec := range records {
		if rec.Date == "" {
			rec.Date = date
		}
		if rec.Plans == nil {
			rec.Plans = []Plan{}
		}
		days[date] = rec.Clone().Derive()
	}

	s.days = days
	if settings != nil {
		s.settings = *settings
	} else {
		s.settings = s.defaults
	}
	log.Info("planner data loaded", "days", len(days))
	return nil
}

func (s *DayStore) loadFailed(err error) error {
	log.Error("failed to load data", err)
	s.notifier.Notify(NoticeError, "Failed to load data.")
	return &PersistenceError{Op: "load data", Err: err}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// AddPlan adds a single-day plan to date.
func (s *DayStore) AddPlan(ctx context.Context, date string, p Plan) error {
	if _, err := ValidateDate("date", date); err != nil {
		return err
	}
	if err := ValidatePlan(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p = s.stamp(p)
	day := AddToDay(date, p, s.days)
	return s.apply(ctx, "add plan", map[string]DayRecord{date: day},
		"Plan added successfully", "Failed to add plan. Please try again.")
}

// AddMultiDayRange adds base to every day in [start, end].
func (s *DayStore) AddMultiDayRange(ctx context.Context, start, end Date, base Plan) error {
	if err := ValidatePlan(base); err != nil {
		return err
	}
	if err := checkSpan(start, end); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base = s.stamp(base)
	updates := ExpandRange(base, start, end, s.days)
	return s.apply(ctx, "add multi-day plan", updates,
		"Multi-day plan added", "Failed to add multi-day plan.")
}

// RemovePlan removes a plan from date. Plans belonging to a group are
// removed from every day of the group.
func (s *DayStore) RemovePlan(ctx context.Context, date, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.days[date]
	if !ok {
		return ErrPlanNotFound
	}
	target, ok := day.FindPlan(planID)
	if !ok {
		return ErrPlanNotFound
	}

	var updates map[string]DayRecord
	if target.GroupID != "" {
		updates = RemoveGroup(target.GroupID, s.days)
	} else {
		updated, _ := RemoveFromDay(day, planID)
		updates = map[string]DayRecord{date: updated}
	}
	return s.apply(ctx, "remove plan", updates, "Plan removed", "Failed to remove plan.")
}

// EditPlan replaces the logical plan behind original with newData over
// [newStart, newEnd]. The edited plan always receives a new group id, which
// is returned.
func (s *DayStore) EditPlan(ctx context.Context, original Plan, newStart, newEnd Date, newData Plan) (string, error) {
	if err := ValidatePlan(newData); err != nil {
		return "", err
	}
	if err := checkSpan(newStart, newEnd); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := EditGroup(original, newStart, newEnd, newData, s.days)
	if !ok {
		return "", ErrPlanNotFound
	}
	if err := s.apply(ctx, "edit plan", result.Updates, "Plan updated", "Failed to update plan."); err != nil {
		return "", err
	}
	log.Debug("plan regrouped", "old_group", result.OldGroupID, "new_group", result.NewGroupID)
	return result.NewGroupID, nil
}

// UpdateSettings replaces the holiday settings.
func (s *DayStore) UpdateSettings(ctx context.Context, settings HolidaySettings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo == nil {
		return ErrNoRepository
	}
	previous := s.settings
	s.settings = settings
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		s.settings = previous
		log.Error("failed to save settings", err)
		s.notifier.Notify(NoticeError, "Failed to save settings.")
		return &PersistenceError{Op: "update settings", Err: err}
	}
	s.notifier.Notify(NoticeSuccess, "Settings saved")
	return nil
}

// Reset wipes the repository and the in-memory state. Repositories that
// are not Resetters are left untouched and ErrResetUnsupported is returned.
func (s *DayStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo == nil {
		return ErrNoRepository
	}
	r, ok := s.repo.(Resetter)
	if !ok {
		return ErrResetUnsupported
	}
	if err := r.Reset(ctx); err != nil {
		return &PersistenceError{Op: "reset", Err: err}
	}
	s.days = make(map[string]DayRecord)
	s.settings = s.defaults
	log.Info("planner data reset")
	return nil
}

// apply commits updates, persists them and rolls back on failure.
// Caller holds s.mu.
func (s *DayStore) apply(ctx context.Context, op string, updates map[string]DayRecord, okMsg, failMsg string) error {
	if s.repo == nil {
		return ErrNoRepository
	}
	if len(updates) == 0 {
		return nil
	}

	previous := s.days
	s.days = MergeDays(s.days, updates)

	if err := s.persist(ctx, updates); err != nil {
		s.days = previous
		log.Error("persist failed, state rolled back", err, "op", op, "days", len(updates))
		s.notifier.Notify(NoticeError, failMsg)
		return &PersistenceError{Op: op, Err: err}
	}

	log.Debug("persisted", "op", op, "days", len(updates))
	s.notifier.Notify(NoticeSuccess, okMsg)
	return nil
}

func (s *DayStore) persist(ctx context.Context, updates map[string]DayRecord) error {
	records := SortedRecords(updates)
	if batch, ok := s.repo.(BatchSaver); ok {
		return batch.SaveDayRecords(ctx, records)
	}
	for _, rec := range records {
		if err := s.repo.SaveDayRecord(ctx, rec); err != nil {
			return fmt.Errorf("save %s: %w", rec.Date, err)
		}
	}
	return nil
}

// stamp fills in the id and creation time of a new plan.
func (s *DayStore) stamp(p Plan) Plan {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = s.now().UnixMilli()
	}
	return p
}

// =============================================================================
// READS
// =============================================================================

// Day returns the record for date, or an empty record.
func (s *DayStore) Day(date string) DayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.days[date]; ok {
		return d.Clone()
	}
	return EmptyDay(date)
}

// Days returns a copy of every record.
func (s *DayStore) Days() map[string]DayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CloneDays(s.days)
}

// FindPlan looks up a plan instance on date.
func (s *DayStore) FindPlan(date, planID string) (Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days[date].FindPlan(planID)
}

func (s *DayStore) Settings() HolidaySettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *DayStore) Holidays() []Holiday {
	return s.holidays
}

func (s *DayStore) Consolidated() []ConsolidatedPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Consolidate(s.days)
}

// PlanRange returns the date span of p's group.
func (s *DayStore) PlanRange(p Plan) (start, end string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PlanRange(p, s.days)
}

func (s *DayStore) VacationDaysUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return VacationDaysUsed(s.days, s.bank)
}

func (s *DayStore) Allowance() AllowanceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Allowance(s.settings, VacationDaysUsed(s.days, s.bank), DateOf(s.now()))
}

// Upcoming lists events for the n days starting today.
func (s *DayStore) Upcoming(n int, includeBankHolidays bool) []UpcomingDay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Upcoming(s.days, s.bank, DateOf(s.now()), n, includeBankHolidays)
}

// Search delegates to the active repository.
func (s *DayStore) Search(ctx context.Context, query string) ([]Plan, error) {
	s.mu.Lock()
	repo := s.repo
	s.mu.Unlock()

	if repo == nil {
		return nil, ErrNoRepository
	}
	plans, err := repo.SearchPlans(ctx, query)
	if err != nil {
		return nil, &PersistenceError{Op: "search plans", Err: err}
	}
	return plans, nil
}
