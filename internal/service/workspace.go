package service

import (
	"fmt"
	"sync"
	"time"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"
	"shift-planner-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// Repositories - хранилища, с которыми работает рабочее пространство
type Repositories struct {
	Shifts          repository.ShiftRepository
	Absences        repository.AbsenceRepository
	AbsenceTypes    repository.AbsenceTypeRepository
	SpecialDays     repository.SpecialDayRepository
	SpecialDayTypes repository.SpecialDayTypeRepository
	Employees       repository.EmployeeRepository
	InboxMessages   repository.InboxMessageRepository
	Locations       repository.LocationRepository
	Departments     repository.DepartmentRepository
	Roles           repository.RoleRepository
}

// RepositoriesFromStore берет репозитории из общего хранилища
func RepositoriesFromStore(store *repository.Store) Repositories {
	return Repositories{
		Shifts:          store.Shifts,
		Absences:        store.Absences,
		AbsenceTypes:    store.AbsenceTypes,
		SpecialDays:     store.SpecialDays,
		SpecialDayTypes: store.SpecialDayTypes,
		Employees:       store.Employees,
		InboxMessages:   store.InboxMessages,
		Locations:       store.Locations,
		Departments:     store.Departments,
		Roles:           store.Roles,
	}
}

type WorkspaceOptions struct {
	CompanyID      string
	Plan           models.Plan
	EarlyWindow    time.Duration
	AutoCloseGrace time.Duration
	UndoLimit      int
	Clock          func() time.Time
}

// Workspace держит снимок данных компании в памяти.
// Изменения сначала сохраняются в хранилище и только потом попадают в снимок.
type Workspace struct {
	mu     sync.Mutex
	snap   *engine.Snapshot
	locked bool
	undo   *engine.UndoBuffer

	companyID string
	caps      models.Capabilities
	policy    engine.ClockPolicy
	clock     func() time.Time
	repos     Repositories
	logger    *logrus.Logger
}

func NewWorkspace(repos Repositories, opts WorkspaceOptions) *Workspace {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	plan := opts.Plan
	if plan == "" {
		plan = models.PlanProPlus
	}

	caps := plan.Capabilities()
	policy := engine.DefaultClockPolicy(caps)
	if opts.EarlyWindow > 0 {
		policy.EarlyWindow = opts.EarlyWindow
	}
	if opts.AutoCloseGrace > 0 {
		policy.AutoCloseGrace = opts.AutoCloseGrace
	}

	return &Workspace{
		snap:      &engine.Snapshot{CompanyID: opts.CompanyID},
		undo:      engine.NewUndoBuffer(opts.UndoLimit),
		companyID: opts.CompanyID,
		caps:      caps,
		policy:    policy,
		clock:     clock,
		repos:     repos,
		logger:    newLogger(),
	}
}

// Load читает все данные компании из хранилища
func (w *Workspace) Load() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := &engine.Snapshot{CompanyID: w.companyID}
	var err error

	if snap.AbsenceTypes, err = w.repos.AbsenceTypes.SeedDefaults(w.companyID); err != nil {
		return fmt.Errorf("load absence types: %w", err)
	}
	if snap.Shifts, err = w.repos.Shifts.GetByCompany(w.companyID); err != nil {
		return fmt.Errorf("load shifts: %w", err)
	}
	if snap.Absences, err = w.repos.Absences.GetByCompany(w.companyID); err != nil {
		return fmt.Errorf("load absences: %w", err)
	}
	if snap.SpecialDays, err = w.repos.SpecialDays.GetByCompany(w.companyID); err != nil {
		return fmt.Errorf("load special days: %w", err)
	}
	if snap.SpecialDayTypes, err = w.repos.SpecialDayTypes.GetByCompany(w.companyID); err != nil {
		return fmt.Errorf("load special day types: %w", err)
	}
	if snap.Employees, err = w.repos.Employees.GetByCompany(w.companyID); err != nil {
		return fmt.Errorf("load employees: %w", err)
	}
	if snap.InboxMessages, err = w.repos.InboxMessages.GetByCompany(w.companyID); err != nil {
		return fmt.Errorf("load inbox: %w", err)
	}
	if snap.Locations, err = w.repos.Locations.GetByCompany(w.companyID); err != nil {
		return fmt.Errorf("load locations: %w", err)
	}
	if snap.Departments, err = w.repos.Departments.GetByCompany(w.companyID); err != nil {
		return fmt.Errorf("load departments: %w", err)
	}
	if snap.Roles, err = w.repos.Roles.GetByCompany(w.companyID); err != nil {
		return fmt.Errorf("load roles: %w", err)
	}

	w.snap = snap
	w.logger.WithFields(logrus.Fields{
		"company_id": w.companyID,
		"shifts":     len(snap.Shifts),
		"employees":  len(snap.Employees),
		"absences":   len(snap.Absences),
	}).Info("Workspace loaded")
	return nil
}

// Snapshot возвращает копию текущего снимка
func (w *Workspace) Snapshot() *engine.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snap.Clone()
}

func (w *Workspace) Capabilities() models.Capabilities {
	return w.caps
}

func (w *Workspace) ClockPolicy() engine.ClockPolicy {
	return w.policy
}

func (w *Workspace) CompanyID() string {
	return w.companyID
}

// Now - текущее время рабочего пространства
func (w *Workspace) Now() time.Time {
	return w.clock()
}

// SetLocked включает или выключает режим только для чтения
func (w *Workspace) SetLocked(locked bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.locked = locked
	w.logger.WithField("locked", locked).Info("Calendar lock changed")
}

func (w *Workspace) IsLocked() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.locked
}

// UndoDepth - сколько изменений можно отменить
func (w *Workspace) UndoDepth() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.undo.Len()
}

func (w *Workspace) mutationOptions() engine.MutationOptions {
	return engine.MutationOptions{Locked: w.locked, Now: w.clock()}
}

// mutateShifts применяет изменение смен: сначала хранилище, потом снимок
func (w *Workspace) mutateShifts(op string, mutate func(*engine.Snapshot, engine.MutationOptions) (*engine.Mutation, error)) (*engine.Mutation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	opts := w.mutationOptions()
	next, m, err := engine.Apply(w.snap, func(s *engine.Snapshot) (*engine.Mutation, error) {
		return mutate(s, opts)
	}, func(m *engine.Mutation) error {
		return w.persist(op, m)
	})
	if err != nil {
		w.logger.WithError(err).WithField("op", op).Warn("Shift mutation rejected")
		return nil, err
	}

	if m != nil && !m.Empty() {
		w.snap = next
		w.undo.Push(engine.Inverse(m))
		w.logger.WithFields(logrus.Fields{
			"op":      op,
			"created": len(m.Created),
			"updated": len(m.Updated),
			"deleted": len(m.Deleted),
		}).Info("Shift mutation applied")
	}
	return m, nil
}

func (w *Workspace) persist(op string, m *engine.Mutation) error {
	if err := w.repos.Shifts.ApplyChanges(m.Created, m.Updated, m.Deleted); err != nil {
		return &engine.PersistenceError{Op: op, Err: err}
	}
	return nil
}

// Undo отменяет последнее изменение смен
func (w *Workspace) Undo() (*engine.Mutation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.locked {
		return nil, engine.ErrLockedCalendar
	}
	entry, ok := w.undo.Pop()
	if !ok {
		return nil, ErrNothingToUndo
	}

	m, err := engine.Revert(w.snap, entry, w.clock())
	if err != nil {
		w.undo.Push(entry)
		w.logger.WithError(err).Warn("Undo rejected")
		return nil, err
	}
	if err := w.persist("undo", m); err != nil {
		w.undo.Push(entry)
		w.logger.WithError(err).Error("Failed to undo shift mutation")
		return nil, err
	}

	w.snap = w.snap.WithShifts(m.After)
	w.logger.WithFields(logrus.Fields{
		"created": len(m.Created),
		"updated": len(m.Updated),
		"deleted": len(m.Deleted),
	}).Info("Shift mutation undone")
	return m, nil
}

// resetUndo сбрасывает историю, когда записи отмены ссылаются на удаленные данные
func (w *Workspace) resetUndo() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.undo.Clear()
}

// update выполняет fn над снимком под блокировкой
func (w *Workspace) update(fn func(s *engine.Snapshot) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.snap)
}

// modify меняет снимок под блокировкой, когда изменение не может завершиться ошибкой
func (w *Workspace) modify(fn func(s *engine.Snapshot)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.snap)
}

// replaceShift подменяет одну смену в снимке
func replaceShift(s *engine.Snapshot, shift *models.Shift) {
	for i, sh := range s.Shifts {
		if sh.ID == shift.ID {
			shifts := append([]*models.Shift(nil), s.Shifts...)
			shifts[i] = shift
			s.Shifts = shifts
			return
		}
	}
}
