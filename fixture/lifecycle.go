package fixture

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kbukum/fixkit/logger"
)

// Scope determines whether loaded fixture data is torn down after every test
// or retained until the owning test class finishes.
type Scope int

const (
	ScopePerTest Scope = iota
	ScopePerClass
)

func (s Scope) String() string {
	if s == ScopePerClass {
		return "per-class"
	}
	return "per-test"
}

// state is the lifecycle state machine position.
type state int

const (
	stateIdle state = iota
	stateLoading
	stateLoaded
	stateTearingDown
)

func (s state) String() string {
	switch s {
	case stateLoading:
		return "loading"
	case stateLoaded:
		return "loaded"
	case stateTearingDown:
		return "tearing-down"
	default:
		return "idle"
	}
}

const testSavepoint = "fixkit_test"

// Manager owns the fixture session state: the bound database handle, the
// open transaction, and the active load scope. It is the explicit-context
// replacement for process-global session state; the test harness constructs
// one Manager per database and threads it through setup/teardown.
//
// A Manager serves exactly one test-execution context at a time. It performs
// no locking: the host runner's sequencing is the scheduler, and parallel
// test workers must each own an independent Manager and connection.
type Manager struct {
	db        *gorm.DB
	cfg       Config
	reg       *Registry
	log       *logger.Logger
	resolver  *Resolver
	sessionID string

	st          state
	activeScope Scope
	tx          *gorm.DB // open transaction (rollback strategy only)
	testLoaded  bool     // a per-test load is nested inside a class scope
	classTables []string // tables touched by class fixtures (truncate strategy)
	testTables  []string // tables touched by per-test fixtures (truncate strategy)
	rowsClass   int
	rowsTest    int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for load/teardown events.
func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithRegistry shares a pre-populated model registry.
func WithRegistry(reg *Registry) Option {
	return func(m *Manager) { m.reg = reg }
}

// WithFileSystem overrides the resolver's file probing.
func WithFileSystem(fs FileSystem) Option {
	return func(m *Manager) { m.resolver.FS = fs }
}

// NewManager binds a fixture engine to an open database handle.
func NewManager(db *gorm.DB, cfg Config, opts ...Option) (*Manager, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		db:        db,
		cfg:       cfg,
		reg:       NewRegistry(),
		log:       logger.Nop(),
		resolver:  NewResolver(cfg.SearchDirs()...),
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithComponent("fixture").WithFields(map[string]interface{}{
		logger.FieldSessionID: m.sessionID,
	})
	return m, nil
}

// Registry returns the model registry for this manager.
func (m *Manager) Registry() *Registry { return m.reg }

// DB returns the session tests should query to observe fixture state: the
// open transaction while one exists, the base handle otherwise. Under the
// rollback strategy loaded rows only exist inside the transaction, so reads
// through the base handle would not see them.
func (m *Manager) DB() *gorm.DB {
	if m.tx != nil {
		return m.tx
	}
	return m.db
}

// RowsLoaded returns the rows and instances persisted by the active scopes.
func (m *Manager) RowsLoaded() int { return m.rowsClass + m.rowsTest }

// Setup resolves, parses, and materializes the named fixtures inside a fresh
// transaction boundary for the given scope. See SetupContext.
func (m *Manager) Setup(names []string, scope Scope) error {
	return m.SetupContext(context.Background(), names, scope)
}

// SetupContext is Setup with a caller-supplied context for the database
// operations.
//
// Valid entry states: idle, or loaded when a class scope is active — a
// repeated per-class call is a no-op (the next test in the same class), and a
// per-test call nests underneath the class data. Any failure while loading
// aborts the transaction boundary so partial loads are never left visible,
// and the originating error propagates.
func (m *Manager) SetupContext(ctx context.Context, names []string, scope Scope) error {
	switch m.st {
	case stateIdle:
		// fresh scope
	case stateLoaded:
		if m.activeScope != ScopePerClass {
			return &LifecycleError{Op: "setup", State: m.st.String(), Reason: "previous per-test fixtures were not torn down"}
		}
		if scope == ScopePerClass {
			return nil
		}
		if m.testLoaded {
			return &LifecycleError{Op: "setup", State: m.st.String(), Reason: "per-test fixtures already loaded in this class scope"}
		}
		return m.setupNested(ctx, names)
	default:
		return &LifecycleError{Op: "setup", State: m.st.String()}
	}

	m.st = stateLoading
	m.log.Debug("loading fixtures", logger.Fields(
		logger.FieldScope, scope.String(), "fixtures", names))

	var rows int
	var tables []string
	var err error
	if m.cfg.Teardown == TeardownTruncate {
		err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var txErr error
			rows, tables, txErr = m.loadFiles(tx, names)
			return txErr
		})
	} else {
		tx := m.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			m.st = stateIdle
			return fmt.Errorf("begin fixture transaction: %w", tx.Error)
		}
		rows, tables, err = m.loadFiles(tx, names)
		if err != nil {
			tx.Rollback()
		} else {
			m.tx = tx
		}
	}
	if err != nil {
		m.st = stateIdle
		m.log.Error("fixture setup failed", logger.ErrorFields("setup", err))
		return err
	}

	m.st = stateLoaded
	m.activeScope = scope
	if scope == ScopePerClass {
		m.rowsClass = rows
		m.classTables = tables
	} else {
		m.rowsTest = rows
		m.testTables = tables
	}
	m.log.Info("fixtures loaded", logger.Fields(
		logger.FieldScope, scope.String(), logger.FieldRows, rows))
	return nil
}

// setupNested loads per-test fixtures inside an already-loaded class scope.
// Under the rollback strategy this opens a savepoint on the class
// transaction; under truncate it commits a separate load whose tables are
// deleted at the per-test boundary. In the latter case per-test fixtures must
// not share tables with the class fixtures, or the per-test teardown would
// take the class rows with it.
func (m *Manager) setupNested(ctx context.Context, names []string) error {
	m.st = stateLoading

	var rows int
	var tables []string
	var err error
	if m.cfg.Teardown == TeardownTruncate {
		err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var txErr error
			rows, tables, txErr = m.loadFiles(tx, names)
			return txErr
		})
	} else {
		if spErr := m.tx.SavePoint(testSavepoint).Error; spErr != nil {
			m.st = stateLoaded
			return fmt.Errorf("open per-test savepoint: %w", spErr)
		}
		rows, _, err = m.loadFiles(m.tx.WithContext(ctx), names)
		if err != nil {
			m.tx.RollbackTo(testSavepoint)
		}
	}
	if err != nil {
		m.st = stateLoaded
		m.log.Error("fixture setup failed", logger.ErrorFields("setup", err))
		return err
	}

	m.st = stateLoaded
	m.testLoaded = true
	m.rowsTest = rows
	m.testTables = tables
	m.log.Info("fixtures loaded", logger.Fields(
		logger.FieldScope, ScopePerTest.String(), logger.FieldRows, rows))
	return nil
}

// Teardown discards the data loaded for the given scope. See TeardownContext.
func (m *Manager) Teardown(scope Scope) error {
	return m.TeardownContext(context.Background(), scope)
}

// TeardownContext rolls back (or truncates) the given scope's data. Per-test
// teardown inside a class scope only discards the nested per-test load; the
// class data stays loaded until the class's own teardown. Calls made in any
// state other than loaded fail with *LifecycleError.
func (m *Manager) TeardownContext(ctx context.Context, scope Scope) error {
	if m.st != stateLoaded {
		return &LifecycleError{Op: "teardown", State: m.st.String()}
	}
	if scope == ScopePerClass && m.testLoaded {
		return &LifecycleError{Op: "teardown", State: m.st.String(), Reason: "per-test fixtures still loaded; tear them down first"}
	}
	if scope == ScopePerClass && m.activeScope != ScopePerClass {
		return &LifecycleError{Op: "teardown", State: m.st.String(), Reason: "no class scope is active"}
	}
	if scope == ScopePerTest && m.activeScope == ScopePerClass && !m.testLoaded {
		return &LifecycleError{Op: "teardown", State: m.st.String(), Reason: "no per-test fixtures are loaded in this class scope"}
	}

	m.st = stateTearingDown

	// Nested per-test teardown: discard only the savepoint/test tables and
	// return to the loaded class scope.
	if scope == ScopePerTest && m.activeScope == ScopePerClass {
		var err error
		if m.cfg.Teardown == TeardownTruncate {
			err = m.truncateTables(ctx, m.testTables)
		} else if rbErr := m.tx.RollbackTo(testSavepoint).Error; rbErr != nil {
			err = fmt.Errorf("rollback per-test savepoint: %w", rbErr)
		}
		if err != nil {
			m.st = stateLoaded
			return err
		}
		m.testLoaded = false
		m.testTables = nil
		m.rowsTest = 0
		m.st = stateLoaded
		m.log.Debug("per-test fixtures discarded", logger.Fields(logger.FieldScope, scope.String()))
		return nil
	}

	// Top-level teardown: the whole scope comes down and we return to idle.
	var err error
	if m.cfg.Teardown == TeardownTruncate {
		tables := append(append([]string(nil), m.classTables...), m.testTables...)
		err = m.truncateTables(ctx, tables)
	} else if rbErr := m.tx.Rollback().Error; rbErr != nil {
		err = fmt.Errorf("rollback fixture transaction: %w", rbErr)
	}
	if err != nil {
		m.st = stateLoaded
		return err
	}

	m.tx = nil
	m.testLoaded = false
	m.classTables = nil
	m.testTables = nil
	m.rowsClass = 0
	m.rowsTest = 0
	m.st = stateIdle
	m.log.Info("fixtures discarded", logger.Fields(logger.FieldScope, scope.String()))
	return nil
}

// loadFiles resolves, parses, and materializes every named fixture in
// declared order. File order and group order are correctness requirements:
// a later group may reference rows inserted by an earlier one.
func (m *Manager) loadFiles(tx *gorm.DB, names []string) (int, []string, error) {
	total := 0
	var tables []string
	seen := make(map[string]bool)

	for _, name := range names {
		path, err := m.resolver.Resolve(name)
		if err != nil {
			return total, tables, err
		}
		file, err := ParseFile(path)
		if err != nil {
			return total, tables, err
		}
		for _, group := range file.Groups {
			n, table, err := materializeGroup(tx, m.reg, group)
			if err != nil {
				return total, tables, fmt.Errorf("fixture %s: %w", file.Name, err)
			}
			total += n
			if table != "" && !seen[table] {
				seen[table] = true
				tables = append(tables, table)
			}
			m.log.Debug("record group loaded", logger.Fields(
				logger.FieldFixture, file.Name, "target", group.Target(), logger.FieldRows, n))
		}
	}
	return total, tables, nil
}

// truncateTables deletes from the touched tables in reverse-touch order, so
// referencing rows go before the rows they point at.
func (m *Manager) truncateTables(ctx context.Context, tables []string) error {
	db := m.db.WithContext(ctx)
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", tables[i])).Error; err != nil {
			return fmt.Errorf("truncate table %s: %w", tables[i], err)
		}
	}
	return nil
}
