package fixture

import (
	"testing"

	"github.com/kbukum/fixkit/logger"
)

// TestingT is the subset of *testing.T the adapters need.
type TestingT interface {
	Helper()
	Cleanup(func())
	Fatalf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Bind loads the named fixtures for one test and registers the matching
// per-test teardown with the test's cleanup hook. A load failure fails the
// calling test immediately.
func Bind(t TestingT, m *Manager, names ...string) {
	t.Helper()
	bind(t, m, ScopePerTest, names)
}

// BindClass loads the named fixtures for a whole test class (a test function
// running subtests) and registers the class teardown. Subtests load their own
// per-test fixtures with Bind; their cleanups run before the class cleanup,
// so the scopes unwind in the right order.
func BindClass(t TestingT, m *Manager, names ...string) {
	t.Helper()
	bind(t, m, ScopePerClass, names)
}

func bind(t TestingT, m *Manager, scope Scope, names []string) {
	t.Helper()
	if err := m.Setup(names, scope); err != nil {
		t.Fatalf("fixture setup (%s) failed: %v", scope, err)
	}
	t.Cleanup(func() {
		if err := m.Teardown(scope); err != nil {
			t.Errorf("fixture teardown (%s) failed: %v", scope, err)
		}
	})
}

// Run wraps a package's test run ("test collector" convention) with
// class-scoped fixtures around m.Run. Use from TestMain:
//
//	func TestMain(m *testing.M) {
//	    os.Exit(fixture.Run(m, mgr, "authors", "books"))
//	}
//
// A setup failure aborts the whole run with a non-zero exit code, since every
// collected test depends on the class data.
func Run(m *testing.M, mgr *Manager, classFixtures ...string) int {
	if err := mgr.Setup(classFixtures, ScopePerClass); err != nil {
		logger.NewFromEnv("fixkit").Error("class fixture setup failed", logger.ErrorFields("setup", err))
		return 1
	}
	code := m.Run()
	if err := mgr.Teardown(ScopePerClass); err != nil {
		logger.NewFromEnv("fixkit").Error("class fixture teardown failed", logger.ErrorFields("teardown", err))
		if code == 0 {
			code = 1
		}
	}
	return code
}
