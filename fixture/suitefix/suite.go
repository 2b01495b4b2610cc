package suitefix

import (
	"github.com/stretchr/testify/suite"

	"github.com/kbukum/fixkit/fixture"
)

// Suite wires a fixture.Manager into testify's suite lifecycle. It contains
// no logic of its own beyond mapping hook points onto Manager scopes.
type Suite struct {
	suite.Suite

	// Manager is the fixture engine bound to the test database. Required.
	Manager *fixture.Manager
	// ClassFixtures load once for the whole suite (per-class scope).
	ClassFixtures []string
	// Fixtures load before and roll back after every test (per-test scope).
	Fixtures []string
}

// SetupSuite loads the class fixtures. Failure aborts the entire suite.
func (s *Suite) SetupSuite() {
	s.Require().NotNil(s.Manager, "suitefix: Manager must be set before suite.Run")
	if len(s.ClassFixtures) == 0 {
		return
	}
	s.Require().NoError(s.Manager.Setup(s.ClassFixtures, fixture.ScopePerClass))
}

// TearDownSuite discards the class fixtures after the last test.
func (s *Suite) TearDownSuite() {
	if len(s.ClassFixtures) == 0 {
		return
	}
	s.Require().NoError(s.Manager.Teardown(fixture.ScopePerClass))
}

// SetupTest loads the per-test fixtures. With class fixtures present the load
// nests inside the class scope, so class data stays visible.
func (s *Suite) SetupTest() {
	if len(s.Fixtures) == 0 {
		if len(s.ClassFixtures) > 0 {
			// Re-entry marker for the next test in the same class scope.
			s.Require().NoError(s.Manager.Setup(s.ClassFixtures, fixture.ScopePerClass))
		}
		return
	}
	s.Require().NoError(s.Manager.Setup(s.Fixtures, fixture.ScopePerTest))
}

// TearDownTest discards the per-test fixtures; class data is untouched.
func (s *Suite) TearDownTest() {
	if len(s.Fixtures) == 0 {
		return
	}
	s.Require().NoError(s.Manager.Teardown(fixture.ScopePerTest))
}
