// Package suitefix adapts the fixture lifecycle to testify suites.
//
// Embed Suite, point it at a Manager, and declare fixture lists; the suite's
// native hook points drive setup and teardown with the right scopes:
//
//	type BookSuite struct {
//	    suitefix.Suite
//	}
//
//	func TestBookSuite(t *testing.T) {
//	    s := &BookSuite{}
//	    s.Manager = mgr
//	    s.ClassFixtures = []string{"authors"}
//	    s.Fixtures = []string{"books"}
//	    suite.Run(t, s)
//	}
//
// ClassFixtures load once in SetupSuite and persist across the suite's tests;
// Fixtures load in SetupTest and roll back in TearDownTest. A ClassFixtures
// setup failure aborts the entire suite.
package suitefix
