// Package fixture loads declarative test data into a relational database
// before a test runs and restores the database afterward.
//
// Fixture files are YAML or JSON documents holding an ordered list of record
// groups. Each group targets either a raw table (bulk insert, bypassing model
// hooks) or a registered model type (per-instance insert through GORM, so
// defaults and associations apply):
//
//	- table: authors
//	  records:
//	    - {id: 1, name: "Ursula K. Le Guin"}
//	- model: Book
//	  records:
//	    - {title: "A Wizard of Earthsea", author_id: 1}
//
// A Manager owns the database session state and wraps every load in a
// transaction boundary. Per-test fixtures are rolled back after each test;
// per-class fixtures stay loaded until the owning test class finishes, with
// per-test loads nested in savepoints underneath.
//
//	mgr, err := fixture.NewManager(db, fixture.Config{Dirs: []string{"testdata"}})
//	mgr.Registry().Register("Book", Book{})
//
//	func TestBooks(t *testing.T) {
//	    fixture.Bind(t, mgr, "authors", "books")
//	    // query through mgr.DB() to observe the loaded rows
//	}
//
// The suitefix subpackage adapts the same lifecycle to testify suites, and
// Run adapts it to TestMain.
package fixture
