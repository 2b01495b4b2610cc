package fixture

// Record maps field names to scalar values for one row or model instance.
type Record map[string]interface{}

// Keys returns the record's field names in unspecified order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	return keys
}

// RecordGroup is a list of records targeting either a raw table or a
// registered model type. Exactly one of Table and Model is set; the parser
// rejects anything else.
type RecordGroup struct {
	Table   string
	Model   string
	Records []Record
}

// Target returns the table or model name the group inserts against.
func (g RecordGroup) Target() string {
	if g.Table != "" {
		return g.Table
	}
	return g.Model
}

// File is one parsed fixture file. It is a transient value object: produced
// by the parser, consumed by a single load, and discarded.
type File struct {
	// Name is the base name of the file the groups were parsed from.
	Name string
	// Groups load strictly in file order, so later groups may reference rows
	// inserted by earlier ones.
	Groups []RecordGroup
}

// RecordCount returns the total number of records across all groups.
func (f *File) RecordCount() int {
	n := 0
	for _, g := range f.Groups {
		n += len(g.Records)
	}
	return n
}
