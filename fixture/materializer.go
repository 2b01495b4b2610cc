package fixture

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// schemaCache memoizes parsed model schemas across loads.
var schemaCache = &sync.Map{}

// materializeGroup persists one record group on the given transaction handle.
// It returns the number of rows or instances written and the database table
// that received them. Every insert executes immediately on tx, so groups
// loaded later in the same file observe these rows.
func materializeGroup(tx *gorm.DB, reg *Registry, group RecordGroup) (int, string, error) {
	if group.Table != "" {
		n, err := materializeTable(tx, group)
		return n, group.Table, err
	}
	return materializeModels(tx, reg, group)
}

// materializeTable bulk-inserts a homogeneous group as one statement. This
// path bypasses model hooks and defaults; that is the documented contract of
// table-targeted groups, trading model-level behavior for insert throughput.
func materializeTable(tx *gorm.DB, group RecordGroup) (int, error) {
	if len(group.Records) == 0 {
		return 0, nil
	}
	if !tx.Migrator().HasTable(group.Table) {
		return 0, fmt.Errorf("table %q does not exist in the bound schema", group.Table)
	}

	reference := group.Records[0]
	for i, rec := range group.Records[1:] {
		if !sameKeys(reference, rec) {
			return 0, &HeterogeneousRecordsError{Table: group.Table, Index: i + 1}
		}
	}

	rows := make([]map[string]interface{}, len(group.Records))
	for i, rec := range group.Records {
		rows[i] = map[string]interface{}(rec)
	}
	if err := tx.Table(group.Table).Create(rows).Error; err != nil {
		return 0, fmt.Errorf("bulk insert into %q: %w", group.Table, err)
	}
	return len(rows), nil
}

// materializeModels builds and persists each record as an individual model
// instance, so GORM hooks, defaults, and associations apply. Records may be
// heterogeneous because each one is decoded and inserted independently.
func materializeModels(tx *gorm.DB, reg *Registry, group RecordGroup) (int, string, error) {
	if reg == nil {
		return 0, "", &ModelNotFoundError{Model: group.Model}
	}

	probe, err := reg.New(group.Model)
	if err != nil {
		return 0, "", err
	}
	sch, err := schema.Parse(probe, schemaCache, tx.NamingStrategy)
	if err != nil {
		return 0, "", fmt.Errorf("parse schema for model %q: %w", group.Model, err)
	}

	for i, rec := range group.Records {
		instance, err := reg.New(group.Model)
		if err != nil {
			return i, sch.Table, err
		}
		if err := decodeRecord(rec, instance); err != nil {
			return i, sch.Table, fmt.Errorf("model %q record %d: %w", group.Model, i, err)
		}
		if err := tx.Create(instance).Error; err != nil {
			return i, sch.Table, fmt.Errorf("insert model %q record %d: %w", group.Model, i, err)
		}
	}
	return len(group.Records), sch.Table, nil
}

func sameKeys(reference, rec Record) bool {
	if len(reference) != len(rec) {
		return false
	}
	for k := range reference {
		if _, ok := rec[k]; !ok {
			return false
		}
	}
	return true
}
