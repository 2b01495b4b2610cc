package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format identifies the structured-text encoding of a fixture file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatForPath picks the decoder from the file extension. Anything that is
// not .json decodes as YAML.
func FormatForPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFile reads and decodes one fixture file into its ordered record
// groups. Structural problems are reported as *FormatError naming the file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture file: %w", err)
	}
	return Parse(data, FormatForPath(path), filepath.Base(path))
}

// Parse decodes fixture content. The top level must be a list of group
// mappings; each group carries exactly one of "table" or "model" plus a
// "records" list of mappings.
func Parse(data []byte, format Format, name string) (*File, error) {
	var raw interface{}
	var err error
	switch format {
	case FormatJSON:
		err = gojson.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, &FormatError{File: name, Reason: "invalid document", Cause: err}
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, &FormatError{File: name, Reason: fmt.Sprintf("top level must be a list of record groups, got %T", raw)}
	}

	file := &File{Name: name, Groups: make([]RecordGroup, 0, len(list))}
	for i, item := range list {
		group, err := parseGroup(item, i, name)
		if err != nil {
			return nil, err
		}
		file.Groups = append(file.Groups, group)
	}
	return file, nil
}

func parseGroup(item interface{}, index int, name string) (RecordGroup, error) {
	mapping, ok := item.(map[string]interface{})
	if !ok {
		return RecordGroup{}, &FormatError{File: name, Reason: fmt.Sprintf("group %d must be a mapping, got %T", index, item)}
	}

	var group RecordGroup
	table, hasTable := mapping["table"]
	model, hasModel := mapping["model"]
	switch {
	case hasTable && hasModel:
		return RecordGroup{}, &FormatError{File: name, Reason: fmt.Sprintf("group %d has both table and model keys", index)}
	case !hasTable && !hasModel:
		return RecordGroup{}, &FormatError{File: name, Reason: fmt.Sprintf("group %d has neither table nor model key", index)}
	case hasTable:
		group.Table, ok = table.(string)
		if !ok || group.Table == "" {
			return RecordGroup{}, &FormatError{File: name, Reason: fmt.Sprintf("group %d: table must be a non-empty string", index)}
		}
	default:
		group.Model, ok = model.(string)
		if !ok || group.Model == "" {
			return RecordGroup{}, &FormatError{File: name, Reason: fmt.Sprintf("group %d: model must be a non-empty string", index)}
		}
	}

	recordsRaw, hasRecords := mapping["records"]
	if !hasRecords {
		return RecordGroup{}, &FormatError{File: name, Reason: fmt.Sprintf("group %d is missing the records key", index)}
	}
	recordsList, ok := recordsRaw.([]interface{})
	if !ok {
		return RecordGroup{}, &FormatError{File: name, Reason: fmt.Sprintf("group %d: records must be a list, got %T", index, recordsRaw)}
	}

	group.Records = make([]Record, 0, len(recordsList))
	for j, rec := range recordsList {
		fields, ok := rec.(map[string]interface{})
		if !ok {
			return RecordGroup{}, &FormatError{File: name, Reason: fmt.Sprintf("group %d: record %d must be a mapping, got %T", index, j, rec)}
		}
		group.Records = append(group.Records, Record(fields))
	}
	return group, nil
}
