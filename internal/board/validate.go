package board

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskboard/internal/utils"
)

//go:embed schema.json
var defaultSchema []byte

const defaultSchemaURL = "https://taskboard.local/board.schema.json"

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // location of the problem, e.g. "tasks[T-1].status"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is a JSON Schema file overriding the built-in schema.
	SchemaPath string
	// RequiredSections lists headings that must be present.
	RequiredSections []string
	// Agents, when non-empty, is the set of known assignees.
	Agents []string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema string // "builtin" or the schema file path
}

func (r *ValidationResult) fail(path string, err error) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{Path: path, Err: err})
}

// Validate checks the board invariants and validates the exported board
// against the JSON Schema.
func (b *Board) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	b.validateInvariants(result, opts)
	b.validateWithSchema(result, opts.SchemaPath)
	return result
}

func (b *Board) validateInvariants(result *ValidationResult, opts ValidationOptions) {
	for _, name := range opts.RequiredSections {
		if b.FindSection(name) == nil {
			result.fail("sections", fmt.Errorf("missing required section %q", name))
		}
	}

	titles := make(map[string]bool)
	for _, s := range b.Sections {
		key := strings.ToLower(strings.TrimSpace(s.Title))
		if _, known := s.Spec(); known && titles[key] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("section %q appears more than once; only the first is used", s.Title))
		}
		titles[key] = true
	}

	known := make(map[string]bool, len(opts.Agents))
	for _, a := range utils.NormalizeAgentList(opts.Agents) {
		known[a] = true
	}

	seen := make(map[string]string)
	for _, s := range b.Sections {
		spec, hasSpec := s.Spec()
		for _, t := range s.Tasks {
			path := fmt.Sprintf("tasks[%s]", t.ID)

			if prev, dup := seen[t.ID]; dup {
				result.fail(path, fmt.Errorf("duplicate task id (also in %q)", prev))
			} else {
				seen[t.ID] = s.Title
			}

			if hasSpec && t.Status != spec.Status {
				result.fail(path+".status", fmt.Errorf("%q in section %q, want %q", t.Status, s.Title, spec.Status))
			}
			if hasSpec && spec.Priority != "" && t.Priority != spec.Priority {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s.priority: %q in section %q", path, t.Priority, s.Title))
			}

			switch {
			case t.Created.IsZero() || t.Updated.IsZero():
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: missing created or updated date", path))
			case t.Updated.Before(t.Created):
				result.fail(path+".updated", fmt.Errorf("%s is before created %s", FormatDate(t.Updated), FormatDate(t.Created)))
			}

			if len(known) > 0 && t.Assignee != "" && !known[utils.NormalizeAgentName(t.Assignee)] {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s.assignee: unknown agent %q", path, t.Assignee))
			}
		}
	}
}

// validateWithSchema validates the exported board. A schema file that
// cannot be used falls back to the built-in schema with a warning.
func (b *Board) validateWithSchema(result *ValidationResult, schemaPath string) {
	schema, used, warning := compileSchema(schemaPath)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	if schema == nil {
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using invariant checks only")
		return
	}
	result.UsedSchema = used

	exp := b.Export()
	data, err := json.Marshal(exp)
	if err != nil {
		result.fail("", fmt.Errorf("failed to marshal board for validation: %w", err))
		return
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.fail("", fmt.Errorf("failed to unmarshal board for validation: %w", err))
		return
	}

	if err := schema.Validate(doc); err != nil {
		appendSchemaErrors(result, exp, err)
	}
}

func compileSchema(schemaPath string) (*jsonschema.Schema, string, string) {
	var warning string
	if schemaPath != "" {
		absPath, err := filepath.Abs(schemaPath)
		if err == nil {
			_, err = os.Stat(absPath)
		}
		if err == nil {
			compiler := jsonschema.NewCompiler()
			compiler.AssertFormat = true
			schema, err := compiler.Compile(absPath)
			if err == nil {
				return schema, absPath, ""
			}
			warning = fmt.Sprintf("invalid schema file %s: %v; using built-in schema", schemaPath, err)
		} else if os.IsNotExist(err) {
			warning = fmt.Sprintf("schema file not found: %s; using built-in schema", schemaPath)
		} else {
			warning = fmt.Sprintf("failed to read schema file: %v; using built-in schema", err)
		}
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(defaultSchemaURL, bytes.NewReader(defaultSchema)); err != nil {
		return nil, "", fmt.Sprintf("built-in schema: %v", err)
	}
	schema, err := compiler.Compile(defaultSchemaURL)
	if err != nil {
		return nil, "", fmt.Sprintf("built-in schema: %v", err)
	}
	return schema, "builtin", warning
}

func appendSchemaErrors(result *ValidationResult, exp Export, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.fail("", err)
		return
	}
	collectSchemaErrors(result, exp, ve)
}

func collectSchemaErrors(result *ValidationResult, exp Export, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.fail(instancePath(exp, err.InstanceLocation), fmt.Errorf("%s", err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, exp, cause)
	}
}

// instancePath names the location of a schema error the way invariant
// errors do. Tasks are named by id and sections by title, so
// "/sections/0/tasks/2/priority" becomes "tasks[T-1].priority".
func instancePath(exp Export, pointer string) string {
	pointer = strings.TrimPrefix(strings.TrimPrefix(pointer, "#"), "/")
	if pointer == "" {
		return ""
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		parts[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(p)
	}

	var path string
	rest := parts
	if parts[0] == "sections" && len(parts) > 1 {
		si, err := strconv.Atoi(parts[1])
		switch {
		case err != nil || si < 0 || si >= len(exp.Sections):
			// Leave the generic form below.
		case len(parts) > 3 && parts[2] == "tasks":
			if ti, err := strconv.Atoi(parts[3]); err == nil && ti >= 0 && ti < len(exp.Sections[si].Tasks) {
				path = fmt.Sprintf("tasks[%s]", exp.Sections[si].Tasks[ti].ID)
				rest = parts[4:]
			}
		default:
			path = fmt.Sprintf("sections[%s]", exp.Sections[si].Title)
			rest = parts[2:]
		}
	}

	for _, p := range rest {
		if p == "" {
			continue
		}
		if idx, err := strconv.Atoi(p); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path != "" {
			path += "."
		}
		path += p
	}
	return path
}
