// Package seed loads starting tasks into a fresh store.
//
// A seed file is read once at startup and never written back:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {
//	      "id": 2,
//	      "text": "Walk dog",
//	      "completed": true,
//	      "created_at": "2024-01-01T09:00:00Z",
//	      "completed_at": "2024-01-01T10:00:00Z"
//	    },
//	    {"id": 1, "text": "Buy milk", "completed": false, "created_at": "2024-01-01T08:00:00Z"}
//	  ]
//	}
//
// Tasks are listed in display order, newest first. Files are checked against
// the embedded JSON Schema (seed.schema.json) before anything reaches the
// store. Text length is checked after trimming, the way the store counts it,
// so the schema only requires text to be a string.
package seed

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskmaster-go/internal/task"
)

// SchemaVersion is the only seed file version understood.
const SchemaVersion = 1

const schemaURL = "https://taskmaster.local/seed.schema.json"

//go:embed seed.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// File is a decoded seed file.
type File struct {
	SchemaVersion int         `json:"schema_version"`
	Tasks         []task.Task `json:"tasks"`

	// raw holds the bytes the file was parsed from, so schema validation
	// sees fields that decoding into File would drop.
	raw []byte
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // Dotted path to the error location, e.g. tasks[0].text
	Err  error  // Underlying error
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

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Err joins all validation errors, or returns nil when the file is valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

// Load reads and parses a seed file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a seed file from JSON.
func Parse(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	f.raw = append([]byte(nil), data...)
	return &f, nil
}

// Demo returns the built-in demo tasks, timed relative to now: three tasks
// created one, two and three minutes ago, the oldest already completed.
func Demo(now time.Time) *File {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	completedAt := ago(time.Minute)
	return &File{
		SchemaVersion: SchemaVersion,
		Tasks: []task.Task{
			{
				ID:        1,
				Text:      "Welcome to TaskMaster! Edit or delete this task to get started.",
				CreatedAt: ago(time.Minute),
			},
			{
				ID:        2,
				Text:      "Try marking this task as completed",
				CreatedAt: ago(2 * time.Minute),
			},
			{
				ID:          3,
				Text:        "This task is already completed - great job!",
				Completed:   true,
				CreatedAt:   ago(3 * time.Minute),
				CompletedAt: &completedAt,
			},
		},
	}
}

// Apply validates f and loads its tasks into store, which must not have
// assigned any ids yet. The validation result is returned even when Apply
// fails, so callers can report its warnings.
func Apply(store *task.Store, f *File) (*ValidationResult, error) {
	result := f.Validate()
	if err := result.Err(); err != nil {
		return result, fmt.Errorf("invalid seed file: %w", err)
	}
	return result, store.Seed(f.Tasks)
}

// Validate checks the file against the embedded schema, then runs the
// checks a schema cannot express. If the schema is unavailable it falls
// back to minimal structural checks.
func (f *File) Validate() *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if sch, err := compiledSchema(); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("JSON Schema validation not available, using minimal checks: %v", err))
		f.validateMinimal(result)
	} else {
		result.UsedSchema = true
		f.validateWithSchema(sch, result)
	}

	f.validateTexts(result)
	f.validateUniqueIDs(result)
	return result
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load seed schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

func (f *File) validateWithSchema(sch *jsonschema.Schema, result *ValidationResult) {
	data := f.raw
	if data == nil {
		// Built in memory (e.g. Demo); validate its JSON form.
		var err error
		data, err = json.Marshal(f)
		if err != nil {
			result.fail("", fmt.Errorf("failed to marshal file for validation: %w", err))
			return
		}
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.fail("", fmt.Errorf("failed to decode file for validation: %w", err))
		return
	}

	if err := sch.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
}

// validateMinimal performs minimal validation without JSON Schema.
func (f *File) validateMinimal(result *ValidationResult) {
	if f.SchemaVersion != SchemaVersion {
		result.fail("schema_version", fmt.Errorf("expected %d, got %d", SchemaVersion, f.SchemaVersion))
	}

	if f.Tasks == nil {
		result.fail("tasks", fmt.Errorf("missing required field"))
		return
	}

	for i, t := range f.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if t.ID < 1 {
			result.fail(path+".id", fmt.Errorf("must be at least 1, got %d", t.ID))
		}
		if t.CreatedAt.IsZero() {
			result.fail(path+".created_at", fmt.Errorf("missing required field"))
		}
		if t.Completed && t.CompletedAt == nil {
			result.fail(path+".completed_at", fmt.Errorf("required when completed is true"))
		}
		if !t.Completed && t.CompletedAt != nil {
			result.fail(path+".completed_at", fmt.Errorf("must be absent when completed is false"))
		}
	}
}

// validateTexts applies the store's own text rules: trimmed text must be
// non-empty and at most task.MaxTextLength characters.
func (f *File) validateTexts(result *ValidationResult) {
	for i, t := range f.Tasks {
		if _, err := task.NormalizeText(t.Text); err != nil {
			var ve *task.ValidationError
			if errors.As(err, &ve) {
				err = ve.Err
			}
			result.fail(fmt.Sprintf("tasks[%d].text", i), err)
		}
	}
}

func (f *File) validateUniqueIDs(result *ValidationResult) {
	first := make(map[int]int, len(f.Tasks))
	for i, t := range f.Tasks {
		if j, ok := first[t.ID]; ok {
			result.fail(fmt.Sprintf("tasks[%d].id", i), fmt.Errorf("duplicate id %d (also tasks[%d])", t.ID, j))
			continue
		}
		first[t.ID] = i
	}
}

func (r *ValidationResult) fail(path string, err error) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{Path: path, Err: err})
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath converts a JSON Pointer such as "/tasks/0/text" to a
// dotted path such as "tasks[0].text".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
