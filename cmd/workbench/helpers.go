// Shared helpers for workbench CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/venturelab/workbench/internal/actions"
	"github.com/venturelab/workbench/internal/sqlite"
	"github.com/venturelab/workbench/pkg/types"
)

// catalogTypesStr is a comma-separated list of valid entity types for error
// output.
var catalogTypesStr = strings.Join(types.CatalogTypes, ", ")

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// newActions builds the action layer for CLI use: local operator, no cache
// revalidation, diagnostics to stderr.
func newActions(backend *sqlite.Backend) *actions.Actions {
	return actions.New(backend, nil, nil, log.New(os.Stderr, "", 0))
}

// exitError carries an exit code up to main, so deferred cleanups (backend
// Detach in particular) run before the process exits. Its message is never
// shown; emit has already reported the failure.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// emit writes an action result. With --json the whole envelope is printed;
// otherwise data goes to stdout and warnings/errors to stderr. Failures
// return an exitError: 1 for user errors, 2 for storage errors.
func emit(res types.ActionResult) error {
	if flagJSON {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(out))
	} else {
		if res.Data != nil {
			out, err := json.MarshalIndent(res.Data, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal data: %w", err)
			}
			fmt.Println(string(out))
		}
		if res.Warning != "" {
			fmt.Fprintln(os.Stderr, "warning:", res.Warning)
		}
		if !res.Success {
			fmt.Fprintln(os.Stderr, "error:", res.Error)
		}
	}

	if !res.Success {
		if res.Code == types.CodeDatabaseError {
			return &exitError{code: exitSysError}
		}
		return &exitError{code: exitUserError}
	}
	return nil
}

// entityRefArgs parses the common <type> <id> argument pair.
func entityRefArgs(args []string) (types.EntityRef, error) {
	entityType := args[0]
	if !types.CatalogType(entityType) {
		return types.EntityRef{}, fmt.Errorf("unknown entity type %q (valid: %s)", entityType, catalogTypesStr)
	}
	return types.EntityRef{Type: entityType, ID: args[1]}, nil
}

// parseFields turns repeated key=value flags into a fields map. Values that
// parse as JSON keep their structure; everything else stays a string.
func parseFields(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid field %q (expected key=value)", pair)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		fields[key] = parsed
	}
	return fields, nil
}
