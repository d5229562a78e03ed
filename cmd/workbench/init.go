// Init command for the workbench CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/venturelab/workbench/pkg/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize workbench storage",
	Long: `Init creates the configuration directory with a default config.yaml and
the data directory with an empty database. Running it again is harmless.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return sysErr("init", err)
	}
	if err := ensureConfigDir(configDir); err != nil {
		return sysErr("init", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return sysErr("init", err)
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return sysErr("init", err)
	}
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}
	if err := cfg.Validate(); err != nil {
		return sysErr("init", err)
	}

	// Attaching creates the data directory and the schema.
	backend, err := attachBackend()
	if err != nil {
		return sysErr("init", err)
	}
	defer backend.Detach()

	fmt.Println("Workbench initialized")
	fmt.Println("  config:", configDir)
	fmt.Println("  data:  ", dataDir)
	return nil
}

// sysErr reports err on stderr and maps it to the system exit code. Init
// failures are environment problems, not user errors.
func sysErr(op string, err error) error {
	fmt.Fprintf(os.Stderr, "%s: %v\n", op, err)
	return &exitError{code: exitSysError}
}
