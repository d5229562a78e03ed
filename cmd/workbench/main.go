// Package main provides the workbench CLI: a local-first console for
// tracking assumptions, hypotheses, experiments, journeys, canvases,
// specimens, and ventures, and the relationships between them.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	// emit and sysErr have already reported their failures; everything else
	// still needs printing here.
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitUserError)
}
