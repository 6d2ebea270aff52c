package main

import (
	"fmt"
	"os"
)

// #region main
func main() {
	app := newCLIApp(openEnv)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// #endregion main
