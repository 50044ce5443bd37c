package main

import (
	"fmt"
	"os"

	"github.com/globmod/globmod/cmd/globmod"
	"github.com/globmod/globmod/pkg/style"
)

func main() {
	rootCmd := globmod.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
