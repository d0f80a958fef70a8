package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "malldepot",
	Short: "MallDepot warehouse stock system CLI",
	Long:  "Warehouse stock management and storefront synchronization tooling.",
}

// Execute runs the CLI. Registered commands from custom packages are applied
// before dispatch.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
