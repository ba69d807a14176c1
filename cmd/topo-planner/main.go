// Command topo-planner serves the mesh backhaul topology planner's HTTP API
// and dashboard.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "topo-planner",
	Short:   "Wireless mesh backhaul topology planner",
	Long:    `topo-planner validates candidate node and link data, builds a constrained maximum-weight spanning tree, assigns per-level channels and EIRP, and serves the result over HTTP.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug-level) logging")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
