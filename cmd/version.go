package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gorcf/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gorcf",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gorcf v%s\n", version.Version)
		fmt.Println("Reinforced Concrete Frame Optimization Tool")
		fmt.Println("Based on GB 50010-2010 (Code for Design of Concrete Structures)")
		if version.GitCommit != "unknown" {
			fmt.Printf("commit %s, built %s\n", version.GitCommit, version.BuildTime)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
