package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of atomd",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("atomd version %s\n", version)
		},
	}
}
