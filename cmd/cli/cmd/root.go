package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "x64codec",
	Short: "x86-64 instruction codec",
	Long:  `x64codec decodes, encodes, and renders x86-64 machine instructions.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {

	rootCmd.AddGroup(&cobra.Group{
		ID:    "arch",
		Title: "Architectures",
	})

	rootCmd.AddCommand(x8664Cmd)

	rootCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
