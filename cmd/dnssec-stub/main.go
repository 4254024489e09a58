package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dnssec-stub",
	Short: "dnssec-stub validates DNS responses from a single upstream recursive resolver",
	Long: `dnssec-stub is a validating stub resolver: it sends queries to one configured
upstream recursive resolver and independently verifies the DNSSEC signatures on the
response, rather than trusting the upstream's own AD bit.`,
}

func main() {
	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
