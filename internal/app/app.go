package app

import (
	"github.com/spf13/cobra"

	"github.com/Raoof128/SCRVS/internal/cli"
)

func BuildRoot() *cobra.Command {
	root := &cobra.Command{Use: "scrvs", Short: "Solidity smart contract vulnerability scanner"}
	cli.AddCommands(root)
	return root
}
