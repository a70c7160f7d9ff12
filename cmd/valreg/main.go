package main

import (
	"fmt"
	"os"
)

func main() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pubkeyCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(
		createMintCmd, transferCmd, burnCmd, reassignCmd,
		initProfileCmd, initValidatorCmd, updateValidatorCmd, closeValidatorCmd,
		initPoolCmd, refillPoolCmd, updatePoolCmd, stakeCmd, claimCmd, unstakeCmd,
		createProposalCmd, voteCmd,
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
