package main

import (
	"encoding/hex"
	"fmt"

	"github.com/calehh/valreg-app/types"
	"github.com/spf13/cobra"
)

type pubkeyArguments struct {
	Skey string
}

var pubkeyArgs pubkeyArguments

var pubkeyCmd = &cobra.Command{
	Use:   "pubkey",
	Short: "Print the key and derived addresses of a signer",
	Args:  cobra.NoArgs,
	RunE:  pubkeyRun,
}

func init() {
	pubkeyCmd.Flags().StringVarP(&pubkeyArgs.Skey, "skeyPath", "s", "./config/priv_validator_key.json", "private key path")
}

func pubkeyRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(pubkeyArgs.Skey)
	if err != nil {
		return err
	}
	addr := pv.Address()
	profile, _ := types.ProfileAddress(addr)
	fmt.Println("pubkey:", hex.EncodeToString(pv.PublicKey()))
	fmt.Println("address:", addr.Hex())
	fmt.Println("profile:", profile.Hex())
	fmt.Println("token account:", types.TokenAccountAddress(addr, types.MintAddress()).Hex())
	return nil
}
