package main

import "github.com/spf13/cobra"

func urlFlag(cmd *cobra.Command, url *string) {
	cmd.Flags().StringVarP(url, "url", "u", "http://127.0.0.1:26657", "valreg node rpc url")
}

// txFlags are shared by every command that signs and broadcasts a transaction.
type txFlags struct {
	Url    string
	Skey   string
	Nonce  uint64
	NoSend bool
}

func (f *txFlags) register(cmd *cobra.Command) {
	urlFlag(cmd, &f.Url)
	cmd.Flags().StringVarP(&f.Skey, "skeyPath", "s", "./config/priv_validator_key.json", "private key path")
	cmd.Flags().Uint64VarP(&f.Nonce, "nonce", "n", 0, "signer nonce, queried from the node when 0")
	cmd.Flags().BoolVarP(&f.NoSend, "nosend", "", false, "not send transaction but print it")
}
