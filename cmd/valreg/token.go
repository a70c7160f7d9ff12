package main

import (
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/spf13/cobra"
)

type tokenArguments struct {
	txFlags
	Amount    uint64
	To        string
	Recipient string
	Authority string
	Current   string
}

var tokenArgs tokenArguments

var createMintCmd = &cobra.Command{
	Use:   "create-mint",
	Short: "Create the validator token mint, the signer becomes mint admin",
	Args:  cobra.NoArgs,
	RunE:  createMintRun,
}

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer validator tokens from the signer's token account",
	Args:  cobra.NoArgs,
	RunE:  transferRun,
}

var burnCmd = &cobra.Command{
	Use:   "burn",
	Short: "Burn validator tokens from the signer's token account",
	Args:  cobra.NoArgs,
	RunE:  burnRun,
}

var reassignCmd = &cobra.Command{
	Use:   "reassign-authority",
	Short: "Move mint authority to another address",
	Args:  cobra.NoArgs,
	RunE:  reassignRun,
}

func init() {
	for _, cmd := range []*cobra.Command{createMintCmd, transferCmd, burnCmd, reassignCmd} {
		tokenArgs.register(cmd)
	}
	transferCmd.Flags().Uint64VarP(&tokenArgs.Amount, "amount", "a", 0, "token amount")
	transferCmd.Flags().StringVarP(&tokenArgs.To, "to", "", "", "destination token account")
	transferCmd.Flags().StringVarP(&tokenArgs.Recipient, "recipient", "r", "", "recipient wallet, the destination is its token account")
	burnCmd.Flags().Uint64VarP(&tokenArgs.Amount, "amount", "a", 0, "token amount")
	reassignCmd.Flags().StringVarP(&tokenArgs.Authority, "authority", "", "", "new mint authority")
	reassignCmd.Flags().StringVarP(&tokenArgs.Current, "current", "", "", "current mint authority, the engine authority when empty")
}

func createMintRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(tokenArgs.Skey)
	if err != nil {
		return err
	}
	return sendTx(&tokenArgs.txFlags, pv, tx.RegTxTypeCreateMint, &tx.CreateMintTx{
		Mint:          types.MintAddress(),
		MintAuthority: types.MintAuthorityAddress(),
	})
}

func transferRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(tokenArgs.Skey)
	if err != nil {
		return err
	}
	mint := types.MintAddress()
	stx := &tx.TransferTx{
		Amount: tokenArgs.Amount,
		From:   types.TokenAccountAddress(pv.Address(), mint),
	}
	if tokenArgs.Recipient != "" {
		if stx.Recipient, err = parseAddress("recipient", tokenArgs.Recipient); err != nil {
			return err
		}
		stx.To = types.TokenAccountAddress(stx.Recipient, mint)
	} else if stx.To, err = parseAddress("destination", tokenArgs.To); err != nil {
		return err
	}
	return sendTx(&tokenArgs.txFlags, pv, tx.RegTxTypeTransfer, stx)
}

func burnRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(tokenArgs.Skey)
	if err != nil {
		return err
	}
	mint := types.MintAddress()
	return sendTx(&tokenArgs.txFlags, pv, tx.RegTxTypeBurn, &tx.BurnTx{
		Amount:  tokenArgs.Amount,
		Account: types.TokenAccountAddress(pv.Address(), mint),
		Mint:    mint,
	})
}

func reassignRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(tokenArgs.Skey)
	if err != nil {
		return err
	}
	authority, err := parseAddress("authority", tokenArgs.Authority)
	if err != nil {
		return err
	}
	current := types.MintAuthorityAddress()
	if tokenArgs.Current != "" {
		if current, err = parseAddress("current authority", tokenArgs.Current); err != nil {
			return err
		}
	}
	return sendTx(&tokenArgs.txFlags, pv, tx.RegTxTypeReassignMintAuthority, &tx.ReassignMintAuthorityTx{
		NewAuthority:  authority,
		Mint:          types.MintAddress(),
		MintAuthority: current,
	})
}
