package main

import (
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/spf13/cobra"
)

type profileArguments struct {
	txFlags
	Name string
}

var profileArgs profileArguments

var initProfileCmd = &cobra.Command{
	Use:   "init-profile",
	Short: "Create the profile of the signing key",
	Args:  cobra.NoArgs,
	RunE:  initProfileRun,
}

type validatorArguments struct {
	txFlags
	ID       uint64
	Name     string
	Inactive bool
}

var validatorArgs validatorArguments

var initValidatorCmd = &cobra.Command{
	Use:   "init-validator",
	Short: "Register a validator under the signer's profile",
	Args:  cobra.NoArgs,
	RunE:  initValidatorRun,
}

var updateValidatorCmd = &cobra.Command{
	Use:   "update-validator",
	Short: "Rename a validator or change its active flag",
	Args:  cobra.NoArgs,
	RunE:  updateValidatorRun,
}

var closeValidatorCmd = &cobra.Command{
	Use:   "close-validator",
	Short: "Delete a validator record",
	Args:  cobra.NoArgs,
	RunE:  closeValidatorRun,
}

func init() {
	profileArgs.register(initProfileCmd)
	initProfileCmd.Flags().StringVarP(&profileArgs.Name, "name", "", "", "display name")

	for _, cmd := range []*cobra.Command{initValidatorCmd, updateValidatorCmd, closeValidatorCmd} {
		validatorArgs.register(cmd)
		cmd.Flags().Uint64VarP(&validatorArgs.ID, "id", "i", 0, "validator id")
	}
	initValidatorCmd.Flags().StringVarP(&validatorArgs.Name, "name", "", "", "validator name")
	updateValidatorCmd.Flags().StringVarP(&validatorArgs.Name, "name", "", "", "validator name")
	updateValidatorCmd.Flags().BoolVarP(&validatorArgs.Inactive, "inactive", "", false, "mark the validator inactive")
}

func initProfileRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(profileArgs.Skey)
	if err != nil {
		return err
	}
	profile, _ := types.ProfileAddress(pv.Address())
	return sendTx(&profileArgs.txFlags, pv, tx.RegTxTypeInitProfile, &tx.InitProfileTx{
		Name:    profileArgs.Name,
		Profile: profile,
	})
}

func initValidatorRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(validatorArgs.Skey)
	if err != nil {
		return err
	}
	signer := pv.Address()
	profile, _ := types.ProfileAddress(signer)
	validator, _ := types.ValidatorAddress(signer, validatorArgs.ID)
	mint := types.MintAddress()
	return sendTx(&validatorArgs.txFlags, pv, tx.RegTxTypeInitValidator, &tx.InitValidatorTx{
		ID:             validatorArgs.ID,
		Name:           validatorArgs.Name,
		Profile:        profile,
		Validator:      validator,
		ValidatorToken: types.TokenAccountAddress(signer, mint),
		Mint:           mint,
		MintAuthority:  types.MintAuthorityAddress(),
	})
}

func updateValidatorRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(validatorArgs.Skey)
	if err != nil {
		return err
	}
	signer := pv.Address()
	profile, _ := types.ProfileAddress(signer)
	validator, _ := types.ValidatorAddress(signer, validatorArgs.ID)
	return sendTx(&validatorArgs.txFlags, pv, tx.RegTxTypeUpdateValidator, &tx.UpdateValidatorTx{
		Name:      validatorArgs.Name,
		IsActive:  !validatorArgs.Inactive,
		Profile:   profile,
		Validator: validator,
	})
}

func closeValidatorRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(validatorArgs.Skey)
	if err != nil {
		return err
	}
	signer := pv.Address()
	profile, _ := types.ProfileAddress(signer)
	validator, _ := types.ValidatorAddress(signer, validatorArgs.ID)
	return sendTx(&validatorArgs.txFlags, pv, tx.RegTxTypeCloseValidator, &tx.CloseValidatorTx{
		Profile:   profile,
		Validator: validator,
	})
}
