package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/calehh/valreg-app/config"
	"github.com/calehh/valreg-app/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type printInfo struct {
	Moniker    string          `json:"moniker" yaml:"moniker"`
	ChainID    string          `json:"chain_id" yaml:"chain_id"`
	NodeID     string          `json:"node_id" yaml:"node_id"`
	AppMessage json.RawMessage `json:"app_message" yaml:"app_message"`
}

func displayInfo(info printInfo) error {
	out, err := json.MarshalIndent(info, "", " ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(os.Stderr, "%s\n", out)
	return err
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize private validator, p2p, genesis, and application configuration files",
	Long:  `Initialize validators's and node's configuration files.`,
	Args:  cobra.NoArgs,
	RunE:  initRun,
}

func init() {
	initCmd.Flags().BoolP(types.FlagOverwrite, "o", false, "overwrite the genesis.json file")
	initCmd.Flags().String(types.FlagChainID, "", "genesis file chain-id, if left blank will be randomly created")
	initCmd.Flags().String(types.FlagHome, "", "node home directory")
	initCmd.Flags().String("moniker", "", "node moniker, also the genesis validator name")
}

func initRun(cmd *cobra.Command, args []string) error {
	home, _ := cmd.Flags().GetString(types.FlagHome)
	chainID, _ := cmd.Flags().GetString(types.FlagChainID)
	overwrite, _ := cmd.Flags().GetBool(types.FlagOverwrite)
	moniker, _ := cmd.Flags().GetString("moniker")
	if chainID == "" {
		chainID = fmt.Sprintf("valreg-chain-%v", rand.Uint64())
	}
	cfg := config.DefaultConfig(home)
	if moniker != "" {
		cfg.Moniker = moniker
	}

	nodeID, pk, err := config.InitializeNodeValidatorFiles(cfg, nil)
	if err != nil {
		return err
	}
	genFile := cfg.GenesisFile()
	if _, err := os.Stat(genFile); err == nil && !overwrite {
		return errors.Errorf("genesis file %s already exists", genFile)
	}
	appGenesis := types.NewGenesisDoc(chainID, pk, moniker)
	if err = types.ExportGenesisFile(appGenesis, genFile); err != nil {
		return errors.Wrap(err, "export genesis file")
	}
	if err = config.WriteConfigFile(filepath.Join(cfg.RootDir, "config", "config.toml"), cfg); err != nil {
		return err
	}
	return displayInfo(printInfo{Moniker: cfg.Moniker, ChainID: chainID, NodeID: nodeID, AppMessage: appGenesis.AppState})
}
