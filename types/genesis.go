package types

import (
	"encoding/json"
	"os"
	"time"

	"github.com/cometbft/cometbft/crypto"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/pkg/errors"
)

const (
	ModuleName   = "valreg"
	DefaultPower = 1000
)

const (
	FlagOverwrite = "overwrite"
	FlagChainID   = "chain-id"
	FlagHome      = "home"
)

var ErrInvalidGenesis = errors.New("invalid genesis")

type GenesisValidator struct {
	Address crypto.Address `json:"address"`
	PubKey  crypto.PubKey  `json:"pub_key"`
	Power   int64          `json:"power"`
	Name    string         `json:"name"`
}

// GenesisDoc is the genesis file read by the node. The registry itself starts
// empty, so AppState is left null.
type GenesisDoc struct {
	GenesisTime     time.Time                 `json:"genesis_time"`
	ChainID         string                    `json:"chain_id"`
	InitialHeight   int64                     `json:"initial_height"`
	ConsensusParams *cmttypes.ConsensusParams `json:"consensus_params,omitempty"`
	Validators      []GenesisValidator        `json:"validators"`
	AppHash         []byte                    `json:"app_hash"`
	AppState        json.RawMessage           `json:"app_state"`
}

// NewGenesisDoc starts a chain with a single consensus validator.
func NewGenesisDoc(chainID string, pk crypto.PubKey, name string) *GenesisDoc {
	return &GenesisDoc{
		GenesisTime:     time.Now().Round(0).UTC(),
		ChainID:         chainID,
		InitialHeight:   1,
		ConsensusParams: cmttypes.DefaultConsensusParams(),
		Validators: []GenesisValidator{
			{Address: pk.Address(), PubKey: pk, Power: DefaultPower, Name: name},
		},
	}
}

func (g *GenesisDoc) ValidateAndComplete() error {
	if g.ChainID == "" {
		return errors.Wrap(ErrInvalidGenesis, "empty chain_id")
	}
	if g.InitialHeight < 0 {
		return errors.Wrapf(ErrInvalidGenesis, "negative initial_height %d", g.InitialHeight)
	}
	if len(g.Validators) == 0 {
		return errors.Wrap(ErrInvalidGenesis, "no validators")
	}
	for i, v := range g.Validators {
		if v.Power <= 0 {
			return errors.Wrapf(ErrInvalidGenesis, "validator %d power %d", i, v.Power)
		}
		if len(v.Name) > MaxNameLen {
			return errors.Wrapf(ErrInvalidGenesis, "validator %d name too long", i)
		}
	}
	if g.InitialHeight == 0 {
		g.InitialHeight = 1
	}
	if g.GenesisTime.IsZero() {
		g.GenesisTime = time.Now().Round(0).UTC()
	}
	return nil
}

// ExportGenesisFile validates genesis and writes it as indented JSON.
func ExportGenesisFile(genesis *GenesisDoc, genFile string) error {
	if err := genesis.ValidateAndComplete(); err != nil {
		return err
	}
	dat, err := cmtjson.MarshalIndent(genesis, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(genFile, dat, 0o600)
}
