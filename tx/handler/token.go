package handler

import (
	"github.com/calehh/valreg-app/state"
	"github.com/calehh/valreg-app/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

func NewCreateMintTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "createMintTx", encoded((*state.State).CreateMint, types.EncodeEventCreateMint))
}

func NewTransferTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "transferTx", encoded((*state.State).TransferTokens, types.EncodeEventTransfer))
}

func NewBurnTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "burnTx", encoded((*state.State).BurnTokens, types.EncodeEventBurn))
}

func NewReassignMintAuthorityTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "reassignMintAuthorityTx", encoded((*state.State).ReassignMintAuthority, types.EncodeEventReassignMintAuthority))
}
