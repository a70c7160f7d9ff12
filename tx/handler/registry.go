package handler

import (
	"github.com/calehh/valreg-app/state"
	"github.com/calehh/valreg-app/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

func NewInitProfileTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "initProfileTx", encoded((*state.State).InitProfile, types.EncodeEventInitProfile))
}

func NewInitValidatorTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "initValidatorTx", encoded((*state.State).InitValidator, types.EncodeEventInitValidator))
}

func NewUpdateValidatorTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "updateValidatorTx", encoded((*state.State).UpdateValidator, types.EncodeEventUpdateValidator))
}

func NewCloseValidatorTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "closeValidatorTx", encoded((*state.State).CloseValidator, types.EncodeEventCloseValidator))
}
