package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/calehh/valreg-app/crypto"
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/cometbft/cometbft/rpc/client/http"
	"github.com/pkg/errors"
)

func queryPath(url string, path string, data []byte) ([]byte, error) {
	cli, err := http.New(url, "/websocket")
	if err != nil {
		return nil, errors.Wrap(err, "new client")
	}
	res, err := cli.ABCIQuery(context.Background(), path, data)
	if err != nil {
		return nil, errors.Wrap(err, "request")
	}
	if res.Response.Code != 0 {
		return nil, errors.Errorf("query %s code %d: %s", path, res.Response.Code, res.Response.Log)
	}
	return res.Response.Value, nil
}

func queryRecord(url string, path string, addr types.Address, out any) error {
	dat, err := queryPath(url, path, []byte(addr.Hex()))
	if err != nil {
		return err
	}
	return json.Unmarshal(dat, out)
}

func queryNonce(url string, addr types.Address) (uint64, error) {
	var nonce uint64
	err := queryRecord(url, "/nonce/", addr, &nonce)
	return nonce, err
}

func loadSigner(skey string) (*crypto.PV, error) {
	pv, err := crypto.LoadFilePV(skey)
	if err != nil {
		return nil, errors.Wrap(err, "load private key")
	}
	return pv, nil
}

// sendTx signs payload as a transaction of type tp and broadcasts it.
func sendTx(f *txFlags, pv *crypto.PV, tp tx.RegTxType, payload any) error {
	cli, err := http.New(f.Url, "/websocket")
	if err != nil {
		return errors.Wrap(err, "new client")
	}
	ctx := context.Background()
	gres, err := cli.Genesis(ctx)
	if err != nil {
		return errors.Wrap(err, "get chain genesis")
	}
	chainId := gres.Genesis.ChainID
	nonce := f.Nonce
	if nonce == 0 {
		nonce, err = queryNonce(f.Url, pv.Address())
		if err != nil {
			return err
		}
	}
	btx := &tx.RegTx{
		Version: tx.RegTxVersion1,
		Type:    tp,
		Nonce:   nonce,
		Tx:      payload,
	}
	if err = pv.SignTx(btx, chainId); err != nil {
		return errors.Wrap(err, "sign tx")
	}
	dat, err := tx.MarshalRegTx(btx)
	if err != nil {
		return errors.Wrap(err, "encode tx")
	}
	fmt.Println("signer:", pv.Address().Hex())
	if f.NoSend {
		fmt.Printf("tx:%s\n", hex.EncodeToString(dat))
		return nil
	}
	res, err := cli.BroadcastTxSync(ctx, dat)
	if err != nil {
		return errors.Wrap(err, "broadcast tx")
	}
	out, _ := json.Marshal(res)
	fmt.Printf("%v\n", string(out))
	return nil
}

func parseAddress(name string, s string) (types.Address, error) {
	a, err := types.HexToAddress(s)
	if err != nil {
		return a, errors.Wrapf(err, "invalid %s %q", name, s)
	}
	return a, nil
}
