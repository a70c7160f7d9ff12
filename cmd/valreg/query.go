package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/calehh/valreg-app/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var queryPaths = map[string]string{
	"profile":    "/profile/",
	"validator":  "/validator/",
	"mint":       "/mint/",
	"token":      "/token/",
	"pool":       "/pool/",
	"stakevault": "/stakevault/",
	"proposal":   "/proposal/",
	"votes":      "/votes/",
	"tally":      "/votes/",
	"nonce":      "/nonce/",
}

type queryArguments struct {
	Url string
}

var queryArgs queryArguments

var queryCmd = &cobra.Command{
	Use:   "query <kind> <address>",
	Short: "Read a committed record: " + strings.Join(queryKinds(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE:  queryRun,
}

type balanceArguments struct {
	Url   string
	Owner string
	Mint  string
}

var balanceArgs balanceArguments

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the token account balance of a wallet",
	Args:  cobra.NoArgs,
	RunE:  balanceRun,
}

func init() {
	urlFlag(queryCmd, &queryArgs.Url)
	urlFlag(balanceCmd, &balanceArgs.Url)
	balanceCmd.Flags().StringVarP(&balanceArgs.Owner, "owner", "o", "", "wallet address")
	balanceCmd.Flags().StringVarP(&balanceArgs.Mint, "mint", "m", "", "mint, the validator token when empty")
	queryCmd.AddCommand(balanceCmd)
}

func queryKinds() []string {
	kinds := make([]string, 0, len(queryPaths))
	for k := range queryPaths {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func queryRun(cmd *cobra.Command, args []string) error {
	path, ok := queryPaths[args[0]]
	if !ok {
		return errors.Errorf("unknown record kind %q", args[0])
	}
	addr, err := parseAddress(args[0], args[1])
	if err != nil {
		return err
	}
	dat, err := queryPath(queryArgs.Url, path, []byte(addr.Hex()))
	if err != nil {
		return err
	}
	var out any
	if err = json.Unmarshal(dat, &out); err != nil {
		return err
	}
	pretty, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(pretty))
	return nil
}

func balanceRun(cmd *cobra.Command, args []string) error {
	owner, err := parseAddress("owner", balanceArgs.Owner)
	if err != nil {
		return err
	}
	mint, err := mintOrDefault("mint", balanceArgs.Mint)
	if err != nil {
		return err
	}
	addr := types.TokenAccountAddress(owner, mint)
	var acct types.TokenAccount
	if err = queryRecord(balanceArgs.Url, "/token/", addr, &acct); err != nil {
		return err
	}
	fmt.Printf("account:%s mint:%s owner:%s amount:%d\n", acct.Address, acct.Mint, acct.Owner, acct.Amount)
	return nil
}
