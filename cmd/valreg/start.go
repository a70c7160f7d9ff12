package main

import (
	"context"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calehh/valreg-app/agent"
	"github.com/calehh/valreg-app/app"
	"github.com/calehh/valreg-app/config"
	cmtconfig "github.com/cometbft/cometbft/config"
	cmtflags "github.com/cometbft/cometbft/libs/cli/flags"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	nm "github.com/cometbft/cometbft/node"
	"github.com/cometbft/cometbft/p2p"
	"github.com/cometbft/cometbft/privval"
	"github.com/cometbft/cometbft/proxy"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var homeDir string

var rootCmd = &cobra.Command{
	Use:   "valreg",
	Short: "valreg runs the validator registry chain",
	Long: `A validator registry with a validator token, staking pools
and proposal voting, replicated by CometBFT.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := run(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&homeDir, "homedir", "d", "", "home directory")
}

func newLogger(cfg *config.Config) (cmtlog.Logger, error) {
	logger := cmtlog.NewTMLogger(cmtlog.NewSyncWriter(os.Stdout))
	return cmtflags.ParseLogLevel(cfg.LogLevel, logger, cmtconfig.DefaultLogLevel)
}

func newNode(cfg *config.Config, valreg *app.ValregApp, logger cmtlog.Logger) (*nm.Node, error) {
	pv := privval.LoadFilePV(cfg.PrivValidatorKeyFile(), cfg.PrivValidatorStateFile())
	nodeKey, err := p2p.LoadNodeKey(cfg.NodeKeyFile())
	if err != nil {
		return nil, errors.Wrap(err, "load node key")
	}
	return nm.NewNode(
		cfg.Config,
		pv,
		nodeKey,
		proxy.NewLocalClientCreator(valreg),
		nm.DefaultGenesisDocProviderFunc(cfg.Config),
		cmtconfig.DefaultDBProvider,
		nm.DefaultMetricsProvider(cfg.Instrumentation),
		logger,
	)
}

// rpcURL turns the node's rpc listen address into a client url.
func rpcURL(listen string) (string, error) {
	u, err := url.Parse(listen)
	if err != nil {
		return "", err
	}
	u.Scheme = "http"
	return u.String(), nil
}

// teardown stops started components in reverse start order. A failing step
// is logged and the rest still run.
type teardown struct {
	logger cmtlog.Logger
	names  []string
	steps  []func() error
}

func (t *teardown) add(name string, step func() error) {
	t.names = append(t.names, name)
	t.steps = append(t.steps, step)
}

func (t *teardown) run() {
	for i := len(t.steps) - 1; i >= 0; i-- {
		if err := t.steps[i](); err != nil {
			t.logger.Error("shutdown step fail", "step", t.names[i], "err", err)
		}
	}
	t.names, t.steps = nil, nil
}

func run() (err error) {
	cfg, err := config.LoadConfig(homeDir)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return errors.Wrap(err, "parse log level")
	}

	stop := &teardown{logger: logger}
	signaled := false
	defer func() {
		if err != nil && !signaled {
			stop.run()
		}
	}()

	valreg, err := app.NewValregApp(cfg.App, logger)
	if err != nil {
		return errors.Wrap(err, "new app")
	}
	stop.add("app", func() error {
		valreg.Stop()
		return nil
	})
	node, err := newNode(cfg, valreg, logger)
	if err != nil {
		return errors.Wrap(err, "create node")
	}
	valreg.Start(node.BlockStore())
	if err = node.Start(); err != nil {
		return errors.Wrap(err, "start comet node")
	}
	stop.add("comet node", func() error {
		defer node.Wait()
		return node.Stop()
	})
	time.Sleep(time.Second * 5)
	if !node.IsRunning() {
		return errors.New("comet node unable to run")
	}

	chainUrl, err := rpcURL(cfg.RPC.ListenAddress)
	if err != nil {
		return errors.Wrap(err, "parse rpc address")
	}
	indexer, err := agent.NewChainIndexer(logger, cfg.App.IndexerDBPath(), chainUrl)
	if err != nil {
		return errors.Wrap(err, "new chain indexer")
	}
	ctx, cancel := context.WithCancel(context.Background())
	go indexer.Start(ctx)
	stop.add("indexer", func() error {
		cancel()
		return indexer.Close()
	})

	service := agent.NewService(cfg.App.ServiceAddr, indexer)
	go func() {
		if err := service.Start(); err != nil {
			logger.Error("indexer service stopped", "err", err)
		}
	}()
	stop.add("indexer service", service.Stop)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	signaled = true
	log.Println("shut down...")

	done := make(chan struct{})
	go func() {
		defer close(done)
		stop.run()
	}()
	select {
	case <-time.After(shutdownTimeout):
		return errors.New("shutdown timed out")
	case <-done:
		return nil
	}
}
