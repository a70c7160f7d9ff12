package main

import (
	"testing"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTeardownRunsInReverseOrder(t *testing.T) {
	var order []string
	stop := &teardown{logger: cmtlog.NewNopLogger()}
	stop.add("app", func() error {
		order = append(order, "app")
		return nil
	})
	stop.add("node", func() error {
		order = append(order, "node")
		return errors.New("node already stopped")
	})
	stop.add("indexer", func() error {
		order = append(order, "indexer")
		return nil
	})

	stop.run()
	assert.Equal(t, []string{"indexer", "node", "app"}, order)

	// steps run once
	stop.run()
	assert.Len(t, order, 3)
}

func TestTeardownEmpty(t *testing.T) {
	stop := &teardown{logger: cmtlog.NewNopLogger()}
	assert.NotPanics(t, stop.run)
}
