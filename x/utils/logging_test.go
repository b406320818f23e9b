package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := bazaar.WithLogger(context.Background(), log.NewTMLogger(&buf))
	tx := &bazaartest.Tx{Msg: &bazaartest.Msg{RoutePath: "market/purchase"}}

	h := &bazaartest.Handler{
		DeliverResult: bazaar.DeliverResult{Log: "all good"},
	}
	_, err := NewLogging().Deliver(ctx, store.MemStore(), tx, h)
	assert.Nil(t, err)

	out := buf.String()
	if !strings.Contains(out, "all good") {
		t.Fatalf("result log not found: %s", out)
	}
	if !strings.Contains(out, "path=market/purchase") {
		t.Fatalf("message path not found: %s", out)
	}

	buf.Reset()
	h.DeliverErr = errors.ErrUnauthorized.New("not the owner")
	_, err = NewLogging().Deliver(ctx, store.MemStore(), tx, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	out = buf.String()
	if !strings.Contains(out, "code=2") {
		t.Fatalf("error code not found: %s", out)
	}
}
