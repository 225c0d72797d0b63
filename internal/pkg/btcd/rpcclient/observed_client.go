// Package rpcclient wraps the btcd JSON-RPC client with per-call metrics.
package rpcclient

import (
	"encoding/json"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
)

type (
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// ObservedClient wraps rpcclient.Client and records every call.
type ObservedClient struct {
	client     *rpcclient.Client
	rpcMetrics RPCMetrics
}

func NewObservedClient(client *rpcclient.Client, rpcMetrics RPCMetrics) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

func observe[T any](m RPCMetrics, operation string, call func() (T, error)) (T, error) {
	started := time.Now()
	res, err := call()
	m.Observe(operation, err, started)
	return res, err
}

func (r *ObservedClient) GetBlockCount() (int64, error) {
	return observe(r.rpcMetrics, "get_block_count", r.client.GetBlockCount)
}

func (r *ObservedClient) GetBlockHash(blockHeight int64) (*chainhash.Hash, error) {
	return observe(r.rpcMetrics, "get_block_hash", func() (*chainhash.Hash, error) {
		return r.client.GetBlockHash(blockHeight)
	})
}

// RawRequest sends a request the typed client has no method for, such as
// getblock with peercoin specific fields. The method name is the metric
// operation.
func (r *ObservedClient) RawRequest(method string, params []json.RawMessage) (json.RawMessage, error) {
	return observe(r.rpcMetrics, method, func() (json.RawMessage, error) {
		return r.client.RawRequest(method, params)
	})
}

// Shutdown stops the underlying client and waits for it to finish.
func (r *ObservedClient) Shutdown() {
	r.client.Shutdown()
	r.client.WaitForShutdown()
}
