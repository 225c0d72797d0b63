//go:build !zmq

package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// startBlockSignal is a stub for builds without zmq support; the verifier
// then polls the node on a timer.
func startBlockSignal(_ context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}
	logger.Error("zmq address set but binary built without the zmq tag", zap.String("addr", addr))
	return nil, errors.New("zmq support not compiled in, rebuild with -tags zmq")
}
