//go:build zmq

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"syscall"
	"time"

	"github.com/goodnatureofminers/stakekernel/internal/clock"
	"github.com/pebbe/zmq4"
	"go.uber.org/zap"
)

const (
	hashBlockTopic   = "hashblock"
	zmqRecvTimeout   = time.Second
	zmqRetryInterval = 5 * time.Second
)

// startBlockSignal subscribes to the node's hashblock notifications. The
// returned channel holds at most one pending wake-up, so a burst of blocks
// costs the verifier a single extra round.
func startBlockSignal(ctx context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}

	sub, err := subscribe(addr)
	if err != nil {
		return nil, fmt.Errorf("connect zmq %s: %w", addr, err)
	}
	logger.Info("subscribed to block announcements", zap.String("addr", addr))

	notify := make(chan struct{}, 1)
	go func() {
		defer sub.Close()
		for ctx.Err() == nil {
			parts, err := sub.RecvMessageBytes(0)
			if err != nil {
				if zmq4.AsErrno(err) == zmq4.Errno(syscall.EAGAIN) {
					continue
				}
				logger.Warn("zmq receive failed", zap.Error(err))
				if clock.SleepWithContext(ctx, zmqRetryInterval) != nil {
					return
				}
				continue
			}
			// topic, 32 byte hash, sequence number
			if len(parts) < 2 || string(parts[0]) != hashBlockTopic || len(parts[1]) != 32 {
				logger.Warn("skip malformed zmq message", zap.Int("parts", len(parts)))
				continue
			}
			logger.Debug("block announced", zap.String("hash", hex.EncodeToString(parts[1])))

			select {
			case notify <- struct{}{}:
			default:
			}
		}
	}()

	return notify, nil
}

// subscribe connects a SUB socket with a receive timeout, so the reader
// notices cancellation while the node is quiet.
func subscribe(addr string) (*zmq4.Socket, error) {
	sub, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, err
	}
	setup := []func() error{
		func() error { return sub.SetRcvtimeo(zmqRecvTimeout) },
		func() error { return sub.SetSubscribe(hashBlockTopic) },
		func() error { return sub.Connect(addr) },
	}
	for _, step := range setup {
		if err := step(); err != nil {
			_ = sub.Close()
			return nil, err
		}
	}
	return sub, nil
}
