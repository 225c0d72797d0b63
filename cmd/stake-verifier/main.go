// Package main runs the stake verifier: it follows a peercoin node,
// re-verifies every stake kernel and serves the verified metadata.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	netconfig "github.com/goodnatureofminers/stakekernel/internal/config"
	"github.com/goodnatureofminers/stakekernel/internal/metrics"
	rpcclient2 "github.com/goodnatureofminers/stakekernel/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
	"github.com/goodnatureofminers/stakekernel/internal/stake/peercoin"
	"github.com/goodnatureofminers/stakekernel/internal/stake/repository/clickhouse"
	"github.com/goodnatureofminers/stakekernel/internal/stake/repository/leveldb"
	"github.com/goodnatureofminers/stakekernel/internal/stake/service/verifier"
	"github.com/goodnatureofminers/stakekernel/internal/transport"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	LevelDBPath   string        `long:"leveldb-path" env:"STAKE_VERIFIER_LEVELDB_PATH" description:"path of the local stake index" default:"data/stake-index"`
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"STAKE_VERIFIER_CLICKHOUSE_DSN" description:"ClickHouse DSN, export is disabled when empty"`
	Coin          model.Coin    `long:"coin" env:"STAKE_VERIFIER_COIN" description:"coin name" default:"PPC"`
	Network       model.Network `long:"network" env:"STAKE_VERIFIER_NETWORK" description:"network name" default:"mainnet"`
	ParamsFile    string        `long:"params-file" env:"STAKE_VERIFIER_PARAMS_FILE" description:"YAML or TOML file overriding kernel params and checkpoints"`
	RPCURL        string        `long:"rpc-url" env:"STAKE_VERIFIER_RPC_URL" description:"peercoin RPC URL" default:"http://127.0.0.1:9902"`
	RPCUser       string        `long:"rpc-user" env:"STAKE_VERIFIER_RPC_USER" description:"peercoin RPC username"`
	RPCPassword   string        `long:"rpc-password" env:"STAKE_VERIFIER_RPC_PASSWORD" description:"peercoin RPC password"`
	ZMQAddr       string        `long:"zmq-addr" env:"STAKE_VERIFIER_ZMQ_ADDR" description:"zmq hashblock endpoint"`
	MetricsAddr   string        `long:"metrics-addr" env:"STAKE_VERIFIER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	HTTPAddr      string        `long:"http-addr" env:"STAKE_VERIFIER_HTTP_ADDR" description:"address for the stake API, disabled when empty" default:":8001"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("stake verifier failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	network, err := netconfig.Load(string(cfg.Network), cfg.ParamsFile)
	if err != nil {
		return fmt.Errorf("load network params: %w", err)
	}
	logger.Info("kernel params loaded",
		zap.String("network", network.Params.Name),
		zap.Int64("modifierInterval", network.Params.ModifierInterval),
		zap.Int64("stakeMinAge", network.Params.StakeMinAge),
		zap.Int("checkpoints", len(network.Checkpoints.Heights())))

	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	store, err := leveldb.Open(cfg.LevelDBPath, metrics.NewLevelDBRepository(cfg.Network))
	if err != nil {
		return fmt.Errorf("init stake index: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close stake index", zap.Error(err))
		}
	}()

	var repo verifier.ClickhouseRepository
	if cfg.ClickhouseDSN != "" {
		chRepo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init repository: %w", err)
		}
		defer func() {
			_ = chRepo.Close()
		}()
		repo = chRepo
	}

	rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init peercoin rpc client: %w", err)
	}
	rpc := rpcclient2.NewObservedClient(rpcClient, metrics.NewRPCClient(cfg.Coin, cfg.Network))
	defer rpc.Shutdown()

	blockSignal, err := startBlockSignal(ctx, cfg.ZMQAddr, logger.Named("zmq"))
	if err != nil {
		return err
	}

	svc, err := verifier.NewVerifierService(
		peercoin.NewBlockSource(rpc, network.Params.Coin),
		store,
		repo,
		&network.Params,
		network.Checkpoints,
		metrics.NewVerifier(cfg.Coin, cfg.Network),
		metrics.NewKernel(cfg.Coin, cfg.Network),
		cfg.Coin,
		cfg.Network,
		logger,
		blockSignal,
	)
	if err != nil {
		return err
	}

	if cfg.HTTPAddr != "" {
		handler := transport.NewRouter(transport.NewStakeHandler(svc, logger.Named("http")), metrics.NewHTTPAPI())
		startHTTPServer(ctx, cfg.HTTPAddr, handler, logger)
	}

	return svc.Run(ctx)
}

func startHTTPServer(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to listen and serve", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown http server", zap.Error(err))
		}
	}()
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	cfg := &rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}
	return rpcclient.New(cfg, nil)
}
