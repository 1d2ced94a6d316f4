// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/gafaradetunji/staking-test/api"
	"github.com/gafaradetunji/staking-test/authority"
	"github.com/gafaradetunji/staking-test/eventdb"
	"github.com/gafaradetunji/staking-test/ledger"
	"github.com/gafaradetunji/staking-test/metrics"
	"github.com/gafaradetunji/staking-test/pool"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "stakingd",
		Usage:   "staking pool daemon",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			metricsAddrFlag,
			verbosityFlag,
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(ctx *cli.Context) {
	levels := map[int]zerolog.Level{
		0: zerolog.ErrorLevel,
		1: zerolog.WarnLevel,
		2: zerolog.InfoLevel,
		3: zerolog.DebugLevel,
	}
	level, ok := levels[ctx.Int(verbosityFlag.Name)]
	if !ok {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	pool.SetLogger(log.With().Str("pkg", "pool").Logger())
}

func run(ctx *cli.Context) error {
	defer func() { log.Info().Msg("exited") }()
	initLogger(ctx)

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}

	events, err := openEventDB(ctx.String(dataDirFlag.Name))
	if err != nil {
		return err
	}
	defer func() {
		log.Info().Msg("closing event database...")
		events.Close()
	}()

	p, err := buildPool(cfg, events)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var group errgroup.Group

	metricsAddr := ctx.String(metricsAddrFlag.Name)
	var servers []*http.Server
	if metricsAddr != "" {
		metrics.InitializePrometheusMetrics()
		router := http.NewServeMux()
		router.Handle("/metrics", metrics.HTTPHandler())
		servers = append(servers, &http.Server{Addr: metricsAddr, Handler: router})
		log.Info().Str("addr", metricsAddr).Msg("metrics service started")
	}

	apiAddr := ctx.String(apiAddrFlag.Name)
	handler := api.New(p, events, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EnableMetrics:  metricsAddr != "",
	})
	servers = append(servers, &http.Server{Addr: apiAddr, Handler: handler})
	log.Info().Str("addr", apiAddr).Msg("API service started")

	for _, srv := range servers {
		srv := srv
		group.Go(func() error {
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-runCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return group.Wait()
}

func openEventDB(dataDir string) (*eventdb.EventDB, error) {
	if dataDir == "" {
		log.Warn().Msg("no data directory, keeping events in memory")
		return eventdb.NewMem()
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, err
	}
	return eventdb.New(filepath.Join(dataDir, "events.db"))
}

func buildPool(cfg *Config, events pool.EventSink) (*pool.Pool, error) {
	admin, err := cfg.adminAddress()
	if err != nil {
		return nil, err
	}
	poolAddr, err := cfg.poolAddress()
	if err != nil {
		return nil, err
	}

	stakingToken := ledger.NewToken(cfg.StakingToken.Symbol)
	rewardsToken := ledger.NewToken(cfg.RewardsToken.Symbol)

	unlimited := new(uint256.Int).SetAllOne()
	for _, seed := range cfg.StakingToken.Seeds {
		holder, balance, err := seed.parse()
		if err != nil {
			return nil, err
		}
		if err := stakingToken.Mint(holder, balance); err != nil {
			return nil, err
		}
		stakingToken.Approve(holder, poolAddr, unlimited)
	}
	for _, seed := range cfg.RewardsToken.Seeds {
		holder, balance, err := seed.parse()
		if err != nil {
			return nil, err
		}
		if err := rewardsToken.Mint(holder, balance); err != nil {
			return nil, err
		}
	}
	rewardBudget, err := cfg.RewardsToken.poolBalance()
	if err != nil {
		return nil, err
	}
	if !rewardBudget.IsZero() {
		if err := rewardsToken.Mint(poolAddr, rewardBudget); err != nil {
			return nil, err
		}
	}

	return pool.New(pool.Options{
		Address:      poolAddr,
		Duration:     cfg.Duration,
		StakingToken: ledger.NewVault(stakingToken, poolAddr),
		RewardsToken: ledger.NewVault(rewardsToken, poolAddr),
		Auth:         authority.New(admin),
		Events:       events,
	})
}
