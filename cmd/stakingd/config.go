// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gafaradetunji/staking-test/staking"
)

// Config is the daemon's yaml configuration file.
type Config struct {
	// Admin may call the duration and reward-injection operations.
	Admin string `yaml:"admin"`
	// Pool is the pool's own holder address on both token ledgers.
	Pool string `yaml:"pool"`
	// Duration is the initial reward period length in seconds.
	Duration uint64 `yaml:"duration"`

	StakingToken TokenConfig `yaml:"stakingToken"`
	RewardsToken TokenConfig `yaml:"rewardsToken"`
}

// TokenConfig seeds one token ledger.
type TokenConfig struct {
	Symbol string `yaml:"symbol"`
	// Seeds are balances minted at startup. Holders of the staking token
	// additionally get an unlimited allowance to the pool, so they can stake
	// right away.
	Seeds []SeedConfig `yaml:"seeds"`
	// PoolBalance is minted to the pool address itself; for the rewards
	// token this is the budget the solvency check runs against.
	PoolBalance string `yaml:"poolBalance"`
}

// SeedConfig is one seeded balance.
type SeedConfig struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read config")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WithMessage(err, "parse config")
	}
	if cfg.Admin == "" {
		return nil, errors.New("config: admin is required")
	}
	if cfg.Pool == "" {
		return nil, errors.New("config: pool is required")
	}
	return &cfg, nil
}

func (c *Config) adminAddress() (staking.Address, error) {
	addr, err := staking.ParseAddress(c.Admin)
	return addr, errors.WithMessage(err, "config: admin")
}

func (c *Config) poolAddress() (staking.Address, error) {
	addr, err := staking.ParseAddress(c.Pool)
	return addr, errors.WithMessage(err, "config: pool")
}

func (t *TokenConfig) poolBalance() (*uint256.Int, error) {
	if t.PoolBalance == "" {
		return uint256.NewInt(0), nil
	}
	balance, err := uint256.FromDecimal(t.PoolBalance)
	return balance, errors.WithMessagef(err, "config: %s poolBalance", t.Symbol)
}

func (s *SeedConfig) parse() (staking.Address, *uint256.Int, error) {
	addr, err := staking.ParseAddress(s.Address)
	if err != nil {
		return staking.Address{}, nil, errors.WithMessage(err, "seed address")
	}
	balance, err := uint256.FromDecimal(s.Balance)
	if err != nil {
		return staking.Address{}, nil, errors.WithMessage(err, "seed balance")
	}
	return addr, balance, nil
}
