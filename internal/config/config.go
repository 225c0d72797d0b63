// Package config resolves the kernel parameters and checkpoint table of a
// network, optionally overridden by a params file.
package config

import (
	"errors"
	"fmt"
	"maps"
	"strconv"

	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
	"github.com/goodnatureofminers/stakekernel/pkg/safe"
	"github.com/spf13/viper"
)

// Params file keys.
const (
	keyModifierInterval      = "modifier_interval"
	keyModifierIntervalRatio = "modifier_interval_ratio"
	keyStakeMinAge           = "stake_min_age"
	keyStakeMaxAge           = "stake_max_age"
	keyStakeMaturity         = "stake_maturity"
	keyCoin                  = "coin"
	keyProtocolV03SwitchTime = "protocol_v03_switch_time"
	keyProtocolV04SwitchTime = "protocol_v04_switch_time"
	keyProtocolV05SwitchTime = "protocol_v05_switch_time"
	keyCheckpoints           = "checkpoints"
)

var ErrCheckpointConflict = errors.New("checkpoint conflicts with built-in table")

// Network is the resolved kernel configuration of one network.
type Network struct {
	Params      kernel.Params
	Checkpoints *kernel.Checkpoints
}

// Load returns the built-in configuration of network with the overrides of
// the params file at path applied. path may be empty for a known network.
// Checkpoints from the file extend the built-in table but never replace an
// entry of it.
func Load(network, path string) (*Network, error) {
	params, known := kernel.ParamsForNetwork(network)
	if !known && path == "" {
		return nil, fmt.Errorf("unknown network %q and no params file", network)
	}
	if !known {
		params = kernel.Params{Name: network}
	}

	table := make(map[int32]uint32)
	builtin := kernel.CheckpointsForNetwork(network)
	if known {
		for _, h := range builtin.Heights() {
			table[h], _ = builtin.Lookup(h)
		}
	}

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read params file %s: %w", path, err)
		}
		applyOverrides(v, &params)
		extra, err := parseCheckpoints(v.GetStringMap(keyCheckpoints))
		if err != nil {
			return nil, fmt.Errorf("params file %s: %w", path, err)
		}
		if err := mergeCheckpoints(table, extra); err != nil {
			return nil, fmt.Errorf("params file %s: %w", path, err)
		}
	}

	if err := Validate(&params); err != nil {
		return nil, err
	}
	return &Network{Params: params, Checkpoints: kernel.NewCheckpoints(table)}, nil
}

func applyOverrides(v *viper.Viper, p *kernel.Params) {
	for key, dst := range map[string]*int64{
		keyModifierInterval:      &p.ModifierInterval,
		keyModifierIntervalRatio: &p.ModifierIntervalRatio,
		keyStakeMinAge:           &p.StakeMinAge,
		keyStakeMaxAge:           &p.StakeMaxAge,
		keyStakeMaturity:         &p.StakeMaturity,
		keyCoin:                  &p.Coin,
		keyProtocolV03SwitchTime: &p.ProtocolV03SwitchTime,
		keyProtocolV04SwitchTime: &p.ProtocolV04SwitchTime,
		keyProtocolV05SwitchTime: &p.ProtocolV05SwitchTime,
	} {
		if v.IsSet(key) {
			*dst = v.GetInt64(key)
		}
	}
}

// parseCheckpoints reads height to checksum pairs. A quoted checksum is
// hex with an optional 0x prefix; YAML and TOML decode a bare 0x literal to
// a number already.
func parseCheckpoints(raw map[string]any) (map[int32]uint32, error) {
	out := make(map[int32]uint32, len(raw))
	for k, v := range raw {
		height, err := strconv.ParseInt(k, 10, 32)
		if err != nil || height < 0 {
			return nil, fmt.Errorf("checkpoint height %q is not a block height", k)
		}
		checksum, err := parseChecksum(v)
		if err != nil {
			return nil, fmt.Errorf("checkpoint %d: %w", height, err)
		}
		out[int32(height)] = checksum
	}
	return out, nil
}

func parseChecksum(v any) (uint32, error) {
	var (
		checksum uint32
		err      error
	)
	switch value := v.(type) {
	case string:
		parsed, perr := strconv.ParseUint(trimHexPrefix(value), 16, 32)
		if perr != nil {
			return 0, fmt.Errorf("checksum %q: %w", value, perr)
		}
		return uint32(parsed), nil
	case int:
		checksum, err = safe.Uint32(value)
	case int64:
		checksum, err = safe.Uint32(value)
	case uint64:
		checksum, err = safe.Uint32(value)
	default:
		return 0, fmt.Errorf("checksum has unsupported type %T", v)
	}
	if err != nil {
		return 0, fmt.Errorf("checksum: %w", err)
	}
	return checksum, nil
}

func mergeCheckpoints(table, extra map[int32]uint32) error {
	for h, c := range extra {
		if have, ok := table[h]; ok && have != c {
			return fmt.Errorf("height %d: have %08x, got %08x: %w", h, have, c, ErrCheckpointConflict)
		}
	}
	maps.Copy(table, extra)
	return nil
}

func trimHexPrefix(s string) string {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// Validate rejects parameter sets the kernel cannot work with.
func Validate(p *kernel.Params) error {
	switch {
	case p.ModifierInterval <= 0:
		return fmt.Errorf("%s: %s must be positive", p.Name, keyModifierInterval)
	case p.ModifierIntervalRatio < 1:
		return fmt.Errorf("%s: %s must be at least 1", p.Name, keyModifierIntervalRatio)
	case p.StakeMinAge < 0:
		return fmt.Errorf("%s: %s must not be negative", p.Name, keyStakeMinAge)
	case p.StakeMaxAge <= p.StakeMinAge:
		return fmt.Errorf("%s: %s must exceed %s", p.Name, keyStakeMaxAge, keyStakeMinAge)
	case p.StakeMaturity < 0:
		return fmt.Errorf("%s: %s must not be negative", p.Name, keyStakeMaturity)
	case p.Coin <= 0:
		return fmt.Errorf("%s: %s must be positive", p.Name, keyCoin)
	case p.ProtocolV04SwitchTime < p.ProtocolV03SwitchTime || p.ProtocolV05SwitchTime < p.ProtocolV04SwitchTime:
		return fmt.Errorf("%s: protocol switch times must not decrease from v0.3 to v0.5", p.Name)
	}
	return nil
}
