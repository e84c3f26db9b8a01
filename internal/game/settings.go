package game

import (
	"time"

	"github.com/KirkDiggler/rpg-mud/internal/combat"
	"github.com/KirkDiggler/rpg-mud/internal/config"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Game setting keys read from the config cache.
const (
	SettingUnarmedDamage = "unarmed_damage"
	// SettingRoundSpeed is in seconds.
	SettingRoundSpeed = "round_speed"
)

// combatSettings fills unset resolver fields from the game settings.
func combatSettings(cfg combat.ResolverConfig) (combat.ResolverConfig, error) {
	if cfg.Unarmed == "" {
		unarmed, err := config.GetOr(SettingUnarmedDamage, combat.DefaultUnarmed)
		if err != nil {
			return cfg, err
		}
		cfg.Unarmed = unarmed
	}

	if cfg.Speed == 0 {
		raw, ok, err := config.Get(SettingRoundSpeed)
		if err != nil {
			return cfg, err
		}
		if ok {
			seconds, valid := toSeconds(raw)
			if !valid {
				return cfg, errors.InvalidArgumentf("game setting %s must be a positive number of seconds", SettingRoundSpeed).
					WithMeta("setting", SettingRoundSpeed)
			}
			cfg.Speed = seconds
		}
	}
	return cfg, nil
}

func toSeconds(v any) (time.Duration, bool) {
	var seconds float64
	switch n := v.(type) {
	case int:
		seconds = float64(n)
	case float64:
		seconds = n
	default:
		return 0, false
	}
	if seconds <= 0 {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}
