package effects

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Duration is an effect length in milliseconds.
type Duration int64

// Infinite marks an effect that never expires on its own.
const Infinite Duration = math.MaxInt64

const infiniteLiteral = "infinite"

// IsInfinite reports whether d is the Infinite sentinel.
func (d Duration) IsInfinite() bool {
	return d == Infinite
}

// MarshalJSON encodes Infinite as "infinite" and anything else as a number.
func (d Duration) MarshalJSON() ([]byte, error) {
	if d.IsInfinite() {
		return json.Marshal(infiniteLiteral)
	}
	return []byte(strconv.FormatInt(int64(d), 10)), nil
}

// UnmarshalJSON accepts a number of milliseconds or "infinite"/"inf".
func (d *Duration) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		return d.parse(literal)
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return errors.InvalidArgumentf("invalid effect duration %s", string(data))
	}
	return d.fromFloat(ms)
}

// MarshalYAML mirrors MarshalJSON.
func (d Duration) MarshalYAML() (any, error) {
	if d.IsInfinite() {
		return infiniteLiteral, nil
	}
	return int64(d), nil
}

// UnmarshalYAML mirrors UnmarshalJSON.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

func (d *Duration) parse(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case infiniteLiteral, "inf", ".inf":
		*d = Infinite
		return nil
	}

	ms, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.InvalidArgumentf("invalid effect duration %q", value)
	}
	return d.fromFloat(ms)
}

func (d *Duration) fromFloat(ms float64) error {
	switch {
	case math.IsInf(ms, 1):
		*d = Infinite
	case math.IsNaN(ms) || ms < 0:
		return errors.InvalidArgumentf("invalid effect duration %v", ms)
	default:
		*d = Duration(ms)
	}
	return nil
}
