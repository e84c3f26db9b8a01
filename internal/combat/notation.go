package combat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

var diceNotationRegex = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Dice is a parsed XdY+Z expression.
type Dice struct {
	Count    int
	Size     int
	Modifier int
}

// ParseDice parses notation like "2d6" or "1d8+2".
func ParseDice(notation string) (Dice, error) {
	matches := diceNotationRegex.FindStringSubmatch(strings.ToLower(strings.ReplaceAll(notation, " ", "")))
	if matches == nil {
		return Dice{}, errors.InvalidArgumentf("invalid dice notation: %s (expected format: XdY or XdY+Z)", notation)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return Dice{}, errors.InvalidArgumentf("invalid dice count in notation: %s", notation)
	}
	size, err := strconv.Atoi(matches[2])
	if err != nil {
		return Dice{}, errors.InvalidArgumentf("invalid die size in notation: %s", notation)
	}
	if count <= 0 || size <= 0 {
		return Dice{}, errors.InvalidArgumentf("dice count and size must be positive: %s", notation)
	}

	var modifier int
	if matches[3] != "" {
		modifier, err = strconv.Atoi(matches[3])
		if err != nil {
			return Dice{}, errors.InvalidArgumentf("invalid modifier in notation: %s", notation)
		}
	}

	return Dice{Count: count, Size: size, Modifier: modifier}, nil
}

// Roll totals the dice with roller. The result is never below zero.
func (d Dice) Roll(roller dice.Roller) (int, error) {
	rolls, err := roller.RollN(d.Count, d.Size)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll %dd%d", d.Count, d.Size)
	}
	total := d.Modifier
	for _, r := range rolls {
		total += r
	}
	return max(total, 0), nil
}

func (d Dice) String() string {
	s := strconv.Itoa(d.Count) + "d" + strconv.Itoa(d.Size)
	switch {
	case d.Modifier > 0:
		s += "+" + strconv.Itoa(d.Modifier)
	case d.Modifier < 0:
		s += strconv.Itoa(d.Modifier)
	}
	return s
}
