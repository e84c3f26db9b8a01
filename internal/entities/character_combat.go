package entities

import "time"

// InitiateCombat starts combat against target. lag only applies when the
// character is not already fighting; an ongoing round keeps its lag. A target
// not yet fighting starts its own round with RetaliationLag.
func (c *Character) InitiateCombat(target *Character, lag time.Duration) {
	c.startCombat(lag)
	if c.IsInCombatWith(target) {
		return
	}

	target.startCombat(RetaliationLag)
	c.AddCombatant(target)
}

func (c *Character) startCombat(lag time.Duration) {
	if c.IsInCombat() {
		return
	}
	c.CombatData.Lag = lag
	c.CombatData.RoundStarted = c.clock.Now()
	c.Events.CombatStart.Publish(c)
}

// IsInCombat reports whether the character is fighting anyone.
func (c *Character) IsInCombat() bool {
	return c.combatants.len() > 0
}

// IsInCombatWith reports whether the character is fighting target.
func (c *Character) IsInCombatWith(target *Character) bool {
	return c.combatants.has(target)
}

// Combatants returns who the character is fighting, in the order they joined.
func (c *Character) Combatants() []*Character {
	return c.combatants.values()
}

// AddCombatant pairs the character and target as combatants.
func (c *Character) AddCombatant(target *Character) {
	if c.IsInCombatWith(target) {
		return
	}
	c.combatants.add(target)
	target.AddCombatant(c)
	c.Events.CombatantAdded.Publish(target)
}

// RemoveCombatant unpairs the character and target. CombatEnd fires when the
// last combatant is gone.
func (c *Character) RemoveCombatant(target *Character) {
	if !c.combatants.remove(target) {
		return
	}
	target.RemoveCombatant(c)
	c.Events.CombatantRemoved.Publish(target)

	if !c.IsInCombat() {
		c.Events.CombatEnd.Publish(c)
	}
}

// RemoveFromCombat leaves every fight.
func (c *Character) RemoveFromCombat() {
	for _, combatant := range c.combatants.values() {
		c.RemoveCombatant(combatant)
	}
}

// CombatReady reports whether the character's lag for this round has passed.
func (c *Character) CombatReady() bool {
	return !c.clock.Now().Before(c.CombatData.RoundStarted.Add(c.CombatData.Lag))
}

// StartRound begins a new combat round with the given lag.
func (c *Character) StartRound(lag time.Duration) {
	c.CombatData.RoundStarted = c.clock.Now()
	c.CombatData.Lag = lag
}
