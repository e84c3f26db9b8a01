package entities

import "github.com/KirkDiggler/rpg-mud/internal/errors"

// Party is a group of characters led by one of them.
type Party struct {
	leader  *Character
	members orderedSet[*Character]
	invited orderedSet[*Character]
}

// NewParty creates a party with leader as its only member.
func NewParty(leader *Character) *Party {
	p := &Party{leader: leader}
	p.members.add(leader)
	leader.party = p
	return p
}

// Leader returns the party leader.
func (p *Party) Leader() *Character {
	return p.leader
}

// Members returns the party members, leader first.
func (p *Party) Members() []*Character {
	return p.members.values()
}

// Has reports whether member is in the party.
func (p *Party) Has(member *Character) bool {
	return p.members.has(member)
}

// Invite records an invitation to target.
func (p *Party) Invite(target *Character) {
	p.invited.add(target)
}

// IsInvited reports whether target has a pending invitation.
func (p *Party) IsInvited(target *Character) bool {
	return p.invited.has(target)
}

// RemoveInvite withdraws target's invitation.
func (p *Party) RemoveInvite(target *Character) {
	p.invited.remove(target)
}

// Add joins member to the party, consuming any invitation.
func (p *Party) Add(member *Character) error {
	if member.party != nil && member.party != p {
		return errors.FailedPreconditionf("%s is already in a party", member.Name).
			WithMeta("character", member.GetID())
	}
	p.invited.remove(member)
	p.members.add(member)
	member.party = p
	return nil
}

// Delete removes member from the party.
func (p *Party) Delete(member *Character) {
	if p.members.remove(member) {
		member.party = nil
	}
}

// Disband removes every member.
func (p *Party) Disband() {
	for _, member := range p.members.values() {
		p.Delete(member)
	}
	p.invited = orderedSet[*Character]{}
}

// GetBroadcastTargets returns the players in the party.
func (p *Party) GetBroadcastTargets() []*Player {
	var players []*Player
	for _, member := range p.members.values() {
		if member.player != nil {
			players = append(players, member.player)
		}
	}
	return players
}

// PartyManager tracks the live parties.
type PartyManager struct {
	parties orderedSet[*Party]
}

// NewPartyManager creates an empty manager.
func NewPartyManager() *PartyManager {
	return &PartyManager{}
}

// Create starts a party led by leader.
func (m *PartyManager) Create(leader *Character) (*Party, error) {
	if leader.party != nil {
		return nil, errors.FailedPreconditionf("%s is already in a party", leader.Name).
			WithMeta("character", leader.GetID())
	}
	party := NewParty(leader)
	m.parties.add(party)
	return party, nil
}

// Disband breaks up party and forgets it.
func (m *PartyManager) Disband(party *Party) {
	party.Disband()
	m.parties.remove(party)
}

// Parties returns the live parties.
func (m *PartyManager) Parties() []*Party {
	return m.parties.values()
}
