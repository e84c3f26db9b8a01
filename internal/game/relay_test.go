package game_test

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-mud/internal/game"
)

func (s *StateTestSuite) TestRelayPublishesWatchedAttributeUpdates() {
	s.Require().NoError(s.state.BuildWorld(s.ctx))
	room, _ := s.state.GetRoom("limbo:white")
	rat := room.Npcs()[0]

	var got []events.Event
	s.bus.SubscribeFunc(game.EventAttributeUpdate, 0, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	s.Require().NoError(rat.LowerAttribute("health", 1))
	s.Require().Len(got, 1)
	s.Assert().Equal(rat.GetID(), got[0].Source().GetID())

	attr, ok := got[0].Context().Get(game.KeyAttribute)
	s.Require().True(ok)
	s.Assert().Equal("health", attr)
	current, ok := got[0].Context().Get(game.KeyCurrent)
	s.Require().True(ok)
	s.Assert().Equal(float64(2), current)

	s.state.RemoveMob(rat)
	s.Require().NoError(rat.RaiseAttribute("health", 1))
	s.Assert().Len(got, 1, "removed mobs are no longer relayed")
}
