// Package entities holds the live game objects: characters (players and
// npcs), items and inventories, rooms, areas and their floors, and parties.
//
// Entities are created from definitions by the factory package and then
// hydrated against a World, which resolves cross references (rooms by
// reference, default items and npcs, behaviors) into live objects.
package entities

// Entity kinds returned by GetType.
const (
	KindPlayer = "player"
	KindNpc    = "npc"
	KindItem   = "item"
	KindRoom   = "room"
	KindArea   = "area"
)
