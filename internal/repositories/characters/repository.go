// Package characters persists player saves.
package characters

//go:generate mockgen -destination=mock/mock_repository.go -package=charactersmock github.com/KirkDiggler/rpg-mud/internal/repositories/characters Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-mud/internal/datasource"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
)

// Repository stores PlayerData keyed by player name. Names are case
// insensitive.
type Repository interface {
	datasource.Loader[entities.PlayerData]

	// ListByAccount returns the saves belonging to an account.
	// Returns errors.InvalidArgument for an empty account
	ListByAccount(ctx context.Context, account string) ([]entities.PlayerData, error)

	// Delete removes a save.
	// Returns errors.NotFound if the player doesn't exist
	Delete(ctx context.Context, name string) error
}
