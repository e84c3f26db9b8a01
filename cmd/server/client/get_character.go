package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

var npcLookup bool

var getCharacterCmd = &cobra.Command{
	Use:   "get-character [name-or-uuid]",
	Short: "Show a player or npc",
	Long: `Show a character snapshot. Examples:

  get-character Rowan
  get-character --npc 0b6f3c0e-2f4e-4c61-9a47-5c1f9f0f2a11`,
	Args: cobra.ExactArgs(1),
	RunE: getCharacter,
}

func init() {
	getCharacterCmd.Flags().BoolVar(&npcLookup, "npc", false, "look up an npc by uuid")
}

func getCharacter(_ *cobra.Command, args []string) error {
	client, cleanup, err := createWorldClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	key := "name"
	if npcLookup {
		key = "uuid"
	}
	req, err := structpb.NewStruct(map[string]any{key: args[0]})
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.GetCharacter(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to get character: %w", err)
	}
	return printStruct(resp)
}
