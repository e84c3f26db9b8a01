package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

var listAreasCmd = &cobra.Command{
	Use:   "list-areas",
	Short: "List the loaded areas",
	Args:  cobra.NoArgs,
	RunE:  listAreas,
}

func listAreas(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createWorldClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ListAreas(ctx, &structpb.Struct{})
	if err != nil {
		return fmt.Errorf("failed to list areas: %w", err)
	}

	areas := resp.GetFields()["areas"].GetListValue().GetValues()
	fmt.Printf("%d areas loaded\n", len(areas))
	for _, v := range areas {
		area := v.GetStructValue().GetFields()
		fmt.Printf("  %-20s %-30s rooms=%v npcs=%v players=%v\n",
			area["name"].GetStringValue(),
			area["title"].GetStringValue(),
			area["rooms"].GetNumberValue(),
			area["npcs"].GetNumberValue(),
			area["players"].GetNumberValue())
	}
	return nil
}
