package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:   "item <provider> <item-id>",
	Short: "Show details for a catalog item",
	Args:  cobra.ExactArgs(2),
	RunE:  runItem,
}

func init() {
	rootCmd.AddCommand(itemCmd)
}

func runItem(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	info, err := client.GetItemInfo(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Provider:   %s\n", info.Provider)
	fmt.Printf("Item:       %s\n", info.ItemID)
	fmt.Printf("Title:      %s\n", info.Title)
	fmt.Printf("Media type: %s\n", info.MediaType)
	fmt.Printf("Cost:       %s\n", info.Cost)
	if info.PreviewURL != "" {
		fmt.Printf("Preview:    %s\n", info.PreviewURL)
	}
	return nil
}
