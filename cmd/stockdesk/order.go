package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Create and inspect stock-media orders",
}

var orderCreateFlags struct {
	provider string
	item     string
	units    int
}

var orderCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a stock-media order",
	Long: `Submit a stock-media order for a catalog item.

The cost is computed locally from the tier table for the given unit count
and sent with the order for reconciliation.

Examples:
  # Order one item
  stockdesk order create --provider shutterstock --item 12345

  # Order with a quantity priced against the tier table
  stockdesk order create --provider shutterstock --item 12345 --units 50`,
	RunE: runOrderCreate,
}

var orderStatusCmd = &cobra.Command{
	Use:   "status <order-id>",
	Short: "Show an order's current status",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrderStatus,
}

var orderDownloadFlags struct {
	linkType string
}

var orderDownloadCmd = &cobra.Command{
	Use:   "download <order-id>",
	Short: "Fetch the download link for a completed order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrderDownload,
}

func init() {
	rootCmd.AddCommand(orderCmd)
	orderCmd.AddCommand(orderCreateCmd)
	orderCmd.AddCommand(orderStatusCmd)
	orderCmd.AddCommand(orderDownloadCmd)

	orderCreateCmd.Flags().StringVarP(&orderCreateFlags.provider, "provider", "p", "", "stock-media provider (required)")
	orderCreateCmd.Flags().StringVarP(&orderCreateFlags.item, "item", "i", "", "catalog item ID (required)")
	orderCreateCmd.Flags().IntVarP(&orderCreateFlags.units, "units", "u", 1, "unit count for tier pricing")
	orderCreateCmd.MarkFlagRequired("provider")
	orderCreateCmd.MarkFlagRequired("item")

	orderDownloadCmd.Flags().StringVarP(&orderDownloadFlags.linkType, "type", "t", "", "link variant (original, preview)")
}

func runOrderCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, stopWatch, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer stopWatch()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := engine.Price(orderCreateFlags.units)
	if err != nil {
		return err
	}

	orderID, err := client.CreateOrder(context.Background(),
		orderCreateFlags.provider, orderCreateFlags.item, result.TotalCost)
	if err != nil {
		return err
	}

	fmt.Printf("Order submitted: %s\n", orderID)
	fmt.Printf("Cost: %s (%d units @ %s, tier %q)\n",
		result.TotalCost, result.TotalUnits, result.Tier.Rate, result.Tier.Label)
	fmt.Printf("Track it with: stockdesk watch %s\n", orderID)
	return nil
}

func runOrderStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	status, err := client.GetOrderStatus(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Order:    %s\n", args[0])
	fmt.Printf("Status:   %s\n", status.Status)
	fmt.Printf("Progress: %d%%\n", status.Progress)
	if status.Message != "" {
		fmt.Printf("Message:  %s\n", status.Message)
	}
	return nil
}

func runOrderDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	link, err := client.GetDownloadLink(context.Background(), args[0], orderDownloadFlags.linkType)
	if err != nil {
		return err
	}

	fmt.Println(link)
	return nil
}
