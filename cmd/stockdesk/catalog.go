package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stockdesk/fulfillment/pkg/cli"
)

var catalogFlags struct {
	format string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List stock-media providers",
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringVar(&catalogFlags.format, "format", "text", "output format: text, json")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	format, err := cli.ParseFormat(catalogFlags.format)
	if err != nil {
		return err
	}

	sites, err := client.GetCatalog(context.Background())
	if err != nil {
		return err
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(os.Stdout, sites)
	}

	if len(sites) == 0 {
		fmt.Println("No providers available.")
		return nil
	}

	fmt.Printf("%-20s %-30s %-8s %s\n", "PROVIDER", "TITLE", "ACTIVE", "UNIT COST")
	for _, site := range sites {
		active := "no"
		if site.Active {
			active = "yes"
		}
		fmt.Printf("%-20s %-30s %-8s %s\n", site.Name, site.Title, active, site.UnitCost)
	}
	return nil
}
