package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"stockdesk/fulfillment/pkg/cli"
	"stockdesk/fulfillment/pkg/pricing"
)

var quoteFlags struct {
	breakdown bool
	format    string
}

var quoteCmd = &cobra.Command{
	Use:   "quote <units>",
	Short: "Price a quantity against the tier table",
	Long: `Price a quantity of units against the volume-discount tier table.

The whole quantity is charged at the single tier whose range contains it;
larger quantities land in cheaper tiers. The optional breakdown shows how
the quantity would distribute across tiers if pricing were bracketed --
it is informational and never affects the charged total.

Examples:
  # Quote 150 units
  stockdesk quote 150

  # Show the per-tier breakdown as well
  stockdesk quote 150 --breakdown`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().BoolVarP(&quoteFlags.breakdown, "breakdown", "b", false, "show per-tier breakdown")
	quoteCmd.Flags().StringVar(&quoteFlags.format, "format", "text", "output format: text, json")
}

func runQuote(cmd *cobra.Command, args []string) error {
	units, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("units must be an integer, got %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, stopWatch, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer stopWatch()

	format, err := cli.ParseFormat(quoteFlags.format)
	if err != nil {
		return err
	}

	result, err := engine.Price(units)
	if err != nil {
		return err
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(os.Stdout, result)
	}

	fmt.Printf("Units:          %d\n", result.TotalUnits)
	fmt.Printf("Tier:           %s (%d-%d @ %s/unit)\n",
		result.Tier.Label, result.Tier.MinUnits, result.Tier.MaxUnits, result.Tier.Rate)
	fmt.Printf("Total cost:     %s\n", result.TotalCost)
	fmt.Printf("Cost per unit:  %s\n", result.AverageCostPerUnit)
	fmt.Printf("Savings:        %s (%s%% vs the %s rate)\n",
		result.TotalSavings, result.SavingsPercent.StringFixed(1), mostExpensiveLabel(result))

	if quoteFlags.breakdown {
		fmt.Println("\nBracketed breakdown (informational):")
		for _, c := range result.TierBreakdown {
			marker := " "
			if c.Used {
				marker = "*"
			}
			fmt.Printf("  %s %-10s %4d-%-4d @ %-6s %4d units  %s\n",
				marker, c.Label, c.MinUnits, c.MaxUnits, c.Rate, c.Units, c.Cost)
		}
		fmt.Println("  (* charged tier; the breakdown does not sum into the total)")
	}
	return nil
}

// mostExpensiveLabel names the tier the savings are measured against.
func mostExpensiveLabel(result *pricing.Result) string {
	label := result.Tier.Label
	rate := result.Tier.Rate
	for _, c := range result.TierBreakdown {
		if c.Rate.GreaterThan(rate) {
			label, rate = c.Label, c.Rate
		}
	}
	return label
}
