package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the account's remaining credit",
	RunE:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	balance, err := client.GetAccountBalance(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", balance.Amount, balance.Currency)
	return nil
}
