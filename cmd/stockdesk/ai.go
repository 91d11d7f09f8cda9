package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Create and inspect AI image-generation jobs",
}

var aiCreateFlags struct {
	prompt string
}

var aiCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit an AI image-generation job",
	RunE:  runAICreate,
}

var aiStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show an AI job's current status",
	Args:  cobra.ExactArgs(1),
	RunE:  runAIStatus,
}

var aiActionFlags struct {
	action string
	index  int
}

var aiActionCmd = &cobra.Command{
	Use:   "action <job-id>",
	Short: "Run a follow-up action against a completed AI job",
	Long: `Run a follow-up action against a completed AI generation job.

The server spawns a new job for the action; its ID is printed so it can
be tracked like any other job.

Examples:
  # Upscale the second generated image
  stockdesk ai action job-xyz --action upscale --index 1

  # Request a variation of the first image
  stockdesk ai action job-xyz --action variation --index 0`,
	Args: cobra.ExactArgs(1),
	RunE: runAIAction,
}

func init() {
	rootCmd.AddCommand(aiCmd)
	aiCmd.AddCommand(aiCreateCmd)
	aiCmd.AddCommand(aiStatusCmd)
	aiCmd.AddCommand(aiActionCmd)

	aiCreateCmd.Flags().StringVarP(&aiCreateFlags.prompt, "prompt", "p", "", "generation prompt (required)")
	aiCreateCmd.MarkFlagRequired("prompt")

	aiActionCmd.Flags().StringVarP(&aiActionFlags.action, "action", "a", "", "action to run (upscale, variation) (required)")
	aiActionCmd.Flags().IntVarP(&aiActionFlags.index, "index", "i", 0, "result image index the action applies to")
	aiActionCmd.MarkFlagRequired("action")
}

func runAICreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	jobID, err := client.CreateAIJob(context.Background(), aiCreateFlags.prompt)
	if err != nil {
		return err
	}

	fmt.Printf("Job submitted: %s\n", jobID)
	fmt.Printf("Track it with: stockdesk watch %s --ai\n", jobID)
	return nil
}

func runAIStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := client.GetAIResult(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Job:      %s\n", args[0])
	fmt.Printf("Status:   %s\n", result.Status)
	fmt.Printf("Progress: %d%%\n", result.PercentComplete)
	if result.Message != "" {
		fmt.Printf("Message:  %s\n", result.Message)
	}
	for i, file := range result.Files {
		fmt.Printf("File %d:   %s\n", i, file)
	}
	return nil
}

func runAIAction(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	newJobID, err := client.PerformAIAction(context.Background(),
		args[0], aiActionFlags.action, aiActionFlags.index)
	if err != nil {
		return err
	}

	fmt.Printf("Action job submitted: %s\n", newJobID)
	return nil
}
