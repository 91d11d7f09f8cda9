// Stockdesk is a command-line front end for the stock-media fulfillment
// API: it prices, submits, and tracks stock-media orders and AI
// image-generation jobs.
//
// Usage:
//
//	# Price a quantity against the tier table
//	stockdesk quote 150
//
//	# Browse the provider catalog
//	stockdesk catalog
//
//	# Submit an order and watch it to completion
//	stockdesk order create --provider shutterstock --item 12345
//	stockdesk watch ord-abc123
//
//	# Run an AI generation job
//	stockdesk ai create --prompt "a lighthouse at dawn"
//	stockdesk ai status job-xyz
//
//	# Show remaining credit
//	stockdesk balance
package main

func main() {
	Execute()
}
