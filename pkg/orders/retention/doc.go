// Package retention prunes finished orders from the order book once they
// age past the configured retention window. Pruning runs on a cron
// schedule; active orders are never touched.
package retention
