// Package cli provides shared helpers for stockdesk commands: output
// formatting (text and JSON) and progress rendering for watched orders.
package cli
