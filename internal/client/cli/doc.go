// Package cli implements the interactive Wirescope auth console: a small
// REPL over the auth service with a terminal stand-in for the hosted login
// widget.
//
// Commands
//
//	login    — open the login dialog (paste tokens interactively)
//	logout   — clear the session and cached entitlement data
//	whoami   — fetch fresh account and subscription data
//	last     — show the locally cached account data
//	help     — list available commands
//	exit     — leave the program
//
// Token input is read without echo via golang.org/x/term so pasted
// credentials never land in the terminal scrollback.
package cli
