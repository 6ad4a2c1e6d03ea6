package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/wirescope/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string    base URL of the identity service (default from Config)
//	-id string   OAuth client id (default from Config)
//	-d string    path of the local metadata database (default from Config)
//	-s string    path of the machine secret file (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-id", "-d", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.IdentityBaseURL, "u", cfg.IdentityBaseURL, "base URL of the identity service")
	fs.StringVar(&cfg.ClientID, "id", cfg.ClientID, "OAuth client id")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local metadata database")
	fs.StringVar(&cfg.SecretPath, "s", cfg.SecretPath, "path of the machine secret file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
