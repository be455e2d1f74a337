package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/reliefops/donations/pkg/interfaces/cli/commands"
)

// envConfig supplies defaults that explicit flags override
type envConfig struct {
	SeedFile string `env:"DONATIONS_SEED"`
	DBPath   string `env:"DONATIONS_DB"`
	Format   string `env:"DONATIONS_FORMAT" envDefault:"text"`
}

func main() {
	var defaults envConfig
	if err := env.Parse(&defaults); err != nil {
		fmt.Fprintf(os.Stderr, "Error: parse environment: %v\n", err)
		os.Exit(1)
	}

	// Command line flags
	var (
		seedFile    = flag.String("seed", defaults.SeedFile, "Path to JSON seed file")
		dbPath      = flag.String("db", defaults.DBPath, "Path to SQLite state database")
		format      = flag.String("format", defaults.Format, "Output format: text, json")
		singleStep  = flag.Bool("step", false, "Run a single allocation step instead of a full drain")
		undo        = flag.Bool("undo", false, "Undo the most recent allocation and exit")
		addDonor    = flag.String("add-donor", "", "Register a donor: \"name|contact\"")
		addDonation = flag.String("add-donation", "", "Register a donation: \"donor_id|item|category|qty[|unit_value]\"")
		addRequest  = flag.String("add-request", "", "Register a request: \"requester|category|qty|priority\"")
		verbose     = flag.Bool("verbose", false, "Enable verbose output")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	ctx := context.Background()

	var err error
	if *addDonor != "" || *addDonation != "" || *addRequest != "" {
		cmd := commands.NewRegisterCommand(commands.RegisterConfig{
			Donor:    *addDonor,
			Donation: *addDonation,
			Request:  *addRequest,
			DBPath:   *dbPath,
			Verbose:  *verbose,
		})
		err = cmd.Execute(ctx)
	} else {
		cmd := commands.NewAllocateCommand(commands.Config{
			SeedFile:   *seedFile,
			DBPath:     *dbPath,
			Format:     *format,
			Verbose:    *verbose,
			SingleStep: *singleStep,
			Undo:       *undo,
			Help:       *help,
		})
		err = cmd.Execute(ctx)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
