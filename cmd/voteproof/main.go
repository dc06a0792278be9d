package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"github.com/vocdoni/davinci-voteproof/config"
	"github.com/vocdoni/davinci-voteproof/log"
)

func main() {
	fs := flag.NewFlagSet("voteproof", flag.ExitOnError)
	cfg, args, err := loadConfig(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log.Level, cfg.Log.Output, nil)
	log.Debugw("starting voteproof", "version", config.Version)

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if len(args) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	valid, err := run(cfg, args[0], args[1:])
	if err != nil {
		log.Fatalf("%s failed: %v", args[0], err)
	}
	if !valid {
		os.Exit(1)
	}
}
