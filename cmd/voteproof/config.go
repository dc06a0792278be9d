package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vocdoni/davinci-voteproof/config"
)

// Config holds the application configuration
type Config struct {
	Log     LogConfig
	Vote    VoteConfig
	Verify  VerifyConfig
	Datadir string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// VoteConfig holds the vote being proven
type VoteConfig struct {
	MaxChoice uint64 `mapstructure:"maxchoice"`
	Choice    uint64 `mapstructure:"choice"`
	Voter     string `mapstructure:"voter"`
	Nonce     string `mapstructure:"nonce"`
}

// VerifyConfig holds the verification configuration
type VerifyConfig struct {
	Workers int `mapstructure:"workers"`
}

// loadConfig loads configuration from flags, environment variables, and
// defaults. It returns the remaining positional arguments: the command and
// its operands.
func loadConfig(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	v := viper.New()

	v.SetDefault("log.level", config.DefaultLogLevel)
	v.SetDefault("log.output", config.DefaultLogOutput)
	v.SetDefault("vote.maxchoice", config.DefaultMaxChoice)
	v.SetDefault("verify.workers", config.DefaultBatchWorkers)
	v.SetDefault("datadir", config.DefaultDatadir)

	fs.StringP("log.level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error, fatal)")
	fs.StringP("log.output", "o", config.DefaultLogOutput, "log output (stdout, stderr or filepath)")
	fs.StringP("datadir", "d", config.DefaultDatadir, "directory for keys, proofs and reveal data")
	fs.Uint64P("vote.maxchoice", "m", config.DefaultMaxChoice, "number of options of the poll, choices are in [0, maxchoice)")
	fs.Uint64P("vote.choice", "c", 0, "secret choice to prove")
	fs.String("vote.voter", "", "voter address (0x prefixed, 20 bytes)")
	fs.String("vote.nonce", "", "hex encoded 32 byte nonce (random if empty)")
	fs.IntP("verify.workers", "w", config.DefaultBatchWorkers, "number of concurrent proof verifications")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "voteproof v%s\n\n", config.Version)
		fmt.Fprintf(os.Stderr, "Usage: voteproof [flags] <command> [files]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  setup    generate and write a proving and verifying key pair\n")
		fmt.Fprintf(os.Stderr, "  prove    prove a vote, writing the vote proof and the reveal data\n")
		fmt.Fprintf(os.Stderr, "  verify   verify one or more vote proof files\n")
		fmt.Fprintf(os.Stderr, "  reveal   check a reveal data file against its commitment\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(os.Stderr, "  except for dots (.) which are replaced by underscores (_).\n")
		fmt.Fprintf(os.Stderr, "  For example, VOTEPROOF_VOTE_MAXCHOICE or VOTEPROOF_DATADIR\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  voteproof --vote.maxchoice=3 setup\n")
		fmt.Fprintf(os.Stderr, "  voteproof --vote.choice=1 --vote.voter=0x0101010101010101010101010101010101010101 prove\n")
		fmt.Fprintf(os.Stderr, "  voteproof verify voteproof.json\n")
	}

	fs.SortFlags = false
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	v.SetEnvPrefix("VOTEPROOF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, fs.Args(), nil
}

// validateConfig validates the loaded configuration
func validateConfig(cfg *Config) error {
	if cfg.Vote.MaxChoice == 0 {
		return fmt.Errorf("max choice must be positive")
	}
	if cfg.Verify.Workers < 0 {
		return fmt.Errorf("verify workers must not be negative")
	}
	return nil
}
