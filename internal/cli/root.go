// Package cli implements the itemfeed command.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/kbukum/itemfeed/config"
	"github.com/kbukum/itemfeed/logger"
	"github.com/kbukum/itemfeed/version"
)

// DefaultCommand runs when stdin is a terminal and no default_command is
// configured.
const DefaultCommand = "find ."

// defaultWidth is used for the header when stdout has no size.
const defaultWidth = 80

// Env is what the command reads from and writes to.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	// StdinIsTerminal reports whether nothing is piped in.
	StdinIsTerminal func() bool
	// Width returns the output width in columns.
	Width func() int
	// Logger replaces the logger configured from the config file.
	Logger *logger.Logger
}

// OSEnv returns the environment of the running process.
func OSEnv() Env {
	return Env{
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		StdinIsTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		Width: func() int {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				return w
			}
			return defaultWidth
		},
	}
}

// flags holds values that only exist on the command line.
type flags struct {
	configFile string
	envFile    string
	command    string
	print0     bool
	original   bool
}

// NewRootCmd builds the itemfeed command.
func NewRootCmd(env Env) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "itemfeed",
		Short: "Stream lines from stdin or a command as fuzzy-finder items",
		Long: `itemfeed reads lines from stdin, or from the output of a shell command,
and prints them as the items a fuzzy finder would match against.

Field selectors pick which whitespace separated fields are displayed
(--with-nth) and which take part in matching (--nth). When stdin is a
terminal the default command is run instead.

Examples:
  ps aux | itemfeed --header-lines 1 --with-nth 2,11..
  itemfeed --cmd 'git log --oneline' --nth 2..
  find . -print0 | itemfeed --read0 --print0`,
		Version:       version.Get().String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), env, f, cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configFile, "config", "c", "", "config file (default: ./.itemfeed.yml or the user config dir)")
	fs.StringVar(&f.envFile, "env-file", "", "dotenv file with ITEMFEED_ settings (default: ./.env)")
	fs.StringVar(&f.command, "cmd", "", "command whose output is read instead of stdin")
	fs.BoolVar(&f.print0, "print0", false, "terminate printed items with NUL instead of newline")
	fs.BoolVar(&f.original, "output", false, "print the original lines instead of the transformed text")

	fs.String("nth", "", "fields taking part in matching, e.g. 2,4..")
	fs.String("with-nth", "", "fields to display, e.g. 1,3")
	fs.StringP("delimiter", "d", "", "field delimiter regex (default: whitespace)")
	fs.Bool("read0", false, "read NUL terminated items")
	fs.Bool("ansi", false, "parse ANSI color codes")
	fs.Bool("show-error", false, "show the stderr of a failing command as items")
	fs.String("header", "", "fixed header text")
	fs.Int("header-lines", 0, "treat the first N items as header")
	fs.String("shell", "", "shell used for commands (default: $SHELL or sh)")
	fs.Int("channel-capacity", 0, "bound the item queue (0 = unbounded)")
	fs.Bool("debug", false, "debug logging")
	fs.Bool("metrics", false, "export metrics and traces over OTLP")
	return cmd
}

// loadConfig reads the config file and environment, then applies the flags
// that were set explicitly.
func loadConfig(fs *pflag.FlagSet, f flags) (*config.FeedConfig, error) {
	cfg := &config.FeedConfig{}
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	if err := config.LoadConfig("itemfeed", cfg, opts...); err != nil {
		return nil, err
	}

	str := func(name string, dst *string) {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if fs.Changed(name) {
			*dst, _ = fs.GetBool(name)
		}
	}
	integer := func(name string, dst *int) {
		if fs.Changed(name) {
			*dst, _ = fs.GetInt(name)
		}
	}

	str("nth", &cfg.Nth)
	str("with-nth", &cfg.WithNth)
	str("delimiter", &cfg.Delimiter)
	str("header", &cfg.Header)
	str("shell", &cfg.Shell)
	boolean("read0", &cfg.Read0)
	boolean("ansi", &cfg.ANSI)
	boolean("show-error", &cfg.ShowError)
	boolean("debug", &cfg.Debug)
	boolean("metrics", &cfg.Metrics.Enabled)
	integer("header-lines", &cfg.HeaderLines)
	integer("channel-capacity", &cfg.ChannelCapacity)
	return cfg, nil
}
