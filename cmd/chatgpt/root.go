package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/colindelotavo/chatgpt-cli/internal/chat"
	"github.com/colindelotavo/chatgpt-cli/internal/config"
	"github.com/colindelotavo/chatgpt-cli/internal/logger"
	"github.com/colindelotavo/chatgpt-cli/internal/provider"
	"github.com/colindelotavo/chatgpt-cli/memory"
)

const (
	inspectRequestHelp = "Shows what messages are being sent to the API. Only the last message " +
		"(for context) plus the current prompt are sent."
	exampleUsage = `  chatgpt "Who won the world series in 2020?"`
)

// deps are the collaborators the commands construct; tests replace them.
type deps struct {
	out       io.Writer
	errOut    io.Writer
	newClient func(provider.Settings) (provider.Completer, error)
}

func defaultDeps() deps {
	return deps{out: os.Stdout, errOut: os.Stderr, newClient: provider.New}
}

type rootOptions struct {
	filename       string
	configPath     string
	logLevel       string
	inspectRequest bool
	maxTokens      int
	showHistory    int
	contentOnly    bool
	checkAuth      bool
}

// utilityOnly reports whether a flag was given that does useful work without a prompt.
func (o *rootOptions) utilityOnly() bool { return o.showHistory > 0 || o.checkAuth }

func newRootCmd(d deps) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "chatgpt PROMPT",
		Short:   "Ask a hosted chat model a question, keeping context in a local file",
		Example: exampleUsage,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.utilityOnly() {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(opts, d)
			if err != nil {
				return err
			}

			if opts.showHistory > 0 {
				if err := showHistory(opts, log, d); err != nil {
					return err
				}
			}
			if opts.checkAuth {
				client, err := newClient(cfg, d)
				if err != nil {
					return err
				}
				chat.CheckAuth(cmd.Context(), client, cfg.Model, d.out)
			}
			if len(args) == 0 {
				return nil
			}

			client, err := newClient(cfg, d)
			if err != nil {
				return err
			}
			store := memory.NewStore(opts.filename, memory.WithSystemPrompt(cfg.SystemPrompt))
			r := chat.New(store, client, cfg.Model)
			r.Out = d.out
			r.Log = log

			_, err = r.CompleteRound(cmd.Context(), args[0], opts.maxTokens, opts.inspectRequest)
			return err
		},
	}

	cmd.SetOut(d.out)
	cmd.SetErr(d.errOut)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.filename, "filename", "f", memory.DefaultFilename, "conversation save file")
	pf.StringVar(&opts.configPath, "config", "", "YAML config file (default $CHATGPT_CONFIG)")
	pf.StringVar(&opts.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")

	f := cmd.Flags()
	f.Var(inspectFlag{dst: &opts.inspectRequest, on: true}, "inspect-request", inspectRequestHelp)
	f.Var(inspectFlag{dst: &opts.inspectRequest, on: false}, "no-inspect-request", "do not print the request payload")
	for _, name := range []string{"inspect-request", "no-inspect-request"} {
		fl := f.Lookup(name)
		fl.NoOptDefVal = "true"
		fl.DefValue = "false"
	}
	f.IntVar(&opts.maxTokens, "max-tokens", 50, "maximum tokens in the reply (accepted, not sent)")
	f.IntVar(&opts.showHistory, "show-history", 0, "print the last N saved messages before asking")
	f.BoolVar(&opts.contentOnly, "content", false, "with --show-history, print message text only")
	f.BoolVar(&opts.checkAuth, "check-auth", false, "check that the API key is accepted")
	return cmd
}

// inspectFlag backs both --inspect-request and --no-inspect-request with one
// bool, so whichever appears last on the command line wins.
type inspectFlag struct {
	dst *bool
	on  bool
}

func (f inspectFlag) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*f.dst = b == f.on
	return nil
}

func (f inspectFlag) String() string {
	if f.dst == nil {
		return "false"
	}
	return strconv.FormatBool(*f.dst == f.on)
}

func (f inspectFlag) Type() string { return "bool" }

// showHistory prints saved messages without touching the API.
func showHistory(opts *rootOptions, log zerolog.Logger, d deps) error {
	store := memory.NewStore(opts.filename)
	msgs, err := memory.LoadConversation(store.Path())
	switch {
	case err == nil:
		store.Set(msgs)
	case os.IsNotExist(err):
		log.Debug().Str("path", store.Path()).Msg("no save file")
	default:
		return fmt.Errorf("read history: %w", err)
	}
	if opts.contentOnly {
		return store.WriteRecentContent(d.out, opts.showHistory)
	}
	return store.WriteRecentMessages(d.out, opts.showHistory)
}

func setup(opts *rootOptions, d deps) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log := logger.New(logger.Config{Level: level, Pretty: true, Output: d.errOut})
	log.Debug().Str("provider", cfg.Provider).Str("model", cfg.Model).Msg("config resolved")
	return cfg, log, nil
}

func newClient(cfg config.Config, d deps) (provider.Completer, error) {
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("missing %s; export it before running", cfg.APIKeyEnv())
	}
	return d.newClient(cfg.ProviderSettings())
}
