package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	celaya "github.com/while-basic/celaya-parachain-sub001"
	"github.com/while-basic/celaya-parachain-sub001/config"
	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
	"github.com/while-basic/celaya-parachain-sub001/logging"
	"github.com/while-basic/celaya-parachain-sub001/model"
	"github.com/while-basic/celaya-parachain-sub001/model/anthropic"
	"github.com/while-basic/celaya-parachain-sub001/model/gemini"
	"github.com/while-basic/celaya-parachain-sub001/model/openai"
	"github.com/while-basic/celaya-parachain-sub001/signing"
)

type globalFlags struct {
	envFiles  []string
	policy    string
	ledgerDir string
	seed      string
	logLevel  string
	logFormat string
	useZap    bool
	model     string
	maxCalls  int
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "celaya",
		Short:         "Multi-agent consensus and reliability scoring engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			if err := config.LoadEnv(g.envFiles...); err != nil {
				return err
			}

			g.fillFromEnv(c)

			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringSliceVar(&g.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	f.StringVar(&g.policy, "policy", "", "policy YAML file ("+config.EnvPolicy+")")
	f.StringVar(&g.ledgerDir, "ledger-dir", "", "directory of the JSONL ledger, in-memory when empty ("+config.EnvLedgerDir+")")
	f.StringVar(&g.seed, "signing-seed", "", "hex ed25519 seed, random when empty ("+config.EnvSigningSeed+")")
	f.StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error ("+config.EnvLogLevel+")")
	f.StringVar(&g.logFormat, "log-format", "", "json or text ("+config.EnvLogFormat+")")
	f.BoolVar(&g.useZap, "zap", false, "log through zap's production encoder")
	f.IntVar(&g.maxCalls, "max-model-calls", 0, "cap on narrative completions, 0 for unlimited")
	f.StringVar(&g.model, "model", "", "narrative model: anthropic, openai or gemini ("+config.EnvModel+")")

	root.AddCommand(
		newToolsCommand(g),
		newRunCommand(g),
		newBatchCommand(g),
		newPolicyCommand(g),
		newLedgerCommand(g),
	)

	return root
}

// fillFromEnv applies environment values to flags the user did not set.
func (g *globalFlags) fillFromEnv(c *cobra.Command) {
	env := config.FromEnv()
	flags := c.Flags()

	set := func(name string, dst *string, v string) {
		if !flags.Changed(name) && v != "" {
			*dst = v
		}
	}

	set("policy", &g.policy, env.PolicyPath)
	set("ledger-dir", &g.ledgerDir, env.LedgerDir)
	set("signing-seed", &g.seed, env.SigningSeed)
	set("log-level", &g.logLevel, env.LogLevel)
	set("log-format", &g.logFormat, env.LogFormat)
	set("model", &g.model, env.ModelProvider)
}

func (g *globalFlags) loadPolicy() (*config.Policy, error) {
	return config.Env{PolicyPath: g.policy}.LoadPolicy()
}

func (g *globalFlags) logger() (logging.Logger, func(), error) {
	level := logging.ParseLevel(g.logLevel)

	if g.useZap {
		z, err := logging.NewZapProduction(level)
		if err != nil {
			return nil, nil, err
		}

		return z, func() { _ = z.Sync() }, nil
	}

	return logging.NewSlogLogger(level, g.logFormat, false), func() {}, nil
}

func (g *globalFlags) completer(ctx context.Context) (model.Completer, error) {
	switch strings.ToLower(g.model) {
	case "":
		return nil, nil
	case "anthropic":
		return anthropic.NewCompleter(), nil
	case "openai":
		return openai.NewCompleter(), nil
	case "gemini":
		return gemini.NewCompleter(ctx)
	default:
		return nil, core.Errorf("cli.model", core.KindInvalidInput, "unknown model provider %q", g.model)
	}
}

func (g *globalFlags) openLedger() (core.Ledger, error) {
	if g.ledgerDir == "" {
		return ledger.NewMemoryLedger(), nil
	}

	return ledger.OpenFileLedger(g.ledgerDir)
}

// orchestrator builds an engine from the global flags. The returned func
// flushes the logger.
func (g *globalFlags) orchestrator(ctx context.Context) (*celaya.Orchestrator, func(), error) {
	policy, err := g.loadPolicy()
	if err != nil {
		return nil, nil, err
	}

	logger, flush, err := g.logger()
	if err != nil {
		return nil, nil, err
	}

	store, err := g.openLedger()
	if err != nil {
		return nil, nil, err
	}

	completer, err := g.completer(ctx)
	if err != nil {
		return nil, nil, err
	}

	var signer core.Signer
	if g.seed != "" {
		if signer, err = signing.NewEd25519SignerFromHex(g.seed); err != nil {
			return nil, nil, err
		}
	}

	o, err := celaya.New(func(o *celaya.Options) {
		o.Policy = policy
		o.Ledger = store
		o.Signer = signer
		o.Completer = completer
		o.MaxModelCalls = g.maxCalls
		o.Logger = logger
	})
	if err != nil {
		return nil, nil, err
	}

	return o, flush, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	return nil
}
