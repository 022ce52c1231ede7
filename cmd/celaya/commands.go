package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	celaya "github.com/while-basic/celaya-parachain-sub001"
	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/ledger"
	"github.com/while-basic/celaya-parachain-sub001/tool"
)

func newToolsCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List dispatchable operations with their parameter schemas",
		RunE: func(c *cobra.Command, _ []string) error {
			o, flush, err := g.orchestrator(c.Context())
			if err != nil {
				return err
			}
			defer flush()

			return writeJSON(c.OutOrStdout(), o.Declarations())
		},
	}
}

func newRunCommand(g *globalFlags) *cobra.Command {
	var (
		rawArgs  string
		argsFile string
	)

	c := &cobra.Command{
		Use:       "run <operation>",
		Short:     "Run a single operation",
		Args:      cobra.ExactArgs(1),
		ValidArgs: operationNames(),
		RunE: func(c *cobra.Command, args []string) error {
			op, err := tool.ParseOperation(args[0])
			if err != nil {
				return err
			}

			data := []byte(rawArgs)
			if argsFile != "" {
				if data, err = os.ReadFile(argsFile); err != nil {
					return err
				}
			}

			params := map[string]any{}
			if len(strings.TrimSpace(string(data))) > 0 {
				if err := json.Unmarshal(data, &params); err != nil {
					return core.E("cli.run", core.KindInvalidInput, err)
				}
			}

			o, flush, err := g.orchestrator(c.Context())
			if err != nil {
				return err
			}
			defer flush()

			out, err := o.Dispatch(c.Context(), op, params)
			if err != nil {
				return err
			}

			return writeJSON(c.OutOrStdout(), out)
		},
	}

	c.Flags().StringVarP(&rawArgs, "args", "a", "", "operation arguments as a JSON object")
	c.Flags().StringVarP(&argsFile, "file", "f", "", "read operation arguments from a JSON file")

	return c
}

// step is one line of a batch file. String arguments of the form
// "$label.field" are replaced by the field of an earlier labelled result.
type step struct {
	Label     string         `json:"label,omitempty"`
	Operation string         `json:"operation"`
	Args      map[string]any `json:"args"`
}

type stepResult struct {
	Label     string `json:"label,omitempty"`
	Operation string `json:"operation"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

func newBatchCommand(g *globalFlags) *cobra.Command {
	var keepGoing bool

	c := &cobra.Command{
		Use:   "batch <steps.jsonl>",
		Short: "Run a JSONL sequence of operations against one engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			o, flush, err := g.orchestrator(c.Context())
			if err != nil {
				return err
			}
			defer flush()

			return runBatch(c, o, bufio.NewScanner(f), keepGoing)
		},
	}

	c.Flags().BoolVar(&keepGoing, "keep-going", false, "continue after a failed step")

	return c
}

func runBatch(c *cobra.Command, o *celaya.Orchestrator, sc *bufio.Scanner, keepGoing bool) error {
	labelled := map[string]map[string]any{}
	enc := json.NewEncoder(c.OutOrStdout())
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for sc.Scan() {
		line++

		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var s step
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return core.E("cli.batch", core.KindInvalidInput, fmt.Errorf("line %d: %w", line, err))
		}

		op, err := tool.ParseOperation(s.Operation)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		args, err := resolve(s.Args, labelled)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		out, err := o.Dispatch(c.Context(), op, args)

		res := stepResult{Label: s.Label, Operation: s.Operation, Result: out}
		if err != nil {
			res.Error, res.Kind = err.Error(), core.KindOf(err).String()
		}

		if encErr := enc.Encode(res); encErr != nil {
			return encErr
		}

		if err != nil && !keepGoing {
			return err
		}

		if err == nil && s.Label != "" {
			if labelled[s.Label], err = asMap(out); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
		}
	}

	return sc.Err()
}

func resolve(args map[string]any, labelled map[string]map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))

	for k, v := range args {
		r, err := resolveValue(v, labelled)
		if err != nil {
			return nil, err
		}

		out[k] = r
	}

	return out, nil
}

func resolveValue(v any, labelled map[string]map[string]any) (any, error) {
	switch t := v.(type) {
	case string:
		label, field, ok := strings.Cut(strings.TrimPrefix(t, "$"), ".")
		if !strings.HasPrefix(t, "$") || !ok {
			return t, nil
		}

		res, found := labelled[label]
		if !found {
			return nil, core.Errorf("cli.batch", core.KindNotFound, "no step labelled %q", label)
		}

		val, found := res[field]
		if !found {
			return nil, core.Errorf("cli.batch", core.KindNotFound, "step %q has no field %q", label, field)
		}

		return val, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			r, err := resolveValue(e, labelled)
			if err != nil {
				return nil, err
			}

			out[i] = r
		}

		return out, nil
	case map[string]any:
		return resolve(t, labelled)
	default:
		return v, nil
	}
}

func asMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}

	return m, nil
}

func newPolicyCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective policy as YAML",
		RunE: func(c *cobra.Command, _ []string) error {
			p, err := g.loadPolicy()
			if err != nil {
				return err
			}

			if err := p.Validate(); err != nil {
				return err
			}

			out, err := p.Marshal()
			if err != nil {
				return err
			}

			_, err = c.OutOrStdout().Write(out)

			return err
		},
	}
}

func newLedgerCommand(g *globalFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect a file ledger",
	}

	open := func() (*ledger.FileLedger, error) {
		if g.ledgerDir == "" {
			return nil, core.Errorf("cli.ledger", core.KindInvalidInput, "--ledger-dir is required")
		}

		return ledger.OpenFileLedger(g.ledgerDir)
	}

	c.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "List log files",
			RunE: func(c *cobra.Command, _ []string) error {
				l, err := open()
				if err != nil {
					return err
				}

				names, err := l.ListFiles(c.Context())
				if err != nil {
					return err
				}

				for _, n := range names {
					fmt.Fprintln(c.OutOrStdout(), n)
				}

				return nil
			},
		},
		&cobra.Command{
			Use:   "cat [file]",
			Short: "Print the records of a log file, the latest when omitted",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				l, err := open()
				if err != nil {
					return err
				}

				var name string
				if len(args) == 1 {
					name = args[0]
				} else if name, err = l.LatestFile(c.Context()); err != nil {
					return err
				}

				recs, err := l.ReadFile(c.Context(), name)
				if err != nil {
					return err
				}

				return writeJSON(c.OutOrStdout(), recs)
			},
		},
	)

	return c
}

func operationNames() []string {
	ops := tool.Operations()

	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}

	return names
}
