// Command celaya runs engine operations from the command line.
//
//	celaya tools                          list dispatchable operations
//	celaya run validate_insight -a '{...}' run one operation
//	celaya batch steps.jsonl              run a sequence against one engine
//	celaya policy                         print the effective policy
//	celaya ledger ls | cat <file>         inspect a file ledger
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
