// Command itemfeed prints the items a fuzzy finder would read from stdin
// or from a command.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/itemfeed/internal/cli"
)

func main() {
	cmd := cli.NewRootCmd(cli.OSEnv())
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "itemfeed:", err)
		os.Exit(1)
	}
}
