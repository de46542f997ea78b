package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hamed0406/heartbeat/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "heartbeat:", err)
		os.Exit(1)
	}
}
