package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

func main() {
	ctx := context.Background()
	cmd := newRootCmd()

	if err := fang.Execute(ctx, cmd); err != nil {
		os.Exit(1)
	}
}
