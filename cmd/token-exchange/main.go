package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-training/token-exchange/pkg/logger"
)

func main() {
	logger.New()
	if err := NewRootCommand(os.Stdout).ExecuteContext(context.Background()); err != nil {
		slog.Error("token-exchange failed", "error", err)
		os.Exit(1)
	}
}
