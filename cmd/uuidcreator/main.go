// Command uuidcreator prints UUIDs and decodes the fields of time-based ones.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/containerd/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		log.G(ctx).WithError(err).Error("uuidcreator failed")
		os.Exit(1)
	}
}
