package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrissnell/lunartable/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("lunartable: %v", err)
	}
	log.Sync()
}
