package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/authsession/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cli.Run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
