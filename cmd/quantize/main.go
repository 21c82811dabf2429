// Command quantize reduces an image to a k-color palette.
//
//	quantize -config quantize.yaml -in photo.jpg -out photo-8.png -k 8
//	quantize -in s3://bucket/photo.jpg -sweep 2,4,8,16
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "quantize:", err)
		stop()
		os.Exit(1)
	}
}
