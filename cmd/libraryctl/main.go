// LibraryHub operator CLI
//
// Usage:
//
//	libraryctl dashboard --locale bn
//	libraryctl dashboard --open overdue_books
//	libraryctl sweep-overdue --dry-run
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dalemusser/libraryhub/cmd/libraryctl/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
