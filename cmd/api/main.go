package main

import (
	"fmt"
	"os"

	"invoicematch/internal/cli"
)

func main() {
	flags := cli.ParseServeFlags()

	if err := cli.RunServe(flags); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
