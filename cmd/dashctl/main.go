package main

import (
	"fmt"
	"os"

	"github.com/sykell/url-crawler-dashboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
