// Package main is the stock dashboard CLI.
//
// Usage:
//
//	go run ./cmd/dashboard render --ticker AAPL
//	go run ./cmd/dashboard serve
//	go run ./cmd/dashboard fetch
package main

import (
	"os"

	"github.com/seannamartin08/stock-market-dashboard/cmd/dashboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
