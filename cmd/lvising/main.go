// Command lvising runs parallel-tempering Monte Carlo simulations of
// Ising-type Hamiltonians and generates lattice Hamiltonian files.
//
// Usage:
//
//	lvising run <file> <minT> <dT> <rungs> <updates> <trials> <mode> [flags]
//	lvising run --input <file> --config lvising.yaml
//	lvising generate --shape s --rows 16 --output square16.csv
//	lvising version
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/lvising/simerr"
)

// version is overwritten at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if class := simerr.Classify(err); class != "" {
			fmt.Fprintf(os.Stderr, "lvising: %s: %v\n", class, err)
		} else {
			fmt.Fprintf(os.Stderr, "lvising: %v\n", err)
		}
		os.Exit(1)
	}
}
