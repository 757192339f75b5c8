// Command laplacectl encodes, decodes and verifies residual streams coded
// with the CELT Laplace model.
//
//	laplacectl encode -d 8192 -- 0 1 -1 2   # hex stream on stdout
//	laplacectl decode -d 8192 -n 4 255110d8
//	laplacectl table -d 12000               # ring layout for a decay
//	laplacectl sweep -c profile.yaml        # round-trip verification
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/thesyncim/celtlaplace/internal/logger"
)

var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts := options{Verbose: logger.Verbose}
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)

	_, err := parser.ParseArgs(args)
	if err == nil {
		return 0
	}

	var ferr *flags.Error
	if errors.As(err, &ferr) {
		if ferr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, ferr.Message)
			return 0
		}
		logger.WithError(err).Error("could not parse command line arguments")
		return 2
	}
	logger.WithError(err).Error("command failed")
	return 1
}
