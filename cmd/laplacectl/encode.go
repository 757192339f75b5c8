package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thesyncim/celtlaplace"
	"github.com/thesyncim/celtlaplace/internal/logger"
)

type encodeCommand struct {
	Decay  int    `short:"d" long:"decay" default:"8192" description:"Q14 decay, 0-16383"`
	Buffer int    `short:"b" long:"buffer" default:"65536" description:"encoder buffer size in bytes"`
	Output string `short:"o" long:"output" description:"write the raw stream to this file instead of hex to stdout"`
}

func (c *encodeCommand) Execute(args []string) error {
	var (
		values []int
		err    error
	)
	if len(args) > 0 {
		values, err = parseValues(strings.NewReader(strings.Join(args, "\n")))
	} else {
		values, err = parseValues(stdin)
	}
	if err != nil {
		return err
	}

	if c.Buffer <= 0 {
		return fmt.Errorf("invalid buffer size %d", c.Buffer)
	}
	enc := celtlaplace.NewResidualEncoder(make([]byte, c.Buffer))
	for i, v := range values {
		coded, err := enc.Encode(v, c.Decay)
		if err != nil {
			return err
		}
		if coded != v {
			logger.WithFields(map[string]any{"index": i, "value": v, "coded": coded}).Warn("residual saturated")
		}
	}
	bits := enc.Tell()
	data, err := enc.Finish()
	if err != nil {
		return err
	}
	logger.WithFields(map[string]any{
		"residuals": len(values),
		"saturated": enc.Saturated(),
		"bits":      bits,
		"bytes":     len(data),
	}).Debug("encoded")

	if c.Output != "" {
		return os.WriteFile(c.Output, data, 0o644)
	}
	_, err = fmt.Fprintln(stdout, hex.EncodeToString(data))
	return err
}

// parseValues reads whitespace separated integers.
func parseValues(r io.Reader) ([]int, error) {
	var values []int
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("residual %d: %w", len(values), err)
		}
		values = append(values, v)
	}
	return values, sc.Err()
}
