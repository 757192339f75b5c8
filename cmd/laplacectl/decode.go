package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/thesyncim/celtlaplace"
)

type decodeCommand struct {
	Decay int    `short:"d" long:"decay" default:"8192" description:"Q14 decay, 0-16383"`
	Count int    `short:"n" long:"count" required:"true" description:"number of residuals to decode"`
	Input string `short:"i" long:"input" description:"read the raw stream from this file instead of a hex argument"`
}

func (c *decodeCommand) Execute(args []string) error {
	var (
		data []byte
		err  error
	)
	switch {
	case c.Input != "":
		data, err = os.ReadFile(c.Input)
	case len(args) == 1:
		data, err = hex.DecodeString(args[0])
	default:
		err = errors.New("decode needs exactly one hex stream argument or --input")
	}
	if err != nil {
		return err
	}
	if c.Count < 0 {
		return fmt.Errorf("invalid count %d", c.Count)
	}

	out := make([]int, c.Count)
	if err := celtlaplace.DecodeResiduals(data, out, c.Decay); err != nil {
		return err
	}
	for _, v := range out {
		if _, err := fmt.Fprintln(stdout, v); err != nil {
			return err
		}
	}
	return nil
}
