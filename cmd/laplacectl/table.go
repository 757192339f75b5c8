package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/thesyncim/celtlaplace"
	"github.com/thesyncim/celtlaplace/laplace"
)

type tableCommand struct {
	Decay int `short:"d" long:"decay" default:"8192" description:"Q14 decay, 0-16383"`
}

func (c *tableCommand) Execute(args []string) error {
	if c.Decay < 0 || c.Decay > celtlaplace.MaxDecay {
		return celtlaplace.ErrInvalidDecay
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "ring\tlow\twidth\thigh\t\n")
	r := laplace.NewRings(c.Decay)
	for {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t\n", r.Index(), r.Low(), r.Width(), r.High())
		if !r.Next() {
			break
		}
	}
	fmt.Fprintf(w, "\nmax magnitude %d, unused frequency %d/%d\n",
		laplace.MaxMagnitude(c.Decay), laplace.Total-r.High(), laplace.Total)
	return w.Flush()
}
