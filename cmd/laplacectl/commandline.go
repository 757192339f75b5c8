package main

type options struct {
	Verbose func() `short:"v" long:"verbose" description:"log debug output"`

	Encode encodeCommand `command:"encode" description:"range code residuals given as arguments or one per line on stdin"`
	Decode decodeCommand `command:"decode" description:"decode residuals from a hex argument or a raw stream file"`
	Table  tableCommand  `command:"table" description:"print the ring layout of the model for one decay"`
	Sweep  sweepCommand  `command:"sweep" description:"verify encode/decode round trips over a profile"`
}
