// Package config carries the CLI configuration options.
package config

import (
	"github.com/urfave/cli/v2"
)

// Options contains all the configuration options for one prove-and-verify
// run. Keys are never persisted; DumpKeysPath only controls a debug log of
// key vector sizes.
type Options struct {
	// Positional arguments
	ArithFilePath  string
	InputsFilePath string

	// Logging options
	Verbose bool

	// Debug options
	DumpKeysPath string
}

// NewOptionsFromContext creates an Options struct from CLI context.
func NewOptionsFromContext(c *cli.Context) *Options {
	return &Options{
		ArithFilePath:  c.Args().Get(0),
		InputsFilePath: c.Args().Get(1),
		Verbose:        c.Bool("verbose"),
		DumpKeysPath:   c.String("dumpKeys"),
	}
}

func (o *Options) HasArithFile() bool {
	return o.ArithFilePath != ""
}

func (o *Options) HasInputsFile() bool {
	return o.InputsFilePath != ""
}
