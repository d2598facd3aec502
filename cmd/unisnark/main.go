package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/arithzk/unisnark/internal/config"
	"github.com/arithzk/unisnark/internal/pipeline"
)

const (
	exitOK         = 0
	exitFailure    = 255 // the traditional -1 exit status
	exitNoCircuit  = 5
	exitUsageError = 2
)

func main() {
	app := &cli.App{
		Name:      "unisnark",
		Usage:     "Proves and verifies a universal arithmetic circuit",
		ArgsUsage: "<arith-file> <inputs-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log per-phase progress",
			},
			&cli.StringFlag{
				Name:  "dumpKeys",
				Usage: "Optional path to log key vector sizes to (debugging only; keys are never persisted)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				cli.ShowAppHelp(c)
				os.Exit(exitUsageError)
			}
			os.Exit(run(config.NewOptionsFromContext(c)))
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(opts *config.Options) int {
	logf := func(string, ...any) {}
	if opts.Verbose {
		logf = log.Printf
	}

	arithFile, err := os.Open(opts.ArithFilePath)
	if err != nil {
		log.Printf("cannot open circuit file %q: %v", opts.ArithFilePath, err)
		return exitNoCircuit
	}
	defer arithFile.Close()

	inputsFile, err := os.Open(opts.InputsFilePath)
	if err != nil {
		log.Printf("cannot open inputs file %q: %v", opts.InputsFilePath, err)
		return exitFailure
	}
	defer inputsFile.Close()

	result, err := pipeline.Execute(arithFile, inputsFile, logf)
	if err != nil {
		log.Printf("proving failed: %v", err)
		return exitFailure
	}
	if opts.DumpKeysPath != "" {
		if err := dumpKeys(opts.DumpKeysPath, result); err != nil {
			log.Printf("dumping key sizes: %v", err)
		}
	}
	if !result.Accepted {
		log.Printf("proof did not verify")
		return exitFailure
	}
	return exitOK
}

func dumpKeys(path string, result *pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	nSpec, nStmt, nWitness, nRnd, nAux := result.Reader.Groups.Counts()
	_, err = fmt.Fprintf(f, "constraints=%d vars=%d spec=%d stmt=%d witness=%d rnd=%d aux=%d accepted=%v\n",
		len(result.Reader.CS.Constraints), result.Reader.NumVars, nSpec, nStmt, nWitness, nRnd, nAux, result.Accepted)
	return err
}
