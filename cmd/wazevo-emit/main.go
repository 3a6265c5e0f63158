package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wazevo-emit/ssaemit/internal/compile"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

const version = "0.1.0"

func main() {
	doMain(os.Stdout, os.Stderr, os.Exit)
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut, stdErr io.Writer, exit func(code int)) {
	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "h", false, "print usage")
	flag.Parse()

	if help || flag.NArg() == 0 {
		printUsage(stdErr)
		exit(0)
		return
	}

	switch subCmd := flag.Arg(0); subCmd {
	case "emit":
		doEmit(flag.Args()[1:], stdOut, stdErr, exit)
	case "version":
		fmt.Fprintln(stdOut, version)
		exit(0)
	default:
		fmt.Fprintf(stdErr, "invalid command %q\n", subCmd)
		printUsage(stdErr)
		exit(1)
	}
}

// doEmit lowers a single function body, given as raw opcode bytes, into SSA text and
// prints it. There is no binary-module reader in this repo (spec.md's decoder scope
// starts at an already-sliced function body, not a whole .wasm file's sections), so the
// function under test is described directly on the command line rather than read out of
// a real binary.
func doEmit(args []string, stdOut, stdErr io.Writer, exit func(code int)) {
	flags := flag.NewFlagSet("emit", flag.ExitOnError)
	flags.SetOutput(stdErr)

	var help bool
	flags.BoolVar(&help, "h", false, "print usage")

	var params, results, bodyHex string
	flags.StringVar(&params, "params", "", "comma-separated param types (i32,i64,f32,f64,v128)")
	flags.StringVar(&results, "results", "", "comma-separated result types")
	flags.StringVar(&bodyHex, "body", "", "function body as a hex string of raw opcode bytes")

	_ = flags.Parse(args)

	if help {
		printEmitUsage(stdErr, flags)
		exit(0)
		return
	}
	if bodyHex == "" {
		fmt.Fprintln(stdErr, "missing -body")
		printEmitUsage(stdErr, flags)
		exit(1)
		return
	}

	body, err := hex.DecodeString(strings.TrimSpace(bodyHex))
	if err != nil {
		fmt.Fprintf(stdErr, "invalid -body hex: %v\n", err)
		exit(1)
		return
	}

	paramTypes, err := parseValueTypes(params)
	if err != nil {
		fmt.Fprintf(stdErr, "invalid -params: %v\n", err)
		exit(1)
		return
	}
	resultTypes, err := parseValueTypes(results)
	if err != nil {
		fmt.Fprintf(stdErr, "invalid -results: %v\n", err)
		exit(1)
		return
	}

	module := &wasm.Module{
		TypeSection:     []wasm.FunctionType{{Params: paramTypes, Results: resultTypes}},
		FunctionSection: []wasm.Index{0},
		CodeSection:     []wasm.Code{{Body: body}},
	}

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	out, err := compile.CompileAll(compile.Module{Wasm: module, Instance: &wasm.ModuleInstance{}}, compile.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stdErr, "compile failed: %v\n", err)
		exit(1)
		return
	}
	for _, r := range out {
		fmt.Fprintln(stdOut, r.Builder.Format())
	}
	exit(0)
}

func parseValueTypes(s string) ([]wasm.ValueType, error) {
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	types := make([]wasm.ValueType, len(fields))
	for i, f := range fields {
		switch strings.TrimSpace(f) {
		case "i32":
			types[i] = wasm.ValueTypeI32
		case "i64":
			types[i] = wasm.ValueTypeI64
		case "f32":
			types[i] = wasm.ValueTypeF32
		case "f64":
			types[i] = wasm.ValueTypeF64
		case "v128":
			types[i] = wasm.ValueTypeV128
		default:
			return nil, fmt.Errorf("unknown value type %q", f)
		}
	}
	return types, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "wazevo-emit is a WebAssembly-to-SSA emitter.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:\n\twazevo-emit <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "\temit\t\tlower a function body into SSA text")
	fmt.Fprintln(w, "\tversion\t\tprint the version")
}

func printEmitUsage(w io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(w, "Usage:\n\twazevo-emit emit -body <hex> [-params <types>] [-results <types>]")
	fmt.Fprintln(w)
	flags.PrintDefaults()
}
