package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"github.com/hmny-labs/ltl2pddl/pkg/automaton"
	"github.com/hmny-labs/ltl2pddl/pkg/compiler"
	"github.com/hmny-labs/ltl2pddl/pkg/emitter"
	"github.com/hmny-labs/ltl2pddl/pkg/surface"
)

var Description = strings.ReplaceAll(`
ltl2pddl reads a planning domain and instance whose goal is a Linear Temporal Logic
formula, compiles it against an external Buchi automaton translator, and rewrites the pair
into a plain classical planning domain and instance with an equivalent finite reachability
goal.
`, "\n", " ")

var LTL2PDDL = cli.New(Description).
	WithArg(cli.NewArg("domain", "The source domain (.pddl) file, with an LTL-goal action")).
	WithArg(cli.NewArg("instance", "The source instance (.pddl) file, with the LTL goal itself")).
	WithOption(cli.NewOption("df", "Output path for the compiled domain (defaults alongside the input)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("pf", "Output path for the compiled instance (defaults alongside the input)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("translator", "Path to the ltl2ba-compatible Buchi translator binary").
		WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 2 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	domainText, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("ERROR: Unable to open domain file: %s\n", err)
		return -1
	}
	instanceText, err := os.ReadFile(args[1])
	if err != nil {
		fmt.Printf("ERROR: Unable to open instance file: %s\n", err)
		return -1
	}

	d, err := surface.Parse(string(domainText), string(instanceText))
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'parsing' pass: %s\n", err)
		return -1
	}

	translator := automaton.New(options["translator"])
	if err := compiler.Compile(d, translator.Translate); err != nil {
		fmt.Printf("ERROR: Unable to complete 'compile' pass: %s\n", err)
		return -1
	}

	domainOut := outputPath(options["df"], args[0], "-compiled")
	instanceOut := outputPath(options["pf"], args[1], "-compiled")

	if err := os.WriteFile(domainOut, []byte(emitter.EmitDomain(d)), 0o644); err != nil {
		fmt.Printf("ERROR: Unable to write compiled domain: %s\n", err)
		return -1
	}
	if err := os.WriteFile(instanceOut, []byte(emitter.EmitProblem(d, d.Name+"-instance")), 0o644); err != nil {
		fmt.Printf("ERROR: Unable to write compiled instance: %s\n", err)
		return -1
	}

	fmt.Printf("Compiled domain written to %s\n", domainOut)
	fmt.Printf("Compiled instance written to %s\n", instanceOut)
	return 0
}

// outputPath resolves an output file location: the explicit '-df'/'-pf' flag if given,
// otherwise the input path with 'suffix' spliced in before its extension.
func outputPath(explicit, input, suffix string) string {
	if explicit != "" {
		return explicit
	}
	if dot := strings.LastIndex(input, "."); dot >= 0 {
		return input[:dot] + suffix + input[dot:]
	}
	return input + suffix
}

func main() { os.Exit(LTL2PDDL.Run(os.Args, os.Stdout)) }
