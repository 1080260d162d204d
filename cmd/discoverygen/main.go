// Command discoverygen compiles Google Discovery Documents into
// statically-typed TypeScript client modules.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/discoverygen/discoverygen/internal/discovery"
	"github.com/discoverygen/discoverygen/internal/module"
)

const version = "0.0.1-dev"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		return runGenerate(os.Args[1:])
	}

	switch os.Args[1] {
	case "generate":
		return runGenerate(os.Args[2:])
	case "batch":
		return runBatch(os.Args[2:])
	case "--version", "-v":
		fmt.Println("discoverygen", version)
		return 0
	case "--help", "-h":
		printUsage()
		return 0
	default:
		if strings.HasPrefix(os.Args[1], "-") {
			return runGenerate(os.Args[1:])
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		return 1
	}
}

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	input := fs.String("input", "", "path to the Discovery document (required)")
	output := fs.String("output", "", "path to write the generated TypeScript module (default: stdout)")
	selfURL := fs.String("self-url", "", "canonical URL the generated module was produced from")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *input == "" {
		fmt.Fprintln(os.Stderr, "generate: -input is required")
		return 1
	}

	src, err := generateOne(*input, *selfURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "discoverygen:", err)
		return 1
	}

	if *output == "" {
		fmt.Print(src)
		return 0
	}
	if err := os.WriteFile(*output, []byte(src), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "discoverygen:", err)
		return 1
	}
	return 0
}

// runBatch compiles several Discovery documents into several output files
// concurrently. Each generator invocation is independent: there is no
// shared mutable state across documents, so the work parallelizes cleanly.
func runBatch(args []string) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	var inputs, outputs stringList
	fs.Var(&inputs, "input", "path to a Discovery document (repeatable)")
	fs.Var(&outputs, "output", "path to write the matching generated module (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if len(inputs) == 0 || len(inputs) != len(outputs) {
		fmt.Fprintln(os.Stderr, "batch: -input and -output must be given the same number of times, at least once")
		return 1
	}

	g, _ := errgroup.WithContext(context.Background())
	for i := range inputs {
		i := i
		g.Go(func() error {
			src, err := generateOne(inputs[i], "")
			if err != nil {
				return fmt.Errorf("%s: %w", inputs[i], err)
			}
			return os.WriteFile(outputs[i], []byte(src), 0o644)
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, "discoverygen:", err)
		return 1
	}
	return 0
}

func generateOne(inputPath, selfURL string) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", err
	}
	doc, err := discovery.Load(data)
	if err != nil {
		return "", err
	}
	return module.Generate(doc, module.Options{SelfURL: selfURL})
}

// stringList accumulates repeated -flag values into a slice.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func printUsage() {
	fmt.Println("discoverygen - compiles Google Discovery Documents into TypeScript clients")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  discoverygen [flags]                Generate a client (default)")
	fmt.Println("  discoverygen generate [flags]        Generate a client")
	fmt.Println("  discoverygen batch [flags]           Generate several clients concurrently")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  --version, -v          Print version and exit")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println()
	fmt.Println("Generate Flags:")
	fmt.Println("  -input <path>          Path to the Discovery document (required)")
	fmt.Println("  -output <path>         Path to write the generated module (default: stdout)")
	fmt.Println("  -self-url <url>        Canonical URL the document was fetched from")
	fmt.Println()
	fmt.Println("Batch Flags:")
	fmt.Println("  -input <path>          Path to a Discovery document (repeatable)")
	fmt.Println("  -output <path>         Matching output path (repeatable, same order as -input)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  discoverygen -input bigquery.json -output bigquery.ts")
	fmt.Println("  discoverygen batch -input a.json -output a.ts -input b.json -output b.ts")
	fmt.Println()
}
