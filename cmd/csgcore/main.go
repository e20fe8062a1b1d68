// cmd/csgcore/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"csgcore/internal/errors"
	"csgcore/internal/lexer"
	"csgcore/internal/parser"
)

const VERSION = "0.1.0"

// fileIncluder resolves #include relative to the directory of the file
// that contains it.
type fileIncluder struct{ dir string }

func (f fileIncluder) ReadInclude(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "csgcore %s\nusage: csgcore <scene-file>\n", VERSION)
		os.Exit(1)
	}
	path := os.Args[1]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tokens := lexer.NewScanner(string(src)).ScanTokens()
	p := parser.New(tokens, path, fileIncluder{dir: filepath.Dir(path)})

	result, err := p.Parse()
	if err != nil {
		if ce, ok := err.(*errors.CoreError); ok {
			fmt.Fprintf(os.Stderr, "%s\n", ce.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	for _, w := range p.Warnings {
		fmt.Fprintf(os.Stderr, "%s\n", w.String())
	}

	fmt.Printf("parsed %q: %d root object(s), %d light(s)\n", path, len(result.Root), len(result.Lights))
	fmt.Printf("camera: kind=%d location=%v\n", result.Camera.Kind, result.Camera.Location)
	fmt.Printf("global_settings: assumed_gamma=%g max_trace_level=%d\n", result.Global.AssumedGamma, result.Global.MaxTraceLevel)
}
