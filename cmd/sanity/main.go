// Package main is a terminal demo of the block editing surface: it
// loads a document from JSON or markdown, routes keys through the
// plugin pipeline, and prints the emitted patches on exit.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/clipboard"
	"github.com/crazyrex/sanity/internal/config"
	"github.com/crazyrex/sanity/internal/patch"
	"github.com/crazyrex/sanity/internal/pipeline"
	"github.com/crazyrex/sanity/internal/schema"
	"github.com/crazyrex/sanity/internal/script"
)

func main() {
	os.Exit(run())
}

type options struct {
	docPath    string
	configPath string
	scriptPath string
	dumpJSON   bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "TOML configuration file")
	flag.StringVar(&opts.scriptPath, "script", "", "Lua behavior script")
	flag.BoolVar(&opts.dumpJSON, "json", false, "print the final document as JSON on exit")
	flag.Parse()
	opts.docPath = flag.Arg(0)
	return opts
}

func run() int {
	opts := parseFlags()

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sanity: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	s := schema.Default()
	if cfg.SchemaPath != "" {
		loaded, err := schema.Load(cfg.SchemaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sanity: %v\n", err)
			return 1
		}
		s = loaded
	}

	value, err := loadDocument(opts.docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sanity: %v\n", err)
		return 1
	}

	var extra []pipeline.Plugin
	if opts.scriptPath != "" {
		host := script.NewHost()
		defer host.Close()
		if err := host.LoadFile(opts.scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "sanity: %v\n", err)
			return 1
		}
		extra = host.Plugins()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sanity: %v\n", err)
		return 1
	}

	var emitted []patch.Patch
	surface, err := newSurface(screen, value, s, cfg, extra, func(patches []patch.Patch) {
		emitted = append(emitted, patches...)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sanity: %v\n", err)
		return 1
	}

	final, err := surface.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sanity: %v\n", err)
		return 1
	}

	reportPatches(emitted)
	if opts.dumpJSON {
		return dumpJSON(final)
	}
	return 0
}

// loadDocument reads a block document. JSON files load as persisted
// blocks; anything else is treated as markdown. No path starts empty.
func loadDocument(path string) ([]block.Block, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		blocks, err := block.ParseAll(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return blocks, nil
	}
	return clipboard.FromMarkdown(data), nil
}

func reportPatches(patches []patch.Patch) {
	if len(patches) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "%d patches emitted:\n", len(patches))
	for _, p := range patches {
		line, err := json.Marshal(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %s (unprintable: %v)\n", p.Kind, p.Path, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s\n", line)
	}
}

func dumpJSON(blocks []block.Block) int {
	data, err := block.MarshalAll(blocks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sanity: %v\n", err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}
