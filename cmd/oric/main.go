// Command oric drives the front-end semantic core — type pool, unifier,
// pattern-match compiler, liveness, and drop-descriptor synthesis — over
// a project described by an oric.yaml file, emitting one IR handoff
// bundle per function for a downstream native code generator.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/ori-lang/oric/internal/arcir"
	"github.com/ori-lang/oric/internal/cache"
	"github.com/ori-lang/oric/internal/config"
	"github.com/ori-lang/oric/internal/diag"
	"github.com/ori-lang/oric/internal/emit/rpc"
	"github.com/ori-lang/oric/pkg/compiler"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s build <oric.yaml>\n", os.Args[0])
}

func main() {
	if len(os.Args) < 3 || os.Args[1] != "build" {
		usage()
		os.Exit(1)
	}

	if err := runBuild(os.Args[2]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBuild(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fixturePath := filepath.Join(filepath.Dir(configPath), cfg.Entry)
	source, err := os.ReadFile(fixturePath)
	if err != nil {
		return fmt.Errorf("reading entry %s: %w", fixturePath, err)
	}

	var fns []*arcir.Function
	if err := json.Unmarshal(source, &fns); err != nil {
		return fmt.Errorf("parsing entry fixture %s: %w", fixturePath, err)
	}

	var c *cache.Cache
	if cfg.Cache.Enabled {
		c, err = cache.Open(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer c.Close()
	}

	hash := cache.ContentHash(source)
	if c != nil {
		if _, found, err := c.Lookup(hash); err == nil && found {
			fmt.Fprintf(os.Stderr, "using cached resolved AST for %s\n", fixturePath)
		} else if err := c.Store(hash, cfg.Module, source, time.Now().Unix()); err != nil {
			return fmt.Errorf("storing cache entry: %w", err)
		}
	}

	colorMode := diag.ColorAuto
	switch cfg.Diagnostics.Color {
	case "always":
		colorMode = diag.ColorAlways
	case "never":
		colorMode = diag.ColorNever
	}

	ctx := compiler.NewContext(colorMode)
	ctx.Functions = fns

	ctx = compiler.Default().Run(ctx)

	if len(ctx.Diagnostics.Diagnostics()) > 0 {
		fmt.Fprint(os.Stderr, ctx.Diagnostics.Format())
	}

	if err := deliverBundles(cfg, ctx); err != nil {
		return err
	}

	if ctx.Diagnostics.HasErrors() {
		return fmt.Errorf("build failed with errors")
	}
	return nil
}

// deliverBundles writes each function's serialized IR bundle either to
// disk (emit.target is a plain path) or to a codegen service over gRPC
// (emit.target looks like "host:port").
func deliverBundles(cfg *config.ProjectConfig, ctx *compiler.Context) error {
	target := cfg.Emit.Target
	if looksLikeNetworkAddress(target) {
		client, err := rpc.Dial(target)
		if err != nil {
			return fmt.Errorf("dialing emit target %s: %w", target, err)
		}
		defer client.Close()

		for name, bundle := range ctx.Bundles {
			accepted, msg, err := client.Submit(context.Background(), bundle)
			if err != nil {
				return fmt.Errorf("submitting bundle for %s: %w", name, err)
			}
			if !accepted {
				return fmt.Errorf("codegen service rejected bundle for %s: %s", name, msg)
			}
		}
		return nil
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("creating emit output dir %s: %w", target, err)
	}
	for name, bundle := range ctx.Bundles {
		out := filepath.Join(target, name+".irbundle")
		if err := os.WriteFile(out, bundle, 0o644); err != nil {
			return fmt.Errorf("writing bundle %s: %w", out, err)
		}
	}
	return nil
}

func looksLikeNetworkAddress(target string) bool {
	host, port, err := net.SplitHostPort(target)
	return err == nil && host != "" && port != ""
}
