package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/viant/afs"

	"github.com/CognitoIQ/xsdmodel/internal/report"
	"github.com/CognitoIQ/xsdmodel/xsd"
)

func main() {
	log.SetFlags(0)
	if err := run(context.Background(), afs.New(), os.Args[1:], os.Stderr); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, fs afs.Service, args []string, stderr io.Writer) error {
	opts := &Options{}
	rest, err := flags.ParseArgs(opts, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, fs, opts.ConfigURL)
	if err != nil {
		return err
	}
	cfg.override(opts, rest)
	if cfg.Schema == "" {
		return fmt.Errorf("usage: xsdresolve [-c config.yaml] [-o dir] [-v level] [-k] schema.xsd")
	}

	logger := log.New(stderr, "", 0)
	r, err := xsd.Load(ctx, cfg.Schema,
		xsd.Filesystem(fs),
		xsd.DocumentCache(cfg.DocumentCache),
		xsd.LogOutput(logger),
		xsd.LogLevel(cfg.LogLevel),
		xsd.ContinueOnError(cfg.ContinueOnError))
	if err != nil {
		return err
	}
	if err := r.Parse(ctx); err != nil {
		return err
	}
	if err := report.Write(ctx, fs, cfg.Output, r); err != nil {
		return err
	}
	if cfg.LogLevel > 0 {
		diag := r.Diagnostics()
		logger.Printf("%d elements, %d types, %d schemas, %d unhandled tags, %d errors",
			len(r.Elements()), len(r.Types()), len(r.Schemas()), len(diag.Unhandled), len(diag.Errors))
	}
	return nil
}
