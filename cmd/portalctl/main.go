package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/suparena/portalnetwork"
	"github.com/suparena/portalnetwork/config"
	"github.com/suparena/portalnetwork/datastore"
	"github.com/suparena/portalnetwork/datastore/ddb"
	"github.com/suparena/portalnetwork/datastore/sqlite"
	"github.com/suparena/portalnetwork/datastore/yamlfile"
)

const usage = `usage: portalctl <command> [flags]

commands:
  version                     show version information
  dump [-backend name]        print the portal records of a document
  migrate -from name -to name copy the document between backends

backends: yaml, dynamodb, sqlite (configured through PORTAL_* and AWS_* variables)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "portalctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, out io.Writer) error {
	switch command {
	case "version", "-version", "-v":
		info := portalnetwork.GetVersionInfo()
		fmt.Fprintf(out, "portalctl version %s\n", info.Version)
		fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
		fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
		fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		return nil
	case "dump":
		return dump(ctx, args, out)
	case "migrate":
		return migrate(ctx, args, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return cfg, nil
}

func dump(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	backend := fs.String("backend", "", "backend to read (default PORTAL_BACKEND)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	b := cfg.Backend
	if *backend != "" {
		b = config.Backend(*backend)
	}

	manager := datastore.NewManager()
	closeStores, err := registerStores(ctx, manager, cfg, b)
	if err != nil {
		return err
	}
	defer closeStores()

	store, err := manager.Get(string(b))
	if err != nil {
		return err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load from %s: %w", b, err)
	}

	records, malformed := portalnetwork.DecodeRecords(doc)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tWORLD\tX\tY\tZ\tVALID\tDIALED")
	for _, r := range records {
		dialed := "-"
		if r.Dialed != nil {
			dialed = fmt.Sprint(*r.Dialed)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\t%t\t%s\n",
			r.Key, r.Type, r.Location.World, r.Location.X, r.Location.Y, r.Location.Z, r.Valid, dialed)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for _, err := range malformed {
		slog.Warn("malformed record", "error", err)
	}
	fmt.Fprintf(out, "%d records, %d malformed\n", len(records), len(malformed))
	return nil
}

func migrate(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	from := fs.String("from", "", "source backend")
	to := fs.String("to", "", "destination backend")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from == "" || *to == "" {
		return fmt.Errorf("migrate requires -from and -to")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manager := datastore.NewManager()
	closeStores, err := registerStores(ctx, manager, cfg, config.Backend(*from), config.Backend(*to))
	if err != nil {
		return err
	}
	defer closeStores()

	if err := manager.Copy(ctx, *from, *to); err != nil {
		return err
	}
	fmt.Fprintf(out, "copied document from %s to %s\n", *from, *to)
	return nil
}

// registerStores opens each backend and registers it under its name. The
// returned function closes any stores holding connections.
func registerStores(ctx context.Context, manager *datastore.Manager, cfg config.Config, backends ...config.Backend) (func(), error) {
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Warn("failed to close store", "error", err)
			}
		}
	}

	for _, b := range backends {
		if err := cfg.ValidateBackend(b); err != nil {
			closeAll()
			return nil, err
		}
		if _, err := manager.Get(string(b)); err == nil {
			continue
		}

		var store datastore.DocumentStore
		switch b {
		case config.BackendYAML:
			store = yamlfile.New(cfg.DataFile)
		case config.BackendSQLite:
			s, err := sqlite.Open(cfg.SQLitePath, cfg.Document)
			if err != nil {
				closeAll()
				return nil, err
			}
			closers = append(closers, s.Close)
			store = s
		case config.BackendDynamoDB:
			s, err := ddb.NewDynamodbDocumentStore(ctx, cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.AWS.Region, cfg.AWS.Table, cfg.Document)
			if err != nil {
				closeAll()
				return nil, err
			}
			store = s
		}

		if err := manager.Register(string(b), store); err != nil {
			closeAll()
			return nil, err
		}
	}
	return closeAll, nil
}
