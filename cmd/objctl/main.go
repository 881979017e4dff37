// objctl inspects the object snapshot store.
//
// Usage:
//
//	objctl [options] list [class]
//	objctl [options] dump <key>
//	objctl [options] delete <key>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/chazu/dynobj/config"
	"github.com/chazu/dynobj/logging"
	"github.com/chazu/dynobj/serial"
	"github.com/chazu/dynobj/store"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("objctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "", "Snapshot database path (default: store.path from dynobj.toml)")
	dir := fs.String("C", ".", "Directory to search for dynobj.toml")
	verbose := fs.Bool("v", false, "Verbose output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: objctl [options] <command> [args]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  list [class]   List snapshots, optionally only those of one class\n")
		fmt.Fprintf(stderr, "  dump <key>     Print a snapshot's object graph\n")
		fmt.Fprintf(stderr, "  delete <key>   Remove a snapshot\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.FindAndLoad(*dir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	lc := cfg.Logging()
	if *verbose {
		lc.Verbosity = 2
	}
	logging.Configure(lc)

	path := *dbPath
	if path == "" {
		path = cfg.StorePath()
	}
	s, err := store.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer s.Close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "list":
		err = list(s, rest, stdout)
	case "dump":
		err = withKey(rest, func(key string) error { return dump(s, key, stdout) })
	case "delete":
		err = withKey(rest, func(key string) error { return s.Delete(key) })
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		fs.Usage()
		return 2
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(stderr, "Error: no snapshot %s\n", rest[0])
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func withKey(args []string, fn func(key string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one key, got %d", len(args))
	}
	return fn(args[0])
}

func list(s *store.Store, args []string, w io.Writer) error {
	var recs []store.Record
	var err error
	switch len(args) {
	case 0:
		recs, err = s.List()
	case 1:
		recs, err = s.FindByClass(args[0])
	default:
		return fmt.Errorf("list takes at most one class name")
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tCLASS\tBYTES\tUPDATED")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Key, r.Class, r.Size, r.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func dump(s *store.Store, key string, w io.Writer) error {
	data, err := s.Load(key)
	if err != nil {
		return err
	}
	return serial.Dump(w, data)
}
