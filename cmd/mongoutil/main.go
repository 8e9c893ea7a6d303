// Command mongoutil exposes the driver helpers on the command line.
//
// # Usage
//
//	mongoutil [global flags] <command> [arguments]
//
// Commands:
//
//	index-name [-canonical] <keys>   index name for a field path or a JSON key object
//	stringify <json>                 diagnostic array( "k" => v ) rendering
//	normalize <json>                 normalized document as Extended JSON
//	run [-db name] <json>            run an admin command and print the response
//	flag <name>                      value of a boolean setting
//
// # Configuration
//
// Environment variables (also read from -env-file):
//
//	MONGOUTIL_URI                    - MongoDB connection string (default: "mongodb://localhost:27017")
//	MONGOUTIL_DATABASE               - default database for run (default: "admin")
//	MONGOUTIL_TIMEOUT                - per-command timeout (default: "10s")
//	MONGOUTIL_DEBUG                  - debug logs (on/off)
//	MONGOUTIL_CANONICAL_INDEX_NAMES  - make index-name print canonical names (on/off)
//	MONGOUTIL_REDIS_URL              - Redis address serving shared settings (optional)
//	MONGOUTIL_REDIS_KEY              - Redis hash holding the settings (default: "mongoutil:settings")
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"goa.design/clue/log"
)

func main() {
	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format), log.WithOutput(os.Stderr))
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Errorf(ctx, err, "mongoutil")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("mongoutil", flag.ContinueOnError)
	var (
		dbgF     = fs.Bool("debug", false, "Enable debug logs")
		envFileF = fs.String("env-file", "", "Read settings from a dotenv file")
		configF  = fs.String("config", "", "Read boolean settings from a YAML file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	app, err := newApp(ctx, *envFileF, *configF)
	if err != nil {
		return err
	}
	defer app.close()
	if *dbgF || bool(app.settings.Debug) {
		ctx = log.Context(ctx, log.WithDebug())
		log.Debugf(ctx, "debug logs enabled")
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}
	app.out = stdout
	name, rest := fs.Arg(0), fs.Args()[1:]
	switch name {
	case "index-name":
		return app.indexName(rest)
	case "stringify":
		return app.stringify(rest)
	case "normalize":
		return app.normalize(rest)
	case "run":
		return app.runCommand(ctx, rest)
	case "flag":
		return app.flag(rest)
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}
