package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
	"goa.design/clue/log"

	cmdmongo "goa.design/mongoutil/features/command/mongo"
	redisconfig "goa.design/mongoutil/features/config/redis"
	"goa.design/mongoutil/runtime/config"
	"goa.design/mongoutil/runtime/document"
	"goa.design/mongoutil/runtime/index"
)

type app struct {
	settings config.Settings
	reader   *config.Reader
	out      io.Writer
	closers  []func()
}

// dial connects to MongoDB. Tests replace it.
var dial = func(ctx context.Context, s config.Settings) (*cmdmongo.Runner, error) {
	return cmdmongo.Connect(ctx, cmdmongo.Options{URI: s.URI, Timeout: s.Timeout})
}

func newApp(ctx context.Context, envFile, configFile string) (*app, error) {
	var (
		overlay config.MapSource
		sources = []config.Source{config.EnvSource{}}
		err     error
	)
	if envFile != "" {
		if overlay, err = config.LoadDotEnv(envFile); err != nil {
			return nil, err
		}
		sources = append(sources, overlay)
	}
	settings, err := config.LoadSettings(overlay)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		src, err := config.LoadYAML(configFile)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	a := &app{settings: settings}
	if settings.RedisURL != "" {
		ropts, err := redis.ParseURL(settings.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(ropts)
		a.closers = append(a.closers, func() {
			if err := rdb.Close(); err != nil {
				log.Errorf(ctx, err, "close redis")
			}
		})
		src, err := redisconfig.New(ctx, rdb, settings.RedisKey)
		if err != nil {
			a.close()
			return nil, err
		}
		sources = append(sources, src)
	}
	a.reader = config.NewReader(sources...)
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) indexName(args []string) error {
	fs := flag.NewFlagSet("index-name", flag.ContinueOnError)
	canonicalF := fs.Bool("canonical", bool(a.settings.CanonicalIndexNames), "Append the suffix for single field paths")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("index-name takes exactly one argument")
	}
	var keys any = fs.Arg(0)
	if strings.HasPrefix(strings.TrimSpace(fs.Arg(0)), "{") {
		d, err := parseJSON(fs.Arg(0))
		if err != nil {
			return err
		}
		keys = d
	}
	build := index.Name
	if *canonicalF {
		build = index.CanonicalName
	}
	_, err := fmt.Fprintln(a.out, build(keys))
	return err
}

func (a *app) stringify(args []string) error {
	d, err := oneDocument("stringify", args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, d.String())
	return err
}

func (a *app) normalize(args []string) error {
	d, err := oneDocument("normalize", args)
	if err != nil {
		return err
	}
	out, err := bson.MarshalExtJSON(d.BSON(), false, false)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(out))
	return err
}

func (a *app) runCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	dbF := fs.String("db", a.settings.Database, "Database the command runs against")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd, err := oneDocument("run", fs.Args())
	if err != nil {
		return err
	}
	runner, err := dial(ctx, a.settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Close(ctx); err != nil {
			log.Errorf(ctx, err, "disconnect mongo")
		}
	}()
	resp, err := runner.Run(ctx, cmd, *dbF)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, resp.String())
	return err
}

func (a *app) flag(args []string) error {
	if len(args) != 1 {
		return errors.New("flag takes exactly one setting name")
	}
	_, err := fmt.Fprintln(a.out, a.reader.Bool(args[0]))
	return err
}

func oneDocument(cmd string, args []string) (document.Document, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s takes exactly one JSON document", cmd)
	}
	return parseJSON(args[0])
}

// parseJSON reads relaxed or canonical Extended JSON, keeping key order.
func parseJSON(s string) (document.Document, error) {
	var d bson.D
	if err := bson.UnmarshalExtJSON([]byte(s), false, &d); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return document.Normalize(d)
}
