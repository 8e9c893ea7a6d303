// Package mongo hosts the MongoDB client that implements command.Conn.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"goa.design/clue/health"

	"goa.design/mongoutil/runtime/command"
	"goa.design/mongoutil/runtime/document"
)

const (
	defaultOpTimeout  = 10 * time.Second
	commandClientName = "command-mongo"
	commandCollection = "$cmd"
)

// Client exposes the single-document find primitive commands run through.
type Client interface {
	health.Pinger
	command.Conn
}

// Options configures the Mongo command client.
type Options struct {
	Client  *mongodriver.Client
	Timeout time.Duration
}

type (
	client struct {
		mongo   *mongodriver.Client
		db      database
		timeout time.Duration
	}

	// database abstracts the driver calls so tests can fake them.
	database interface {
		RunCommand(ctx context.Context, db string, cmd any) singleResult
		FindOne(ctx context.Context, db, coll string, filter any) singleResult
	}

	singleResult interface {
		Raw() (bson.Raw, error)
	}

	mongoDatabase struct {
		client *mongodriver.Client
	}
)

var _ command.Conn = (*client)(nil)

// New returns a Client backed by MongoDB.
func New(opts Options) (Client, error) {
	if opts.Client == nil {
		return nil, errors.New("mongo client is required")
	}
	return newClientWithDatabase(opts.Client, mongoDatabase{client: opts.Client}, opts.Timeout)
}

func newClientWithDatabase(mongoClient *mongodriver.Client, db database, timeout time.Duration) (*client, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return &client{mongo: mongoClient, db: db, timeout: timeout}, nil
}

func (c *client) Name() string {
	return commandClientName
}

func (c *client) Ping(ctx context.Context) error {
	if c.mongo == nil {
		return errors.New("mongo client is not connected")
	}
	return c.mongo.Ping(ctx, readpref.Primary())
}

// FindOne runs query as a command when namespace is "<db>.$cmd" and as a
// find on the collection otherwise. No matching document yields nil.
func (c *client) FindOne(ctx context.Context, namespace string, query document.Document) (document.Document, error) {
	db, coll, err := splitNamespace(namespace)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var res singleResult
	if coll == commandCollection {
		res = c.db.RunCommand(ctx, db, query.BSON())
	} else {
		res = c.db.FindOne(ctx, db, coll, query.BSON())
	}
	raw, err := res.Raw()
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return document.FromBSON(raw)
}

func (c *client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func splitNamespace(ns string) (db, coll string, err error) {
	db, coll, ok := strings.Cut(ns, ".")
	if !ok || db == "" || coll == "" {
		return "", "", fmt.Errorf("invalid namespace %q: want <db>.<collection>", ns)
	}
	return db, coll, nil
}

func (m mongoDatabase) RunCommand(ctx context.Context, db string, cmd any) singleResult {
	return m.client.Database(db).RunCommand(ctx, cmd)
}

func (m mongoDatabase) FindOne(ctx context.Context, db, coll string, filter any) singleResult {
	return m.client.Database(db).Collection(coll).FindOne(ctx, filter)
}
