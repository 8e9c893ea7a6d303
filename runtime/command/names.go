package command

const (
	// AdminDatabase is the database privileged commands run against.
	AdminDatabase = "admin"
	// CommandCollectionSuffix turns a database name into its command
	// pseudo-collection namespace.
	CommandCollectionSuffix = ".$cmd"
	// AllIndexes selects every index of a collection in DeleteIndexes.
	AllIndexes = "*"
)

// Name is the literal name of a database command, used as the first key of a
// command document. The string values are a public contract.
type Name string

const (
	Authenticate     Name = "authenticate"
	CreateCollection Name = "create"
	DeleteIndexes    Name = "deleteIndexes"
	Drop             Name = "drop"
	DropDatabase     Name = "dropDatabase"
	LastError        Name = "getlasterror"
	ListDatabases    Name = "listDatabases"
	Logging          Name = "opLogging"
	Logout           Name = "logout"
	Nonce            Name = "getnonce"
	PrevError        Name = "getpreverror"
	Profile          Name = "profile"
	QueryTracing     Name = "queryTraceLevel"
	RepairDatabase   Name = "repairDatabase"
	ResetError       Name = "reseterror"
	Shutdown         Name = "shutdown"
	Tracing          Name = "traceAll"
	Validate         Name = "validate"
)

var names = map[string]Name{
	"Authenticate":     Authenticate,
	"CreateCollection": CreateCollection,
	"DeleteIndexes":    DeleteIndexes,
	"Drop":             Drop,
	"DropDatabase":     DropDatabase,
	"LastError":        LastError,
	"ListDatabases":    ListDatabases,
	"Logging":          Logging,
	"Logout":           Logout,
	"Nonce":            Nonce,
	"PrevError":        PrevError,
	"Profile":          Profile,
	"QueryTracing":     QueryTracing,
	"RepairDatabase":   RepairDatabase,
	"ResetError":       ResetError,
	"Shutdown":         Shutdown,
	"Tracing":          Tracing,
	"Validate":         Validate,
}

// Names returns a copy of the command table keyed by symbolic name.
func Names() map[string]Name {
	out := make(map[string]Name, len(names))
	for k, v := range names {
		out[k] = v
	}
	return out
}

// Lookup returns the command registered under symbol.
func Lookup(symbol string) (Name, bool) {
	n, ok := names[symbol]
	return n, ok
}

// Namespace returns the command pseudo-collection of db.
func Namespace(db string) string {
	return db + CommandCollectionSuffix
}
