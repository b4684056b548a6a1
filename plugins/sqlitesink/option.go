package sqlitesink

import "github.com/bft-labs/bulk/pkg/bulk"

// WithSQLiteSink returns a bulk Option that stores every packet in a SQLite
// database. The sink is appended to the chain unless Config.Sinks already
// places "sqlite".
//
// Usage:
//
//	b, err := bulk.New(cfg,
//	    sqlitesink.WithSQLiteSink(sqlitesink.Config{Path: "/var/lib/bulk/packets.db"}),
//	)
func WithSQLiteSink(cfg Config) bulk.Option {
	return bulk.WithPlugin(New(cfg))
}
