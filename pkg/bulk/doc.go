// Package bulk provides an embeddable command batching pipeline.
//
// Commands are read one per line and grouped into bulk packets that are
// delivered to an ordered chain of sinks. Outside a block, a packet is
// flushed every Threshold commands. A block opened with "{" and closed with
// "}" is flushed as one packet regardless of its size; nested markers are
// collapsed into the outermost block. The "EOF" line terminates the stream:
// pending commands are flushed, except inside an unclosed block, which is
// discarded.
//
// # Basic Usage
//
//	cfg := bulk.DefaultConfig()
//	cfg.Threshold = 3
//
//	b, err := bulk.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := b.Run(ctx, os.Stdin); err != nil {
//	    log.Fatal(err)
//	}
//
// # Sinks
//
// The built-in sinks are "console" (one line per packet on stdout) and
// "file" (one bulk<unix-seconds>.log file per packet in OutputDir). Their
// order in [Config.Sinks] is the delivery order. Additional sinks are
// registered with [WithSink] or [WithPlugin]:
//
//	import "github.com/bft-labs/bulk/plugins/sqlitesink"
//
//	b, err := bulk.New(cfg, sqlitesink.WithSQLiteSink(sqlitesink.Config{Path: "bulk.db"}))
//
// # Errors
//
// Sink failures are not retried. They abort [Bulk.Run] and are returned to
// the caller; use errors.Is with the sentinel errors of this package to
// classify configuration problems.
package bulk
