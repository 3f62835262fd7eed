// Command httpserver runs the wallet derivation and recovery API server.
//
// The server exposes wallet registration, recovery and lookup endpoints
// backed by one or more record stores selected with repeatable
// --storage-uri flags. When several stores are configured, records are
// written to all of them and read from the first one that has the record.
//
// Usage:
//
//	httpserver [flags]
//
// Common flags:
//
//	--listen-addr    API listen address (default 127.0.0.1:8080)
//	--metrics-addr   Prometheus metrics listen address (default 127.0.0.1:8090)
//	--storage-uri    record store URI, repeatable (file://, memory://, s3://, vault://, ipfs://)
//	--pprof          enable the pprof debug endpoint
//	--log-json       log in JSON format
package main
