// Package storage persists wallet records across pluggable backends.
//
// A wallet record holds only non-secret registration state (address, salt,
// threshold, commitments), so backends do not need to provide
// confidentiality, only durability. Records are keyed by wallet address and
// written once at registration.
//
// # Storage URI Format
//
// Backends are specified using URIs:
//
//   - file:///var/lib/keyweaver/
//   - memory://
//   - s3://ACCESS_KEY:SECRET_KEY@bucket-name/prefix/?region=us-west-2
//   - vault://TOKEN@vault.example.com:8200/secret/keyweaver
//   - ipfs://ipfs.example.com:5001/
//
// The factory creates a backend per URI, and several backends can be
// aggregated into a replicating multi-store: writes go to every backend,
// reads return the first hit. A wallet registered while one replica is down
// remains recoverable from the others.
//
// The memory backend holds records in-process and exists for tests and
// development. The IPFS backend keys records through the node's mutable
// files API so that addresses stay stable across updates.
package storage
