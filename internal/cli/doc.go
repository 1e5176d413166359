// Package cli wires configuration, storage, the backend client and the run
// journal into the pbmigrate commands.
//
// Every command validates its own input before talking to the backend, so
// malformed options or a missing schema document fail without a single
// remote call. Exit status is 0 on success and 1 on any failure; apply
// treats failures of single collections as success unless --strict is set.
package cli
