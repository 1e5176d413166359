// Package reconcile applies a desired schema document to a backend and
// implements the single-collection maintenance operations.
//
// Apply works in two passes over the desired document. The first creates
// every collection missing remotely, recording each new identifier as soon
// as the backend assigns it so later collections in the same pass can point
// at it. The second updates every collection that now exists, resolving
// relation targets again so references to collections created after their
// referrer are fixed. Failures of single collections are logged and
// collected in the Report; they never stop the run.
package reconcile
