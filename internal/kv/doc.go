// Package kv provides the expiring key/value stores backing verification
// codes and session records.
package kv
