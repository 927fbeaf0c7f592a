// Package mock provides test doubles for the ai interfaces. The doubles
// default to cheap deterministic behavior and accept function fields for
// per-test behavior injection.
package mock
