// Package driven defines interfaces for infrastructure the core depends on:
// the backend gateway, conversation state, and the local history archive.
// These are the "driven" ports in hexagonal architecture terminology.
//
// Implementations live in internal/adapters/driven.
package driven
