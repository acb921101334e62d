// Package domain contains the core business entities for DocuQuery.
// These types have no dependencies on adapters or external libraries;
// wire representations live in the gateway adapter.
package domain
