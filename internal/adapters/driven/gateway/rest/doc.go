// Package rest implements the backend gateway over the DocuQuery HTTP API.
//
// The client is a thin typed wrapper: one request per operation, no retry
// and no caching. Responses are decoded into wire structs and converted to
// domain types at the boundary.
package rest
