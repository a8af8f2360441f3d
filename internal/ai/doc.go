// Package ai defines the capability interfaces for the external
// generative collaborators (content generation, search, negotiation,
// adjudication) and an HTTP/JSON client implementing them.
//
// Collaborator calls are fallible by contract. The documented fallbacks
// (fixed search results, connection-error reply, default uphold verdict)
// live here as data, but the decision to apply them belongs to each
// caller, keeping degradation visible instead of buried in the client.
package ai
