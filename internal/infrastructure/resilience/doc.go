// Package resilience provides a consecutive-failure circuit breaker used
// to shield the service from a misbehaving generative collaborator.
package resilience
