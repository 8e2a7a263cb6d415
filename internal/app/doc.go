// Package app wires the configuration resolver, the training loop, and the
// optional tracking side channel into one training invocation.
package app
