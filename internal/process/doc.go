// Package process tracks spawned agent processes durably across
// application restarts.
//
// The registry is a single JSON document in the user cache directory,
// loaded once at startup and rewritten after every mutation. Liveness is
// checked against the OS process table with signal 0; a check that
// cannot be performed counts as alive. The adoption side reconciles the
// agent's external session-state directory against the registry to find
// live sessions this process does not know about.
package process
