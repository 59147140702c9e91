// Package echo owns the connection-lifecycle and line-framing core.
//
// Ownership boundary:
// - bounded line framing (one message per connection)
// - response policy, including overflow sentinel and benign peer-gone writes
// - sequential accept loop and per-connection driving
// - explicit listener setup (SO_REUSEADDR, accept backlog)
//
// The echo core does not serve HTTP; the admin plane lives in internal/admin.
package echo
