// Package mongo wraps MongoDB connection management: environment-driven
// configuration, retrying connects for transient startup failures, and a
// ping-based healthcheck for the liveness probe. Everything else is the
// official driver; this package only owns how a connection comes up.
package mongo
