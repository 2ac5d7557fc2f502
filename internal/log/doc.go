// Package log provides the application logger: log/slog with a handler that
// redacts credentials before they reach the output.
//
// semcrawl handles two secrets, the admin password and the bearer token it is
// exchanged for. Both may end up in log attributes (request headers, error
// bodies), so every logger built here masks attributes whose key names a
// credential and string values that look like a bearer token or a JWT.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("ranking candidates", "count", 42, "token", token) // token is masked
//	slog.SetDefault(logger)
package log
