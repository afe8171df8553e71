// Package logging provides the structured logging setup for cozeauth.
//
// It is a thin layer over Go's standard slog package: InitForCLI installs
// a text handler with level filtering, and the Debug/Info/Warn/Error
// helpers tag every entry with a subsystem for categorization.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Login", "starting authorization flow")
//	logging.Debug("Config", "loaded configuration from %s", path)
//	logging.Error("Store", err, "failed to persist credential")
//
// Subsystems in use: Login, Device, Token, Refresh, Store, Config.
//
// Secrets never go through this package: callers log token metadata
// (expiry, client id) but not token values.
package logging
