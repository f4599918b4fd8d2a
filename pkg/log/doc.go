// Package log provides cliphist's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. It is backed by log/slog. Text
// records are rendered by tint (colored only when the output is a terminal);
// JSON records use slog's JSON handler.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormat(log.TextFormat),
//	)
//	l = l.WithComponent("history")
//	l.Info("stored entry", log.Uint64("id", 42), log.Int("size", 17))
//
// # Redaction
//
// A bridge handler masks configured attribute keys before rendering. By
// default "payload" and "text" are redacted so clipboard contents cannot leak
// into logs even when a caller attaches them by mistake.
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config.
package log
