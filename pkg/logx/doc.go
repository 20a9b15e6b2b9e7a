// Package logx is a small structured logging facade over zerolog.
//
// It supports console and JSON-file sinks, runtime level changes via
// Service.Apply, and a safe zero-value no-op Logger.
package logx
