// Package logging defines the Logger every engine component accepts and the
// backends behind it.
//
// EngineLogger writes structured JSON or text through log/slog and carries
// component, agent and operation context. ZapAdapter sends the same calls to
// go.uber.org/zap. NoOpLogger is the default when nothing is configured.
//
// Components log dotted event names followed by key/value pairs:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	logger.WithComponent("vote").Info("vote.session.closed", "session_id", id, "status", "passed")
//
// Richer helpers such as StartTimer are reached through OperationLogger,
// CompletionLogger and StackLogger, so any Logger implementation still works.
package logging
