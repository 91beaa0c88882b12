// Package runtime provides the execution context for wtf commands.
//
// It encapsulates shared dependencies and configuration needed by actions,
// such as the engine instance, logger, session flags and repository root path.
package runtime
