/*
Package log provides structured logging for otool using zerolog.

The package holds a single global zerolog.Logger configured once by Init and
handed out to components as child loggers carrying a component field. Until
Init is called the global logger discards everything, so library code and
tests can log freely without setup.

# Output

	┌──────────────── Init(Config) ────────────────┐
	│                                               │
	│  JSONOutput=true ─────────► JSON lines        │
	│  Output is a terminal ────► ConsoleWriter     │
	│  Output piped/redirected ─► JSON lines        │
	└───────────────────────────────────────────────┘

Terminal detection uses golang.org/x/term on the output file descriptor;
any writer that is not an *os.File (buffers in tests, log shippers) gets
JSON.

# Context Loggers

  - WithComponent("reconciler")
  - WithKind("draft", "task")

# Usage

	log.Init(log.Config{Level: log.DebugLevel})
	logger := log.WithComponent("manager")
	logger.Info().Str("kind", "task").Msg("config created")
*/
package log
