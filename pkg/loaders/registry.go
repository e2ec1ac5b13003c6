package loaders

// A process-wide template registry is provided as a convenience for
// applications that register templates at startup and render them for the
// lifetime of the process. It is a plain MemoryLoader: safe for
// concurrent reads, with writes expected only during startup or
// hot-reload windows, never mid-request. Tests should prefer constructing
// their own MemoryLoader, or call Reset between cases.

var defaultRegistry = MemoryLoader{}

// Default returns the process-wide registry.
func Default() MemoryLoader { return defaultRegistry }

// Register adds a template to the process-wide registry.
func Register(name, src string) { defaultRegistry.Register(name, src) }

// Reset clears the process-wide registry.
func Reset() { defaultRegistry.Clear() }
