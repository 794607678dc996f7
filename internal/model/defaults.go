package model

// Shared defaults used by the engine and the CLI entrypoint.
const (
	DefaultWindowHours  = 24
	DefaultHorizonHours = 1
)
