// Package config provides configuration loading and defaults for daymark.
package config

// DefaultConfigDir is the default location for daymark configuration.
const DefaultConfigDir = "~/.config/daymark"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "daymark.db"

// DefaultGatewayURL is the default emotion classification gateway endpoint.
const DefaultGatewayURL = "http://localhost:5000/analyze"

// DefaultClassifierTimeout bounds one gateway round-trip, in seconds.
const DefaultClassifierTimeout = 15

// DefaultServerAddr is the default HTTP API listen address.
const DefaultServerAddr = ":8080"

// DefaultDB holds the default database settings. The sqlite driver is the
// default; a postgres DSN switches server deployments to the pool-backed
// store.
var DefaultDB = DB{
	Driver: "sqlite",
}

// DefaultClassifier holds the default classifier settings. The "gateway"
// provider expects a local analyze server; "openai" classifies through the
// OpenAI API instead.
var DefaultClassifier = Classifier{
	Provider:       "gateway",
	URL:            DefaultGatewayURL,
	TimeoutSeconds: DefaultClassifierTimeout,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
