// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the settings shared by the aggregator,
// the dispatcher and the stub server: status endpoints and retry budget,
// recipient count and send latency, the stub route and the metrics listener.
package config
