// Package config provides the configuration for semcrawl.
//
// A Config is built once at startup and passed explicitly to the fetcher, the
// oracle client, and the crawl controller. Values are layered in this order,
// later layers winning:
//
//  1. Defaults from NewConfig
//  2. The YAML configuration file (.semcrawl)
//  3. A .env file and the OML_* environment variables
//  4. Command-line flags
package config
