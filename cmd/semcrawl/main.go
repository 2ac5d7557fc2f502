// Package main provides the entry point for the semcrawl CLI.
//
// semcrawl walks Wikipedia from a start article towards a target article,
// always following the link whose text a semantic similarity service ranks
// closest to the target title.
//
// Usage:
//
//	semcrawl crawl <start-url> <target-url>
//
// See --help for all available options.
package main

// main is the entry point for semcrawl.
func main() {
	Execute()
}
