// Package model defines the data structures shared by the fetcher, the crawl
// controller, and the report writers.
//
// This package contains the following main types:
//   - Page: A fetched Wikipedia page with its title and anchors
//   - Step: One visited page in the crawl trace
//   - Outcome: The tri-state result of a crawl
//   - CrawlReport: The serialisable summary of one crawl run
//
// Design decision: We keep these types in their own package because the
// fetch, crawler, and report packages all need them, and centralizing them
// prevents import cycles.
package model
