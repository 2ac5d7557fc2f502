// Package fetch retrieves web pages and reduces them to a title and a list of
// absolute anchors.
//
// # Components
//
//   - Fetcher: GETs a page with politeness spacing and a body size limit
//   - Parser: extracts the <title> and every <a href> from HTML
//   - NewHTTPClient: builds the HTTP client, optionally through a SOCKS5 proxy
//   - Robots: answers robots.txt questions, cached per host
//
// # Usage
//
//	client, err := fetch.NewHTTPClient(fetch.HTTPOptions{Timeout: 30 * time.Second})
//	f := fetch.NewFetcher(client, fetch.WithDelay(250*time.Millisecond))
//	page, err := f.Fetch(ctx, "https://en.wikipedia.org/wiki/Go_(programming_language)")
package fetch
