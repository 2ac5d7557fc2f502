// Package oracle is a client for the semantic text similarity service.
//
// The service ranks a list of texts by their similarity to a probe text.
// Rank splits large candidate lists into batches, since the service caps
// the number of texts per request, and concatenates the batch rankings in
// batch order. Rankings are therefore sorted within a batch only.
//
// Every request carries a bearer token obtained once per run with Token.
//
// # Usage
//
//	client := oracle.NewClient(authURL, serviceURL, oracle.WithBatchSize(1000))
//	token, err := client.Token(ctx, password)
//	ranked, err := client.Rank(ctx, "Go (programming language)", titles, token)
package oracle
