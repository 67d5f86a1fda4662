// Package fetch issues HTTP requests with a bounded number of attempts.
//
// Between failed attempts the client asks for a new Tor identity and waits
// for the configured request delay. Exhausting every attempt is not an
// error: Fetch returns a Result whose Found method reports false.
//
//	client := fetch.New(session.HTTPClient(), session,
//		fetch.WithMaxRetries(cfg.Network.MaxRetries),
//		fetch.WithRequestDelay(cfg.Safety.RequestDelay),
//	)
//	result := client.Fetch(ctx, http.MethodGet, "http://example.onion")
//	if result.Found() {
//		fmt.Println(result.Response.StatusCode)
//	}
package fetch
