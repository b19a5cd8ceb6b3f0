// Package client fetches script catalogs from a library server and follows
// its live catalog feed.
//
//	c := client.New("http://studio.local:8080")
//	cat, err := c.FetchCatalog(ctx)
//	if err != nil {
//	    fmt.Println(client.ShortMessage(err))
//	}
//
//	go c.Subscribe(ctx, func(cat *catalog.Catalog) {
//	    source.Replace(cat)
//	})
//
// All methods return *Error, which classifies the failure and reports
// whether a retry may help. FetchCatalog and FetchScript retry retryable
// failures with exponential backoff.
package client
