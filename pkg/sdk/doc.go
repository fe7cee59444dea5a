// Package riskfeed embeds the riskfeed dashboard engine in another Go program.
//
// The client fetches the document collection from a feed service, derives
// risk statistics and keeps the same view state the HTTP dashboard renders.
//
//	client, _ := riskfeed.New(riskfeed.WithFeedURL("http://localhost:8001/api/v1"))
//	if err := client.Refresh(ctx); err != nil {
//	    log.Printf("feed unavailable: %v", err)
//	}
//	view := client.Search("reuters")
//	for _, row := range view.Rows {
//	    fmt.Println(row.Document.Title, row.Band)
//	}
//	finding, _ := client.Select(view.Rows[0].Document.ID)
package riskfeed
