// Package dataset loads the tile records shown on the wall.
//
// The source is a spreadsheet exported as CSV with a header row and the
// columns Name, Photo, Age, Country, Interest and Net Worth. Columns are
// matched by header name, case-insensitively; when the header does not name
// a column its position in that order is used instead.
//
//	records, err := dataset.Open(ctx, "people.csv", nil)
//	for _, r := range records {
//	    fmt.Println(r.Name, r.Band(), dataset.FormatUSD(r.NetWorth))
//	}
//
// Remote sources are fetched by a [Fetcher], which retries transient
// failures and caches the body.
package dataset
