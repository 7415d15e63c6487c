package cmd

const DESCRIPTION = `
warpfetch fetches web pages with a bounded number of parallel
transfers. Every URL is fetched once, however often it is given,
and the crawl ends with a summary of what was downloaded.
`

const (
	FetchDescription = `The fetch command performs a single transfer and writes
the response body to stdout, or to a file with --output.
A request body given with --data turns the request into a POST.

Example:
        warpfetch https://domain.com/page.html
					OR
        warpfetch fetch -d "q=warp" -o result.html https://domain.com/search

`
	CrawlDescription = `The crawl command fetches many URLs at once, keeping at
most --concurrency transfers in flight. URLs are taken from
the arguments and from --input-file (one per line, lines
starting with # are skipped). With --output-dir every body
is saved as <identity>.body, otherwise one line is printed
per page.

Example:
        warpfetch crawl -c 8 -i urls.txt -O pages/

`
)
