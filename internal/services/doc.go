// Package services wraps the Genius REST API (https://api.genius.com) behind typed, read-only operations.
//
// # Client
//
// A [Client] owns its [Credentials], HTTP transport, logger and [Pacer]. Several clients with different tokens can
// live in the same process.
//
// # Request Executor
//
// [Client.Execute] issues exactly one authorized GET per call and returns the decoded "response" member as a
// [Document]. Numbers are decoded as [encoding/json.Number]. Unset [Query] parameters are never sent.
//
// Any non-200 status becomes a [*shared.RequestFailedError] carrying the status and the raw body. Nothing is retried.
//
// # Pagination
//
// [CollectAllPages] drives a [PageFunc] from the first page until the server stops returning a next page, pausing
// between requests (never before the first nor after the last). The first error aborts and discards partial results.
//
// # Endpoints
//
// Each endpoint validates its identifying parameters before touching the network and projects the document onto
// the schemas in the records package:
//   - [Client.Annotation] : /annotations/{id}
//   - [Client.Referents] : /referents
//   - [Client.Song] : /songs/{id}
//   - [Client.Artist] : /artists/{id}
//   - [Client.ArtistSongs] : /artists/{id}/songs (paginated)
//   - [Client.WebPage] : /web_pages/lookup
//   - [Client.Search] : /search
//
// Lyrics are not part of the API; [Client.Lyrics] scrapes them from the public song page.
package services
