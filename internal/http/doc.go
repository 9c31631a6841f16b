// Package http provides optional HTTP adapters over the graph gateway helpers.
//
// Routes mount under /admin/api:
//   - Synonyms: PUT /synonyms
//   - Content search: POST /search
//   - Pinned results: /pinned/collections, /pinned/collections/{id},
//     /pinned/collections/{id}/items, /pinned/collections/{id}/items/{itemId}
//   - Locale fallbacks: GET /locales/{locale}/fallbacks
//
// Every error body is {"error": code, "message": text}.
package http
