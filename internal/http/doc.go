// Package http provides the HTTP adapters for the blog gateway.
//
// Routes mount under the configured base path (default "/"):
//   - Verification: /auth/send-code, /auth/verify, /auth/check, /auth/logout
//   - Posts (GitHub Issues): /posts, /posts/{id}
//   - Articles: /articles, /articles/{id...}
//   - Aggregates: /categories, /categories/{id}, /tags, /tags/{id}
//   - Operations: /healthz, /metrics
//
// Every route runs through the same ordered stage chain (see Chain). Routes
// that change posts or read session state additionally require a bearer token.
package http
