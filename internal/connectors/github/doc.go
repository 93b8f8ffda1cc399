// Package github implements the live GitHub gateway.
//
// Authorization uses an OAuth App (github.com/settings/developers). The
// gateway manages repository webhooks with go-github:
//
//   - RegisterWebhook creates a "web" hook with content type json and the
//     webhook's secret, subscribed to the webhook's events
//   - SendTestPing asks GitHub to deliver a ping event
//   - DeleteWebhook removes the hook by its id
//   - RevokeToken deletes the OAuth grant using the application's client
//     credentials
//
// # Rate Limiting
//
// Calls go through a token bucket and honour the X-RateLimit-Remaining and
// X-RateLimit-Reset headers: when the remaining quota drops below a small
// buffer the gateway waits for the reset time before the next call.
package github
