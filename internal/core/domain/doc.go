// Package domain defines the core business entities for revlink.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Provider: A third-party service revlink can connect to
//   - AccessCredential: The token issued by a provider after authorization
//   - WebhookConfig: An event subscription registered for a repository
//   - WebhookEvent: A single recorded delivery of a provider event
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
