// Package connectors builds the provider gateways.
//
// Each provider has a live gateway in its own subpackage (github,
// bitbucket, jira) and shares the simulated gateway. NewGateways picks
// between them from the application settings.
package connectors
