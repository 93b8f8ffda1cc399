// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never talk to a provider directly; every provider call goes
// through a driven.ProviderGateway looked up in the GatewayRegistry.
package services
