// Package provisioning provides shared types and interfaces for the
// deployment pipeline.
//
// The pipeline is a strict sequence of phases, each depending on state
// produced by its predecessors:
//   - identity/ — Entra app registration, scope, consent, client secret
//   - infrastructure/ — resource group, Key Vault, App Service, access grant
//   - channel/ — Azure Bot, Teams channel, OAuth connection
//   - manifest/ — Teams app package rendering, validation and bundling
//   - deploy/ — zip deploy of the application source and health probe
//   - summary/ — deployment record file and operator next steps
//
// This root package contains the phase sequencer, the shared state threaded
// through phases, and the step-outcome policy that decides halt-vs-continue
// in one place.
package provisioning
