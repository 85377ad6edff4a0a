// Package config loads and validates the deployment configuration.
//
// The configuration is a flat KEY=VALUE file (a YAML mapping is also
// accepted) holding the required keys TENANT_ID, DATABRICKS_HOST and
// GENIE_SPACE_ID plus optional resource names. Callers Load, then Resolve
// with a per-run suffix to derive any unset names, then Validate, which
// reports the first missing required field. Derivation never touches fields
// the operator set explicitly.
package config
