// Package naming provides consistent naming functions for deployment resources.
//
// Resource names follow the pattern {bot}-{type} (resource group, vault, plan)
// where the bot name itself carries a random 6-character suffix. The shared
// suffix correlates every resource created by one deployment run and keeps
// names unique inside their Azure namespace class.
package naming
