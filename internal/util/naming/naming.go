package naming

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Naming functions for deployment resources.
// All Azure resources created for a bot follow consistent naming patterns so a
// single deployment can be identified (and cleaned up) by its shared suffix.

const suffixLength = 6

const suffixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// Suffix returns a random lowercase-alphanumeric token of fixed length.
// It is generated once per run and reused by every derived name.
func Suffix() string {
	b := make([]byte, suffixLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms; if it does the
		// process cannot safely derive unique names.
		panic(fmt.Sprintf("naming: reading random suffix: %v", err))
	}
	for i := range b {
		b[i] = suffixCharset[int(b[i])%len(suffixCharset)]
	}
	return string(b)
}

// BotName derives the bot base name from a prefix and the run suffix.
func BotName(base, suffix string) string {
	return fmt.Sprintf("%s-%s", base, suffix)
}

func ResourceGroup(botName string) string {
	return fmt.Sprintf("%s-rg", botName)
}

// KeyVault derives a vault name from the bot name. Vault names are capped at
// 24 characters and may only contain letters, digits and hyphens, so the bot
// name is sanitized and truncated before the suffix is applied.
func KeyVault(botName string) string {
	const maxVaultName = 24
	name := sanitizeVaultName(botName)
	if len(name) > maxVaultName-3 {
		name = strings.Trim(name[:maxVaultName-3], "-")
	}
	return fmt.Sprintf("%s-kv", name)
}

func AppServicePlan(botName string) string {
	return fmt.Sprintf("%s-plan", botName)
}

// AppName returns the App Service host name. The host name doubles as the
// subdomain of the public URL, so it reuses the bot name unchanged.
func AppName(botName string) string {
	return botName
}

func sanitizeVaultName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
