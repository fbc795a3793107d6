// Package auth unifies OAuth credential handling for all service
// integrations. One Provider implementation per identity provider (Google,
// Microsoft, GitHub) handles the consent URL, code exchange, and token
// refresh; the Manager owns expiry checks, refresh de-duplication, and
// persistence, so individual service clients never touch expiry math.
package auth
