package common

// GetAccountFromArgs extracts the account name from request arguments.
// Commands that talk to Google or Microsoft accept an optional "account"
// argument so a user can keep work and personal mailboxes connected at the
// same time. When omitted, the "default" account is used.
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return "default"
}
