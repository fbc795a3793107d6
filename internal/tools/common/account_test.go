package common

import "testing"

func TestGetAccountFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{"explicit account", map[string]interface{}{"account": "work@example.com"}, "work@example.com"},
		{"empty account", map[string]interface{}{"account": ""}, "default"},
		{"missing account", map[string]interface{}{}, "default"},
		{"nil args", nil, "default"},
		{"wrong type", map[string]interface{}{"account": 42}, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetAccountFromArgs(tt.args); got != tt.expected {
				t.Errorf("GetAccountFromArgs() = %q, want %q", got, tt.expected)
			}
		})
	}
}
