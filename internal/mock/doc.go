// Package mock generates fixture data for every service integration.
// Commands fall back to it when mock mode is enabled or a service has no
// credentials, so the UI stays usable without any accounts connected.
package mock
