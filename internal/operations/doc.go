// Package operations contains the listing operation implementations.
// These drive the paginated service endpoints and stream results lazily.
//
// Each operation family is isolated into its own subpackage for better
// organization and testability.
package operations
