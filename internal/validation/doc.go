// Package validation provides centralized input validation logic.
// This includes bucket name validation and file name validation.
//
// All user inputs are validated before being sent to the service so that
// malformed names fail fast locally instead of with a remote rejection.
package validation
