// Package services contains the application services behind the CLI
// commands. Every user-facing operation returns a Result: Success with Data,
// or a user-presentable Error message. Validation happens before any network
// call.
package services
