// Package session persists the signed-in user's tokens and user record.
//
// A Store fans out over an ordered list of backends. Reads take the first
// backend that has the key; writes go to every backend of the relevant kind.
// A backend that fails is logged and skipped, so a broken cookie file or an
// unreachable Redis never prevents the CLI from working with what is left.
package session
