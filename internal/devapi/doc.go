// Package devapi is a local stand-in for the news REST API. It serves the
// endpoints the client uses, keeps everything in memory and logs one-time
// codes instead of mailing them.
package devapi
