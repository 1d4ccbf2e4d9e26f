// Package netter builds JSON-oriented GET/POST request descriptors and turns
// the raw outcome of an exchange into a two-variant Result.
//
// The package does no I/O. Executing a descriptor is left to a transport such
// as the one in pkg/httpclient, which reports an Outcome back for Interpret.
package netter
