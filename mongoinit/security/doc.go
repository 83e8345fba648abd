// Package security decides which field names carry secrets.
//
// The zap adapter asks IsSensitiveField for every field key and replaces the
// value of a match before it reaches any encoder or the OTel logs bridge.
package security
