// Package common contains shared constants and sentinel errors used across
// timecapsule components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the access token
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header value.
const BearerPrefix = "Bearer "

// OctetStream is the content type used when nothing better is known.
const OctetStream = "application/octet-stream"
