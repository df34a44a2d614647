// Package api exposes the study services over HTTP. Handlers decode and
// validate JSON requests, call the services with the session taken from the
// bearer token, and map service errors to status codes without leaking
// internal detail.
package api
