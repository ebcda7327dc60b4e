// Package api exposes the authorization engine, bulk mutation executor,
// role catalog, and audit trail over HTTP.
//
// All routes live under /v1. The acting member arrives in the X-Member-ID
// header, set by the upstream gateway after authentication. Authorization
// decisions never return errors to deny; a denial is a 403 carrying the
// decision reason.
package api
