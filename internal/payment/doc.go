// Package payment integrates the hosted checkout provider: creating
// checkout sessions, verifying webhook signatures, and recording
// delivered webhook events for replay diagnosis. The provider API is
// form-encoded REST with Bearer auth.
package payment
