// Package resubmit drops repeated form submissions.
//
// Refreshing the page after a POST makes the browser send the same form again. The web
// layer asks a Guard whether a (message, handle) pair was seen within the configured
// window and, if so, skips the insert while still showing the confirmation.
package resubmit
