// Package web serves the message bank over HTTP.
//
// # Routes
//
//	GET  /                  submit form
//	POST /                  store a (message, handle) submission
//	GET  /view/             random sample of Options.SampleSize messages
//	GET  /my_message_bank/  every stored message with its id
//	GET  /mydog/            embedded markdown page rendered with goldmark
//	GET  /health            JSON status and message count
//
// A submission with an empty message or handle stores nothing and re-renders the form
// with a prompt; store errors become 500 responses.
//
// Templates live in templates/ and are embedded at build time. Each page template
// defines "content" and is executed through the "base" layout.
package web
