// Package sendgrid implements mailer.Sender for the SendGrid v2 Web API.
//
// Messages are posted as a URL-encoded form to mail.send.json. The server
// token has the form "username:password"; both parts are sent as form
// parameters. SendGrid answers {"message":"success"} for accepted messages
// and {"message":"error","errors":[...]} otherwise, sometimes with HTTP 200,
// so successful responses are verified as well.
package sendgrid
