// Package postmark implements mailer.Sender for the Postmark email API.
//
// Messages are posted as JSON to https://api.postmarkapp.com/email and
// authenticated with the X-Postmark-Server-Token header. Postmark reports
// errors as {"ErrorCode": n, "Message": "..."}, which is returned as
// *mailer.APIError.
//
// Use TestServerToken to exercise the API without delivering mail.
package postmark
