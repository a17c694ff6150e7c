// Package sanitizer cleans HTML bodies before they are sent as email.
//
// Rendered templates may interpolate user data, so message HTML is passed
// through a bluemonday allow-list policy. EmailHTML keeps formatting, tables,
// images and button links; StripTags removes all markup.
package sanitizer
