// Package cli implements the stampie command.
//
//	stampie send --to jane@example.com --subject Hi --text "Hello"
//	stampie send --to jane@example.com --template welcome.md --var Name=Jane
//	stampie send --to a@example.com --to b@example.com --separate --text "..." --subject Hi
//	stampie send --to jane@example.com --subject Hi --text Hello --dry-run
//
// Provider credentials and defaults come from the environment (see package
// config). --dry-run prints the message in RFC 5322 form instead of sending it.
package cli
