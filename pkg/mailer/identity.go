package mailer

import (
	"fmt"
	"mime"
	"net/mail"
	"strings"

	"github.com/samber/lo"
	"github.com/zostay/go-addr/pkg/addr"
	"github.com/zostay/go-addr/pkg/format"
)

// identitySeparator joins rendered identities in a combined header value.
const identitySeparator = ", "

// Identity is an email address with an optional display name.
type Identity struct {
	Name    string
	Address string
}

// NewIdentity creates an identity from a display name and an address.
func NewIdentity(name, address string) Identity {
	return Identity{Name: name, Address: address}
}

// String formats the identity as "Name <address>", or just the address when
// no name is set.
func (i Identity) String() string {
	if i.Name == "" {
		return i.Address
	}
	return fmt.Sprintf("%s <%s>", i.Name, i.Address)
}

// Mailbox renders the identity as an RFC 5322 mailbox for provider wire
// formats. Display names that need it are quoted, and non-ASCII names are
// RFC 2047 encoded, so ParseIdentity recovers the identity unchanged.
func (i Identity) Mailbox() string {
	if i.Name == "" {
		return i.Address
	}

	name := mime.BEncoding.Encode("utf-8", i.Name)
	if name == i.Name {
		name = format.MaybeEscape(name, false)
		// An ASCII name that looks like an encoded word must not be decoded.
		if name == i.Name && format.HasMIMEWord(name) {
			name = `"` + name + `"`
		}
	}
	return name + " <" + i.Address + ">"
}

// IsZero reports whether the identity has no address.
func (i Identity) IsZero() bool {
	return i.Address == ""
}

// NormalizeIdentity converts a bare address string or a structured identity
// into an Identity. A string is taken as an address without a name.
func NormalizeIdentity(v any) (Identity, error) {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return Identity{}, fmt.Errorf("%w: empty address", ErrInvalidArgument)
		}
		return Identity{Address: val}, nil
	case Identity:
		if val.IsZero() {
			return Identity{}, fmt.Errorf("%w: identity without address", ErrInvalidArgument)
		}
		return val, nil
	case *Identity:
		if val == nil || val.IsZero() {
			return Identity{}, fmt.Errorf("%w: identity without address", ErrInvalidArgument)
		}
		return *val, nil
	default:
		return Identity{}, fmt.Errorf("%w: unsupported identity type %T", ErrInvalidArgument, v)
	}
}

// NormalizeIdentities accepts a single value or a slice of values and returns
// the normalized identities in input order.
func NormalizeIdentities(v any) ([]Identity, error) {
	var values []any
	switch val := v.(type) {
	case []Identity:
		values = lo.ToAnySlice(val)
	case []*Identity:
		values = lo.ToAnySlice(val)
	case []string:
		values = lo.ToAnySlice(val)
	case []any:
		values = val
	default:
		values = []any{v}
	}

	result := make([]Identity, 0, len(values))
	for _, item := range values {
		id, err := NormalizeIdentity(item)
		if err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, nil
}

// BuildIdentityString normalizes the given value(s) and joins their rendered
// forms with ", ".
func BuildIdentityString(v any) (string, error) {
	ids, err := NormalizeIdentities(v)
	if err != nil {
		return "", err
	}
	return JoinIdentities(ids), nil
}

// JoinIdentities renders already-normalized identities as a single header value.
func JoinIdentities(ids []Identity) string {
	return strings.Join(lo.Map(ids, func(id Identity, _ int) string {
		return id.String()
	}), identitySeparator)
}

// JoinMailboxes renders identities with Mailbox and joins them with ", ".
func JoinMailboxes(ids []Identity) string {
	return strings.Join(lo.Map(ids, func(id Identity, _ int) string {
		return id.Mailbox()
	}), identitySeparator)
}

// ParseIdentity parses an RFC 5322 mailbox such as `Jane Doe <jane@example.com>`
// or `jane@example.com`. Quoted names, RFC 2047 encoded words and raw UTF-8
// names are accepted. Obsolete forms such as source routes are handled by
// go-addr.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identity{}, fmt.Errorf("%w: empty address", ErrInvalidArgument)
	}

	if a, err := mail.ParseAddress(s); err == nil {
		return Identity{Name: a.Name, Address: a.Address}, nil
	}

	mb, err := addr.ParseEmailMailbox(s)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: parse %q: %v", ErrInvalidArgument, s, err)
	}
	return fromAddress(mb)
}

// ParseIdentities parses a comma-separated list of mailboxes.
func ParseIdentities(s string) ([]Identity, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	if list, err := mail.ParseAddressList(s); err == nil {
		return lo.Map(list, func(a *mail.Address, _ int) Identity {
			return Identity{Name: a.Name, Address: a.Address}
		}), nil
	}

	list, err := addr.ParseEmailAddressList(s)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrInvalidArgument, s, err)
	}

	result := make([]Identity, 0, len(list))
	for _, a := range list {
		if a.Address() == "" {
			continue
		}
		id, err := fromAddress(a)
		if err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, nil
}

var wordDecoder = new(mime.WordDecoder)

// fromAddress converts a go-addr result. go-addr keeps the backslash of
// quoted pairs and leaves encoded words as they are, so both are undone here.
func fromAddress(a addr.Address) (Identity, error) {
	name, err := wordDecoder.DecodeHeader(unquotePairs(a.DisplayName()))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: display name %q: %v", ErrInvalidArgument, a.DisplayName(), err)
	}
	return Identity{Name: name, Address: a.Address()}, nil
}

func unquotePairs(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
