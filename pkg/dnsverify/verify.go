package dnsverify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	ErrInvalidInput    = errors.New("dnsverify: invalid domain or mechanism")
	ErrDNSLookupFailed = errors.New("dnsverify: dns lookup failed")
	ErrRecordNotFound  = errors.New("dnsverify: record not found")
	ErrMultipleSPF     = errors.New("dnsverify: more than one spf record")
	ErrIncludeMissing  = errors.New("dnsverify: spf record does not include provider")
)

const (
	spfPrefix  = "v=spf1"
	dkimVersion = "DKIM1"
)

// Resolver looks up TXT records.
type Resolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

var _ Resolver = (*net.Resolver)(nil)

// CheckSPF looks up the SPF record of domain and checks that it contains
// include:<include>. It returns the record it found.
func CheckSPF(ctx context.Context, r Resolver, domain, include string) (string, error) {
	domain = normalize(domain)
	include = strings.TrimSpace(include)
	if domain == "" || include == "" {
		return "", ErrInvalidInput
	}

	records, err := lookup(ctx, r, domain)
	if err != nil {
		return "", err
	}

	var spf []string
	for _, rec := range records {
		if isSPF(rec) {
			spf = append(spf, rec)
		}
	}

	switch len(spf) {
	case 0:
		return "", fmt.Errorf("%w: spf for %s", ErrRecordNotFound, domain)
	case 1:
	default:
		// Receivers treat multiple SPF records as a permanent error.
		return "", fmt.Errorf("%w: %s", ErrMultipleSPF, domain)
	}

	want := "include:" + strings.ToLower(include)
	for _, term := range strings.Fields(strings.ToLower(spf[0])) {
		if strings.TrimLeft(term, "+") == want {
			return spf[0], nil
		}
	}
	return spf[0], fmt.Errorf("%w: %s lacks %s", ErrIncludeMissing, domain, want)
}

// CheckDKIM looks up <selector>._domainkey.<domain> and returns the DKIM
// record published there.
func CheckDKIM(ctx context.Context, r Resolver, domain, selector string) (string, error) {
	domain = normalize(domain)
	selector = strings.TrimSpace(selector)
	if domain == "" || selector == "" {
		return "", ErrInvalidInput
	}

	name := selector + "._domainkey." + domain
	records, err := lookup(ctx, r, name)
	if err != nil {
		return "", err
	}

	for _, rec := range records {
		if isDKIM(rec) {
			return rec, nil
		}
	}
	return "", fmt.Errorf("%w: dkim for %s", ErrRecordNotFound, name)
}

// isDKIM reports whether rec is a DKIM key record: a tag list whose v tag,
// when present, is DKIM1 and which carries a p tag.
func isDKIM(rec string) bool {
	hasKey := false
	for _, tag := range strings.Split(rec, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(tag), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(name) {
		case "v":
			if strings.TrimSpace(value) != dkimVersion {
				return false
			}
		case "p":
			hasKey = true
		}
	}
	return hasKey
}

func lookup(ctx context.Context, r Resolver, name string) ([]string, error) {
	records, err := r.LookupTXT(ctx, name)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrDNSLookupFailed, err)
	}
	return records, nil
}

func isSPF(rec string) bool {
	rec = strings.ToLower(strings.TrimSpace(rec))
	return rec == spfPrefix || strings.HasPrefix(rec, spfPrefix+" ")
}

func normalize(domain string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
}
