// Package dnsverify checks that a sender domain publishes the DNS records a
// provider needs to send on its behalf.
//
//	rec, err := dnsverify.CheckSPF(ctx, net.DefaultResolver, "example.com", "spf.mtasv.net")
//	if errors.Is(err, dnsverify.ErrIncludeMissing) {
//		// add include:spf.mtasv.net to the SPF record
//	}
//
// Lookups go through a Resolver, which *net.Resolver satisfies.
package dnsverify
