// Package idnax contains IDNA extensions.
package idnax

import "golang.org/x/net/idna"

// ToASCII converts a domain name to its ASCII form using the UTS#46
// lookup profile, which maps the domain to lowercase.
func ToASCII(domain string) (string, error) {
	return idna.Lookup.ToASCII(domain)
}
