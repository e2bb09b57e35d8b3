// Package userroutes implements a [model.DoHProvider] returning alternative
// routes written by the user into the key-value store.
//
// The document is human-readable JSON (comments and trailing commas are
// allowed) like the following:
//
//	{
//		"Domains": {
//			// routes to use for this domain
//			"dmfygsltqojxxe.example.com": [
//				"https://alt1.example.net/",
//			],
//		},
//		"Version": 1,
//	}
//
// When it is first in the chain of providers, this provider pins the
// alternative routes for the domains it knows about and defers to the
// next provider otherwise.
package userroutes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/altroute/altroute/internal/dohprovider"
	"github.com/altroute/altroute/internal/idnax"
	"github.com/altroute/altroute/internal/model"
	"github.com/tailscale/hujson"
)

// Key is the key-value store key containing the user routes.
const Key = "altroute.conf"

// Version is the current version of the user routes document.
const Version = 1

// Root is the root of the user routes document.
type Root struct {
	// Domains maps a domain to the routes to use.
	Domains map[string][]string

	// Version is the document version.
	Version int
}

// ErrWrongVersion means that the document has the wrong version number.
var ErrWrongVersion = errors.New("userroutes: wrong version")

// ErrNoSuchDomain means the document does not contain the domain.
var ErrNoSuchDomain = errors.New("userroutes: no such domain")

// Provider is the [model.DoHProvider] reading the user routes.
type Provider struct {
	// KVStore is the MANDATORY key-value store to use.
	KVStore model.KeyValueStore
}

var _ model.DoHProvider = &Provider{}

// Address implements model.DoHProvider.
func (p *Provider) Address() string {
	return "userroutes:" + Key
}

// Resolve implements model.DoHProvider.
func (p *Provider) Resolve(ctx context.Context, domain string) ([]string, error) {
	root, err := p.load()
	if err != nil {
		return nil, err
	}
	domain, err = idnax.ToASCII(domain)
	if err != nil {
		return nil, err
	}
	entries, found := root.Domains[domain]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchDomain, domain)
	}
	routes := []string{}
	for _, entry := range entries {
		route, err := dohprovider.BaseRouteFromTXT(entry)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", Key, err)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// load loads the [*Root] from the key-value store.
func (p *Provider) load() (*Root, error) {
	data, err := p.KVStore.Get(Key)
	if err != nil {
		return nil, err
	}
	value, err := hujson.Parse(data)
	if err != nil {
		return nil, err
	}
	value.Standardize()
	var root Root
	if err := json.Unmarshal(value.Pack(), &root); err != nil {
		return nil, err
	}
	if root.Version != Version {
		err := fmt.Errorf("%s: %w: expected=%d got=%d", Key, ErrWrongVersion, Version, root.Version)
		return nil, err
	}
	return &root, nil
}
