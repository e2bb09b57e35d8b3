// Package dohprovider discovers alternative routes using DNS-over-HTTPS.
//
// We send an RFC 8484 POST query for the TXT records of a domain. Each TXT
// record contains the host name of an alternative route, which we map to
// an https:// base route.
package dohprovider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/altroute/altroute/internal/idnax"
	"github.com/altroute/altroute/internal/model"
	"github.com/miekg/dns"
)

// DefaultTimeout is the default timeout for a single DoH query.
const DefaultTimeout = 10 * time.Second

// maxResponseSize is the maximum size of a DoH response we are willing to read.
const maxResponseSize = 1 << 16

// dnsMessageContentType is the content type of DoH queries and responses.
const dnsMessageContentType = "application/dns-message"

// Provider is a [model.DoHProvider] using DNS-over-HTTPS.
//
// The zero value is invalid; please, fill all the MANDATORY fields
// or construct using [New].
type Provider struct {
	// Client is the MANDATORY HTTP client to use.
	Client model.HTTPClient

	// Logger is the OPTIONAL logger to use.
	Logger model.Logger

	// Timeout is the OPTIONAL timeout. If zero, we use [DefaultTimeout].
	Timeout time.Duration

	// URL is the MANDATORY URL of the DoH service (e.g., https://dns.google/dns-query).
	URL string

	// UserAgent is the OPTIONAL user agent.
	UserAgent string
}

var _ model.DoHProvider = &Provider{}

// New creates a new [*Provider] for the given DoH service URL.
func New(client model.HTTPClient, logger model.Logger, URL string) *Provider {
	return &Provider{
		Client:    client,
		Logger:    logger,
		Timeout:   DefaultTimeout,
		URL:       URL,
		UserAgent: "",
	}
}

// Address implements model.DoHProvider.
func (p *Provider) Address() string {
	return p.URL
}

var (
	// ErrHTTPStatus indicates that the DoH server did not return 200.
	ErrHTTPStatus = errors.New("dohprovider: server returned error")

	// ErrContentType indicates that the DoH server returned the wrong content type.
	ErrContentType = errors.New("dohprovider: invalid content-type")

	// ErrRcode indicates that the DNS response contained an error rcode.
	ErrRcode = errors.New("dohprovider: response rcode is not success")

	// ErrMismatch indicates that the response does not match the query.
	ErrMismatch = errors.New("dohprovider: response does not match query")
)

// Resolve implements model.DoHProvider.
func (p *Provider) Resolve(ctx context.Context, domain string) ([]string, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	domain, err := idnax.ToASCII(domain)
	if err != nil {
		return nil, err
	}
	query := newTXTQuery(domain)
	rawQuery, err := query.Pack()
	if err != nil {
		return nil, err
	}

	rawReply, err := p.roundTrip(ctx, rawQuery)
	if err != nil {
		return nil, err
	}

	reply := &dns.Msg{}
	if err := reply.Unpack(rawReply); err != nil {
		return nil, err
	}
	if !reply.Response || len(reply.Question) != 1 ||
		!strings.EqualFold(reply.Question[0].Name, query.Question[0].Name) {
		return nil, ErrMismatch
	}

	switch reply.Rcode {
	case dns.RcodeSuccess:
		return p.routesFromTXT(reply), nil
	case dns.RcodeNameError:
		// the domain does not exist: a valid answer without alternatives
		return []string{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrRcode, dns.RcodeToString[reply.Rcode])
	}
}

// newTXTQuery creates a TXT query for the given domain. Following RFC 8484
// we use a zero ID such that the query is cache friendly.
func newTXTQuery(domain string) *dns.Msg {
	query := &dns.Msg{}
	query.SetQuestion(dns.Fqdn(domain), dns.TypeTXT)
	query.Id = 0
	query.RecursionDesired = true
	query.SetEdns0(4096, false)
	return query
}

// roundTrip sends the raw query and returns the raw reply.
func (p *Provider) roundTrip(ctx context.Context, rawQuery []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(rawQuery))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", dnsMessageContentType)
	req.Header.Set("accept", dnsMessageContentType)
	if p.UserAgent != "" {
		req.Header.Set("user-agent", p.UserAgent)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}
	if resp.Header.Get("content-type") != dnsMessageContentType {
		return nil, ErrContentType
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}

// routesFromTXT maps the TXT answers to base routes, preserving the
// order of the answers and removing duplicates.
func (p *Provider) routesFromTXT(reply *dns.Msg) []string {
	logger := model.ValidLoggerOrDefault(p.Logger)
	routes := []string{}
	seen := make(map[string]bool)
	for _, answer := range reply.Answer {
		txt, ok := answer.(*dns.TXT)
		if !ok {
			continue
		}
		route, err := BaseRouteFromTXT(strings.Join(txt.Txt, ""))
		if err != nil {
			logger.Warnf("dohprovider: %s: ignoring TXT record: %s", p.URL, err.Error())
			continue
		}
		if seen[route] {
			continue
		}
		seen[route] = true
		routes = append(routes, route)
	}
	return routes
}

// ErrInvalidTXTRecord indicates that a TXT record does not contain a valid route.
var ErrInvalidTXTRecord = errors.New("dohprovider: invalid TXT record")

// BaseRouteFromTXT converts the content of a TXT record to a base route. A bare
// host name becomes https://<host>/, while a full https URL is kept as is.
func BaseRouteFromTXT(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTXTRecord)
	}
	if !strings.Contains(value, "://") {
		value = "https://" + value + "/"
	}
	URL, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidTXTRecord, err.Error())
	}
	if URL.Scheme != "https" || URL.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidTXTRecord, value)
	}
	return URL.String(), nil
}
