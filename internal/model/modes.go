package model

//
// Mode signals
//

// AlternativeRoutingSettings tells whether the user allows using
// alternative routes discovered through DNS-over-HTTPS.
type AlternativeRoutingSettings interface {
	AlternativeRoutingAllowed() bool
}

// TunnelState tells whether a tunnel (e.g., a VPN connection) is
// currently active. We never use alternative routing when it is.
type TunnelState interface {
	TunnelActive() bool
}
