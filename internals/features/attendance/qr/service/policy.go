package service

import (
	"time"

	"edumark_backend/internals/configs"
)

const DefaultWindow = 30 * time.Second

// Clock lets tests pin "now".
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

// Policy selects how strict issuance and validation are.
// The zero value plus Window behaves like the stateless demo.
type Policy struct {
	Window    time.Duration
	ClockSkew time.Duration

	// RejectDelimiterInIDs refuses session/class ids containing Delimiter at issue time.
	RejectDelimiterInIDs bool
	// TrackIssuance makes the issuance store the authority for issue time.
	TrackIssuance bool
	// SingleClaim enforces at most one acceptance per (session, student).
	SingleClaim bool
}

func DemoPolicy() Policy {
	return Policy{Window: DefaultWindow}
}

func StrictPolicy() Policy {
	return Policy{
		Window:               DefaultWindow,
		RejectDelimiterInIDs: true,
		TrackIssuance:        true,
		SingleClaim:          true,
	}
}

func PolicyFromConfig(cfg configs.AttendanceConfig) Policy {
	p := DemoPolicy()
	if cfg.Mode == configs.AttendanceModeStrict {
		p.RejectDelimiterInIDs = true
	}
	if cfg.TTL > 0 {
		p.Window = cfg.TTL
	}
	if cfg.ClockSkew > 0 {
		p.ClockSkew = cfg.ClockSkew
	}
	p.TrackIssuance = cfg.TrackIssuance
	p.SingleClaim = cfg.SingleClaim
	return p
}

// expired: age strictly greater than the window (plus skew) is too old.
func (p Policy) expired(age time.Duration) bool {
	return age > p.Window+p.ClockSkew
}
