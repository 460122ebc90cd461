package configs

import (
	"log"
	"strings"
	"time"
)

const (
	AttendanceModeDemo   = "demo"
	AttendanceModeStrict = "strict"

	GeofenceRange  = "range"
	GeofenceRadius = "radius"

	StoreMemory   = "memory"
	StoreDatabase = "database"
	StoreRedis    = "redis"
)

// AttendanceConfig is the raw env view of the QR attendance policy.
type AttendanceConfig struct {
	Mode            string
	TTL             time.Duration
	ClockSkew       time.Duration
	SigningSecret   string
	TrackIssuance   bool
	SingleClaim     bool
	GeofenceMode    string
	RadiusMeters    float64
	DefaultCapacity int
	Store           string
	CleanupInterval time.Duration
}

func LoadAttendanceConfig() AttendanceConfig {
	mode := strings.ToLower(strings.TrimSpace(GetEnv("ATTENDANCE_MODE", AttendanceModeDemo)))
	if mode != AttendanceModeStrict {
		mode = AttendanceModeDemo
	}
	strict := mode == AttendanceModeStrict

	geofence := GeofenceRange
	if strict {
		geofence = GeofenceRadius
	}
	if v := strings.ToLower(strings.TrimSpace(GetEnv("GEOFENCE_MODE"))); v == GeofenceRange || v == GeofenceRadius {
		geofence = v
	}

	cfg := AttendanceConfig{
		Mode:            mode,
		TTL:             time.Duration(GetEnvInt("QR_TTL_SECONDS", 30)) * time.Second,
		ClockSkew:       time.Duration(GetEnvInt("QR_CLOCK_SKEW_MS", 0)) * time.Millisecond,
		SigningSecret:   strings.TrimSpace(GetEnv("QR_SIGNING_SECRET")),
		TrackIssuance:   GetEnvBool("ATTENDANCE_TRACK_ISSUANCE", strict),
		SingleClaim:     GetEnvBool("ATTENDANCE_SINGLE_CLAIM", strict),
		GeofenceMode:    geofence,
		RadiusMeters:    GetEnvFloat("GEOFENCE_RADIUS_METERS", 10),
		DefaultCapacity: GetEnvInt("CLASS_DEFAULT_CAPACITY", 48),
		Store:           strings.ToLower(strings.TrimSpace(GetEnv("ATTENDANCE_STORE", StoreMemory))),
		CleanupInterval: GetEnvDuration("CLEANUP_INTERVAL", time.Minute),
	}

	if strict && cfg.SigningSecret == "" {
		log.Println("[WARN] ATTENDANCE_MODE=strict without QR_SIGNING_SECRET, nonces will not be signed")
	}
	log.Printf("[INFO] Attendance policy: mode=%s ttl=%s geofence=%s single_claim=%v track_issuance=%v store=%s",
		cfg.Mode, cfg.TTL, cfg.GeofenceMode, cfg.SingleClaim, cfg.TrackIssuance, cfg.Store)
	return cfg
}
