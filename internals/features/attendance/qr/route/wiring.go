package route

import (
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"edumark_backend/internals/configs"
	"edumark_backend/internals/features/attendance/qr/repository"
	"edumark_backend/internals/features/attendance/qr/service"
)

// Deps is the assembled attendance feature.
type Deps struct {
	Issuer    *service.Issuer
	Validator *service.Validator
	Stats     *service.StatsService

	// nil unless the matching policy switch is on
	Issuance repository.IssuanceStore
	Ledger   repository.ClaimLedger

	// how long issuance records outlive expiry; includes the clock skew
	IssuanceGrace time.Duration
}

// NewDeps picks stores for cfg.Store and wires the services. classrooms may be nil
// unless the geofence runs in radius mode.
func NewDeps(cfg configs.AttendanceConfig, db *gorm.DB, rdb *redis.Client, classrooms repository.ClassroomDirectory, now service.Clock) (*Deps, error) {
	policy := service.PolicyFromConfig(cfg)
	signer := service.NewSigner(cfg.SigningSecret)

	d := &Deps{IssuanceGrace: repository.IssuanceGrace(policy.ClockSkew)}
	if policy.TrackIssuance || policy.SingleClaim {
		issuance, ledger, err := newStores(cfg.Store, db, rdb, d.IssuanceGrace)
		if err != nil {
			return nil, err
		}
		if policy.TrackIssuance {
			d.Issuance = issuance
		}
		if policy.SingleClaim {
			d.Ledger = ledger
		}
	}

	var checker service.LocationChecker = service.RangeChecker{}
	if cfg.GeofenceMode == configs.GeofenceRadius {
		if classrooms == nil {
			return nil, fmt.Errorf("geofence radius mode needs a classroom directory")
		}
		checker = service.RadiusChecker{Classrooms: classrooms, DefaultRadius: cfg.RadiusMeters}
	}

	d.Issuer = service.NewIssuer(policy, signer, d.Issuance, now)
	d.Validator = service.NewValidator(policy, service.ValidatorDeps{
		Signer:   signer,
		Issuance: d.Issuance,
		Ledger:   d.Ledger,
		Location: checker,
		Now:      now,
	})
	d.Stats = &service.StatsService{
		Ledger:          d.Ledger,
		Classrooms:      classrooms,
		DefaultCapacity: cfg.DefaultCapacity,
		Now:             now,
	}
	return d, nil
}

func newStores(kind string, db *gorm.DB, rdb *redis.Client, grace time.Duration) (repository.IssuanceStore, repository.ClaimLedger, error) {
	switch kind {
	case configs.StoreDatabase:
		if db == nil {
			return nil, nil, fmt.Errorf("ATTENDANCE_STORE=database but no database is connected")
		}
		log.Println("[INFO] Attendance store: database")
		return repository.NewGormIssuanceStore(db), repository.NewGormClaimLedger(db), nil
	case configs.StoreRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("ATTENDANCE_STORE=redis but REDIS_ADDR is not set")
		}
		log.Println("[INFO] Attendance store: redis")
		return repository.NewRedisIssuanceStore(rdb, grace), repository.NewRedisClaimLedger(rdb, 0), nil
	case "", configs.StoreMemory:
		log.Println("[INFO] Attendance store: memory")
		return repository.NewMemoryIssuanceStore(), repository.NewMemoryClaimLedger(), nil
	}
	return nil, nil, fmt.Errorf("unknown ATTENDANCE_STORE %q", kind)
}
