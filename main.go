package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"edumark_backend/internals/configs"
	database "edumark_backend/internals/databases"
	qrModel "edumark_backend/internals/features/attendance/qr/model"
	qrRepo "edumark_backend/internals/features/attendance/qr/repository"
	qrRoute "edumark_backend/internals/features/attendance/qr/route"
	qrScheduler "edumark_backend/internals/features/attendance/qr/scheduler"
	authModel "edumark_backend/internals/features/users/auth/model"
	authRepo "edumark_backend/internals/features/users/auth/repository"
	authScheduler "edumark_backend/internals/features/users/auth/scheduler"
	authService "edumark_backend/internals/features/users/auth/service"
	middlewares "edumark_backend/internals/middlewares"
	routes "edumark_backend/internals/route"
	"edumark_backend/internals/seeds"
	"edumark_backend/internals/seeds/classrooms"
)

func main() {
	configs.LoadEnv()
	attCfg := configs.LoadAttendanceConfig()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler:            middlewares.ErrorHandler,
	})

	middlewares.SetupMiddlewares(app)

	// DB + Redis are optional
	database.ConnectDB()
	database.TunePool()
	database.AutoMigrate(
		&qrModel.ClassroomModel{},
		&qrModel.IssuedQRModel{},
		&qrModel.AttendanceClaimModel{},
		&authModel.SessionModel{},
	)
	database.WarmUpQueries()
	database.ConnectRedis()

	if configs.GetEnvBool("SEED_ON_START", false) {
		seeds.RunAllSeeds(database.DB)
	}

	classroomDir, err := newClassroomDirectory()
	if err != nil {
		log.Fatalf("[FATAL] classrooms: %v", err)
	}

	attendance, err := qrRoute.NewDeps(attCfg, database.DB, database.Redis, classroomDir, nil)
	if err != nil {
		log.Fatalf("[FATAL] attendance: %v", err)
	}

	auth, err := newAuthService()
	if err != nil {
		log.Fatalf("[FATAL] auth: %v", err)
	}

	routes.SetupRoutes(app, routes.AppDeps{Attendance: attendance, Auth: auth})

	// schedulers run until shutdown
	bg, stopBg := context.WithCancel(context.Background())
	qrScheduler.StartIssuanceCleanupScheduler(bg, attendance.Issuance, attCfg.CleanupInterval, attendance.IssuanceGrace)
	authScheduler.StartSessionCleanupScheduler(bg, auth.Sessions, attCfg.CleanupInterval)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("[INFO] Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopBg()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	database.CloseRedis()
	database.Close()
}

// newClassroomDirectory prefers the database; without one it loads the seed file into memory.
func newClassroomDirectory() (qrRepo.ClassroomDirectory, error) {
	if database.DB != nil {
		return qrRepo.NewGormClassroomDirectory(database.DB), nil
	}
	path := configs.GetEnv("CLASSROOMS_FILE", classrooms.DefaultPath)
	rooms, err := classrooms.LoadClassroomsFromJSON(path)
	if err != nil {
		log.Printf("[WARN] classroom registry unavailable: %v", err)
		return qrRepo.NewMemoryClassroomDirectory(), nil
	}
	log.Printf("[INFO] Loaded %d classrooms from %s", len(rooms), path)
	return qrRepo.NewMemoryClassroomDirectory(rooms...), nil
}

func newAuthService() (*authService.AuthService, error) {
	users, err := authRepo.NewMemoryUserDirectory(authRepo.SampleUsers(), configs.DemoPassword, 0)
	if err != nil {
		return nil, err
	}

	var sessions authRepo.SessionStore
	switch strings.ToLower(configs.GetEnv("SESSION_STORE", configs.StoreMemory)) {
	case configs.StoreRedis:
		if database.Redis == nil {
			log.Println("[WARN] SESSION_STORE=redis without REDIS_ADDR, using memory")
			sessions = authRepo.NewMemorySessionStore()
		} else {
			sessions = authRepo.NewRedisSessionStore(database.Redis)
		}
	case configs.StoreDatabase:
		if database.DB == nil {
			log.Println("[WARN] SESSION_STORE=database without a database, using memory")
			sessions = authRepo.NewMemorySessionStore()
		} else {
			sessions = authRepo.NewGormSessionStore(database.DB)
		}
	default:
		sessions = authRepo.NewMemorySessionStore()
	}

	return &authService.AuthService{
		Users:          users,
		Sessions:       sessions,
		Secret:         []byte(configs.JWTSecret),
		TTL:            configs.JWTTTL,
		GoogleClientID: configs.GoogleClientID,
	}, nil
}
