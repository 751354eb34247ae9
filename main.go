package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hdang/siteadmin/internal/audit"
	"github.com/hdang/siteadmin/internal/auth"
	"github.com/hdang/siteadmin/internal/common"
	"github.com/hdang/siteadmin/internal/config"
	"github.com/hdang/siteadmin/internal/handlers/api"
	"github.com/hdang/siteadmin/internal/mail"
	"github.com/hdang/siteadmin/internal/middlewares"
	"github.com/hdang/siteadmin/internal/ratelimit"
	"github.com/hdang/siteadmin/internal/rbac"
	"github.com/hdang/siteadmin/internal/sessions"
	"github.com/hdang/siteadmin/internal/site"
	"github.com/hdang/siteadmin/internal/store"
	"github.com/hdang/siteadmin/internal/users"
	"github.com/hdang/siteadmin/model"
	"github.com/hdang/siteadmin/params"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
	gitTag    string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "siteadmin - marketing site backend with an access-control core"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Printf("siteadmin %s (commit %s, %s)\n", gitTag, gitCommit, gitDate)
				return nil
			},
		},
	}
	app.Action = run
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustInitDatabase(dbConfig config.MySQLConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dbConfig.Dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dbConfig.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	return db
}

func initRedis(redisCfg config.RedisConfig) redis.UniversalClient {
	if redisCfg.URL == "" {
		return nil
	}
	opts, err := redis.ParseURL(redisCfg.URL)
	if err != nil {
		slog.Error("Invalid redis URL", "error", err)
		os.Exit(1)
	}
	if redisCfg.PoolSize > 0 {
		opts.PoolSize = redisCfg.PoolSize
	}
	return redis.NewClient(opts)
}

func initMailSender(cfg *config.Config) mail.MailSender {
	mailCfg := cfg.Mail
	if mailCfg.Backend != "smtp" {
		return nil
	}
	password := mailCfg.SMTP.Password
	if mailCfg.SMTP.PasswordEncrypted != "" {
		decrypted, err := common.DecryptString(cfg.Session.Secret, mailCfg.SMTP.PasswordEncrypted)
		if err != nil {
			slog.Error("Could not decrypt SMTP password", "error", err)
			os.Exit(1)
		}
		password = decrypted
	}
	return mail.NewSMTPMailSender(mail.SMTPConfig{
		Host:     mailCfg.SMTP.Host,
		Port:     mailCfg.SMTP.Port,
		Username: mailCfg.SMTP.Username,
		Password: password,
	}, mailCfg.SMTP.From)
}

// seedFallbackAdmin creates a development-only administrator when the user
// table is empty. Never runs in production; the generated password is logged
// once instead of being a fixed credential pair.
func seedFallbackAdmin(ctx context.Context, cfg *config.Config, userRepo users.UserRepository, userService *users.UserService, roleService *rbac.RoleService) error {
	if cfg.IsProduction() {
		return nil
	}
	count, err := userRepo.Count(ctx)
	if err != nil || count > 0 {
		return err
	}

	role, err := roleService.GetRoleByName(ctx, rbac.RoleSuperAdministrator)
	if err != nil {
		return err
	}
	password, err := common.GenerateSecret(20)
	if err != nil {
		return err
	}
	if _, err := userService.CreateUser(ctx, users.CreateUserOptions{
		Username: "admin",
		Email:    "admin@localhost",
		Password: password,
		RoleID:   role.ID,
	}); err != nil {
		return err
	}
	slog.Warn("Seeded development admin account", "username", "admin", "password", password)
	return nil
}

func run(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	mustInitLogger(cfg.Debug || ctx.IsSet(debugFlag.Name))

	if cfg.Session.Secret == "" {
		secret, err := common.GenerateSecret(32)
		if err != nil {
			return err
		}
		cfg.Session.Secret = secret
		slog.Warn("No session secret configured, generated an ephemeral one; sessions will not survive a restart")
	}

	db := mustInitDatabase(cfg.MySQL)
	rdb := initRedis(cfg.Redis)

	var cacheStorage store.Storage
	if rdb != nil {
		cacheStorage = store.NewRedisStorage(rdb)
	}

	// repositories
	var (
		userRepo     = users.NewUserRepository(db)
		sessionRepo  = sessions.NewSessionRepository(db)
		roleRepo     = rbac.NewRoleRepository(db)
		permRepo     = rbac.NewPermissionRepository(db)
		auditRepo    = audit.NewAuditLogRepository(db)
		securityRepo = audit.NewSecurityEventRepository(db)
	)

	// services
	var (
		auditor        = audit.NewRecorder(auditRepo)
		security       = audit.NewSecurityRecorder(securityRepo)
		signer         = sessions.NewTokenSigner(cfg.Session.Secret, cfg.Session.SessionMaxAge)
		sessionService = sessions.NewSessionService(sessionRepo, signer, params.MaxSessionsPerUser)
		userService    = users.NewUserService(userRepo)
		authService    = auth.NewAuthService(userRepo, userService, sessionService, auditor, security)
		roleService    = rbac.NewRoleService(roleRepo, permRepo, userRepo)
		resolver       = rbac.Resolver{}
		settingService = site.NewSettingService(site.NewSettingRepository(db))
		contactService = site.NewContactService(db, initMailSender(cfg), cfg.Mail.To)
		contentService = site.NewContentService(cfg.Content.UpstreamURL, cacheStorage)
	)

	if err := rbac.Seed(ctx.Context, roleRepo, permRepo); err != nil {
		slog.Error("Failed to seed roles and permissions", "error", err)
		return err
	}
	if err := seedFallbackAdmin(ctx.Context, cfg, userRepo, userService, roleService); err != nil {
		slog.Error("Failed to seed fallback admin", "error", err)
		return err
	}

	// rate limiters, one independent counter space each
	var (
		loginLimiter = ratelimit.NewLimiter(ratelimit.Config{
			Window: params.LoginRateLimitWindow,
			Max:    params.LoginRateLimitMax,
			Sweep:  params.RateLimitSweepInterval,
		})
		apiLimiter = ratelimit.NewLimiter(ratelimit.Config{
			Window: params.APIRateLimitWindow,
			Max:    params.APIRateLimitMax,
			Sweep:  params.RateLimitSweepInterval,
		})
		contactLimiter = ratelimit.NewLimiter(ratelimit.Config{
			Window: params.ContactRateLimitWindow,
			Max:    params.ContactRateLimitMax,
			Sweep:  params.RateLimitSweepInterval,
		})
	)
	defer loginLimiter.Close()
	defer apiLimiter.Close()
	defer contactLimiter.Close()

	// handlers
	cookieConfig := api.CookieConfig{
		Name:     cfg.Session.CookieName,
		Secure:   cfg.Session.CookieSecure || cfg.IsProduction(),
		HttpOnly: true,
		MaxAge:   cfg.Session.SessionMaxAge,
	}
	var (
		authHandler    = api.NewAuthHandler(authService, userService, roleService, auditor, cookieConfig)
		sessionHandler = api.NewSessionHandler(sessionService, auditor)
		roleHandler    = api.NewRoleHandler(roleService, auditor)
		auditHandler   = api.NewAuditHandler(auditor, security)
		userHandler    = api.NewUserHandler(userService, auditor)
		siteHandler    = api.NewSiteHandler(settingService, contactService, contentService, auditor)
	)

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		ErrorHandler:  middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	requirePerm := func(permission string) fiber.Handler {
		return middlewares.RequirePermission(resolver, permission, auditor, security)
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(middlewares.RateLimit(apiLimiter, "api", security))

	// public surface
	apiGroup.Post("/login", middlewares.RateLimit(loginLimiter, "login", security), authHandler.PostLogin)
	apiGroup.Post("/contact", middlewares.RateLimit(contactLimiter, "contact", security), siteHandler.PostContact)
	apiGroup.Get("/content/:slug", siteHandler.GetContent)

	// authenticated surface
	authed := apiGroup.Group("", middlewares.SessionAuth(sessionService, userService, cfg.Session.CookieName))
	authed.Post("/logout", authHandler.PostLogout)
	authed.Get("/me", authHandler.GetMe)
	authed.Post("/change-password", authHandler.PostChangePassword)
	authed.Get("/sessions", sessionHandler.GetSessions)
	authed.Delete("/sessions/:id", sessionHandler.DeleteSession)

	authed.Post("/register", requirePerm(rbac.PermUsersCreate), authHandler.PostRegister)
	authed.Post("/users/:id/unlock", requirePerm(rbac.PermUsersUpdate), userHandler.PostUnlock)
	authed.Post("/users/:id/active", requirePerm(rbac.PermUsersUpdate), userHandler.PostSetActive)

	authed.Get("/roles", requirePerm(rbac.PermRolesRead), roleHandler.GetRoles)
	authed.Get("/roles/:id", requirePerm(rbac.PermRolesRead), roleHandler.GetRole)
	authed.Post("/roles", requirePerm(rbac.PermRolesCreate), roleHandler.PostRole)
	authed.Put("/roles/:id", requirePerm(rbac.PermRolesUpdate), roleHandler.PutRole)
	authed.Delete("/roles/:id", requirePerm(rbac.PermRolesDelete), roleHandler.DeleteRole)
	authed.Get("/permissions", requirePerm(rbac.PermRolesRead), roleHandler.GetPermissions)

	authed.Get("/audit-logs", requirePerm(rbac.PermAuditRead), auditHandler.GetAuditLogs)
	authed.Get("/security-events", requirePerm(rbac.PermAuditRead), auditHandler.GetSecurityEvents)
	authed.Post("/audit-cleanup", middlewares.RequireRole(resolver, rbac.RoleAdministrator, auditor, security), auditHandler.PostCleanup)

	authed.Get("/settings", requirePerm(rbac.PermSettingsRead), siteHandler.GetSettings)
	authed.Put("/settings/:key", requirePerm(rbac.PermSettingsUpdate), siteHandler.PutSetting)

	healthCheckCtx, term := context.WithCancel(ctx.Context)
	done := make(chan struct{})
	go common.StartHealthCheckServer(healthCheckCtx, done, rdb, db)
	defer func() {
		term()
		<-done
	}()
	return router.Listen(cfg.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
