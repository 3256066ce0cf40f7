package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Mentoria-api/internal/application/auth"
	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
	"github.com/jhoicas/Mentoria-api/internal/application/notification"
	"github.com/jhoicas/Mentoria-api/internal/application/roles"
	"github.com/jhoicas/Mentoria-api/internal/application/usecase"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/identity"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/mailer"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Mentoria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Mentoria-api/internal/interfaces/http"
	"github.com/jhoicas/Mentoria-api/pkg/config"
	"github.com/jhoicas/Mentoria-api/pkg/logger"
)

// storage Account Store elegido por configuración.
type storage struct {
	tx         invitation.TxRunner
	repos      invitation.Repos
	identities repository.IdentityRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("account store")
	}
	defer store.close()

	sessions := openSessionStore(ctx, cfg, log)
	provider := identity.NewProvider(store.identities, sessions, identity.Config{
		JWTSecret:        cfg.JWT.Secret,
		Issuer:           cfg.JWT.Issuer,
		AccessTTLMinutes: cfg.JWT.Expiration,
		RefreshTTL:       cfg.JWT.RefreshTTL(),
	}, log.Component("identity"))

	authLog := log.Component("auth-events")
	stopAuthLog := provider.OnAuthStateChange(func(ev entity.AuthEvent) {
		e := authLog.Info().Str("event", string(ev.Type))
		if ev.Session != nil {
			e = e.Str("user_id", ev.Session.User.ID)
		}
		e.Msg("evento de sesión")
	})
	defer stopAuthLog()

	sender, err := newSender(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas de email")
	}

	resolver := roles.NewResolver(store.repos.Roles)
	dispatcher := notification.NewDispatcher(sender, store.repos.Corporates, provider, log.Component("notification"))
	invitations := invitation.NewService(
		store.tx, store.repos, provider, dispatcher, infrapdf.NewInvitationPackGenerator(),
		invitation.Config{
			PublicURL:     cfg.App.PublicURL,
			NotifyTimeout: cfg.Signup.NotifyTimeout(),
			PhoneRegion:   cfg.Signup.PhoneRegion,
		},
		log.Zerolog(),
	)
	authUC := auth.NewAuthUseCase(provider, resolver, log.Component("auth"))
	dashboardUC := usecase.NewDashboardUseCase(
		store.repos.Corporates, store.repos.Schools, store.repos.PendingSchools, store.repos.Mentors, invitations,
	)
	searchUC := usecase.NewSchoolSearchUseCase(store.repos.Directory)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Mentoria API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Invitations:  invitations,
		Dashboards:   dashboardUC,
		SchoolSearch: searchUC,
		Auth:         provider,
		Roles:        resolver,
		Log:          log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Las notificaciones en vuelo tienen su propio timeout.
	invitations.WaitNotifications()
	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando migraciones) o el store en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == "memory" {
		log.Warn().Msg("account store en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			tx:         memory.NewTxRunner(s),
			repos:      memory.Repos(s),
			identities: memory.NewIdentityRepository(s),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if len(applied) > 0 {
		log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	}
	return &storage{
		tx:         postgres.NewTxRunner(pool),
		repos:      postgres.Repos(pool),
		identities: postgres.NewIdentityRepository(pool),
		close:      pool.Close,
	}, nil
}

// openSessionStore usa Redis si responde; si no, sesiones en memoria del proceso.
func openSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) identity.SessionStore {
	if cfg.Redis.Addr == "" {
		return identity.NewMemorySessionStore()
	}
	rdb, err := identity.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, sesiones en memoria")
		return identity.NewMemorySessionStore()
	}
	return identity.NewRedisSessionStore(rdb)
}

func newSender(cfg *config.Config, log *logger.Logger) (notification.Sender, error) {
	renderer, err := mailer.NewRenderer()
	if err != nil {
		return nil, err
	}
	if !cfg.SMTP.Enabled() {
		log.Warn().Msg("SMTP sin configurar: los emails solo se registran en el log")
		return mailer.NewLogSender(renderer, log.Component("mailer")), nil
	}
	return mailer.NewSMTPSender(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, renderer), nil
}
