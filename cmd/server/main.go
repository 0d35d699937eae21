package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jeevandaan/website/internal/formlog"
	"github.com/jeevandaan/website/internal/forms"
	"github.com/jeevandaan/website/internal/pipeline"
	"github.com/jeevandaan/website/internal/web"
	"github.com/jeevandaan/website/pkg/clientip"
	"github.com/jeevandaan/website/pkg/config"
	"github.com/jeevandaan/website/pkg/cookie"
	"github.com/jeevandaan/website/pkg/httpserver"
	"github.com/jeevandaan/website/pkg/logger"
	"github.com/jeevandaan/website/pkg/mailer"
	"github.com/jeevandaan/website/pkg/redis"
	"github.com/jeevandaan/website/pkg/session"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	AppName string `env:"APP_NAME" envDefault:"website"`

	// CookieSecrets holds one or more signing secrets, comma-separated,
	// newest first. Older ones stay valid for rotation.
	CookieSecrets string `env:"COOKIE_SECRETS,required"`

	// SessionStore selects "memory" or "redis".
	SessionStore string `env:"SESSION_STORE" envDefault:"memory"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}

	logOpts := []logger.Option{logger.WithContextValue("ip", clientip.ContextKey)}
	if app.Env == "production" {
		logOpts = append(logOpts, logger.WithProduction(app.AppName))
	} else {
		logOpts = append(logOpts, logger.WithDevelopment(app.AppName))
	}
	log := logger.New(logOpts...)
	slog.SetDefault(log)

	cookies, err := cookie.New(strings.Split(app.CookieSecrets, ","))
	if err != nil {
		return err
	}

	var sessionCfg session.Config
	if err := config.Load(&sessionCfg); err != nil {
		return err
	}

	sessionOpts := []session.Option{
		session.WithConfig(sessionCfg),
		session.WithCookieManager(cookies),
	}
	var probes []func(context.Context) error

	if app.SessionStore == "redis" {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		sessionOpts = append(sessionOpts, session.WithStore(session.NewRedisStore(client)))
		probes = append(probes, redis.Healthcheck(client))
		log.Info("session store: redis")
	} else {
		log.Info("session store: memory")
	}

	sessions := session.New(sessionOpts...)
	defer sessions.Close()

	var formsCfg forms.Config
	if err := config.Load(&formsCfg); err != nil {
		return err
	}
	registry, err := forms.NewRegistry(formsCfg)
	if err != nil {
		return err
	}

	var mailCfg mailer.Config
	if err := config.Load(&mailCfg); err != nil {
		return err
	}
	sender, err := mailer.New(mailCfg)
	if err != nil {
		return err
	}
	log.Info("mailer ready", slog.String("driver", string(mailCfg.Driver)))

	var logCfg formlog.Config
	if err := config.Load(&logCfg); err != nil {
		return err
	}
	submissionLogs := formlog.New(logCfg, log)
	defer submissionLogs.Close()

	proc := pipeline.New(registry, sender, submissionLogs, pipeline.WithLogger(log))

	handlerOpts := []web.Option{web.WithLogger(log)}
	for _, probe := range probes {
		handlerOpts = append(handlerOpts, web.WithReadinessProbe(probe))
	}
	handler := web.NewHandler(sessions, registry, proc, handlerOpts...)

	var srvCfg httpserver.Config
	if err := config.Load(&srvCfg); err != nil {
		return err
	}

	return httpserver.New(srvCfg, log).Run(ctx, web.NewRouter(handler))
}
