// Package bootstrap wires configuration, logging, vendor clients, the
// orchestrator, the HTTP server and the scheduler into a runnable app.
package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/awjames6875/shipflow/internal/conf"
	"github.com/awjames6875/shipflow/internal/provider"
	"github.com/awjames6875/shipflow/internal/router"
	"github.com/awjames6875/shipflow/internal/scheduler"
	"github.com/awjames6875/shipflow/internal/workflow"
	"github.com/awjames6875/shipflow/pkg/httpx"
	"github.com/awjames6875/shipflow/pkg/log"
	"github.com/awjames6875/shipflow/pkg/ratelimit"
)

// App holds the wired application.
type App struct {
	Conf      conf.AppConfig
	Engine    *gin.Engine
	Scheduler *scheduler.Scheduler
}

// NewApp loads configuration from confDir, validates it, and wires every
// component. Validation failures abort startup with the report in the logs.
func NewApp(confDir string) (*App, error) {
	cfg, err := conf.LoadConfigFile(confDir)
	if err != nil {
		return nil, err
	}
	log.MustInit(&cfg.Log)

	perplexity := provider.NewPerplexityClient(cfg.Providers.Perplexity)
	openai := provider.NewOpenAIClient(cfg.Providers.OpenAI)
	heygen := provider.NewHeyGenClient(cfg.Providers.HeyGen)
	blotato := provider.NewBlotatoClient(cfg.Providers.Blotato)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	report := conf.Validate(ctx, cfg.Providers, conf.Probes{
		HeyGenTalkingPhoto: heygen.VerifyTalkingPhoto,
		HeyGenAvatar:       heygen.VerifyAvatar,
		BlotatoConnection:  blotato.TestConnection,
	})
	log.Info(report.String())
	if !report.Passed() {
		return nil, errors.New("configuration validation failed, fix the errors above and restart")
	}

	limits := ratelimit.NewRegistry()
	limits.SetInterval(workflow.OpUploadMedia, time.Duration(cfg.Workflow.UploadIntervalSeconds)*time.Second, 1)
	limits.SetInterval(workflow.OpPublishPost, time.Duration(cfg.Workflow.PublishIntervalSeconds)*time.Second, 1)

	orchestrator := workflow.NewOrchestrator(perplexity, openai, heygen, blotato, limits, workflow.Config{
		Accounts:            cfg.Providers.Blotato.Accounts,
		PollInterval:        time.Duration(cfg.Providers.HeyGen.PollIntervalSeconds) * time.Second,
		PollMaxAttempts:     cfg.Providers.HeyGen.PollMaxAttempts,
		MaxRunDuration:      time.Duration(cfg.Workflow.MaxRunSeconds) * time.Second,
		AcceptEmptyArtifact: cfg.Providers.HeyGen.AcceptEmptyVideoURL,
	})

	rt := router.New(orchestrator, perplexity, openai, heygen, heygen, *cfg)
	engine := httpx.NewEngine(cfg.Http, rt.Register)

	return &App{
		Conf:      *cfg,
		Engine:    engine,
		Scheduler: scheduler.New(orchestrator, cfg.Schedule, cfg.Workflow.Platforms),
	}, nil
}

// Run starts the scheduler and HTTP server, then blocks until an exit
// signal arrives and shuts both down.
func (a *App) Run() error {
	if err := a.Scheduler.Start(); err != nil {
		return err
	}
	stopHTTP := httpx.NewHTTP(a.Conf.Http, a.Engine)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-quit
	log.Infof("received signal %v, shutting down", sig)

	stopHTTP()
	a.Scheduler.Stop()
	return nil
}
