// Package router mounts the HTTP API: workflow runs, step previews, render
// status, and configuration inspection.
package router

import (
	"context"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/awjames6875/shipflow/internal/conf"
	"github.com/awjames6875/shipflow/internal/provider"
	"github.com/awjames6875/shipflow/internal/workflow"
	"github.com/awjames6875/shipflow/pkg/httpx"
)

// AvatarLister lists the photo avatars available to the account.
type AvatarLister interface {
	ListTalkingPhotos(ctx context.Context) ([]provider.TalkingPhoto, error)
}

// Router exposes the workflow API over gin.
type Router struct {
	orchestrator *workflow.Orchestrator
	researcher   workflow.Researcher
	writer       workflow.ScriptWriter
	renderer     workflow.VideoRenderer
	avatars      AvatarLister
	cfg          conf.AppConfig
}

func New(o *workflow.Orchestrator, r workflow.Researcher, w workflow.ScriptWriter, v workflow.VideoRenderer, avatars AvatarLister, cfg conf.AppConfig) *Router {
	return &Router{
		orchestrator: o,
		researcher:   r,
		writer:       w,
		renderer:     v,
		avatars:      avatars,
		cfg:          cfg,
	}
}

// Register mounts all routes on the api group.
func (rt *Router) Register(api *gin.RouterGroup) {
	api.POST("/workflow/run", rt.runWorkflow)
	api.POST("/research", rt.research)
	api.POST("/write-script", rt.writeScript)
	api.GET("/video-status/:id", rt.videoStatus)
	api.GET("/avatars", rt.listAvatars)
	api.GET("/config", rt.showConfig)
	api.GET("/config/validate", rt.validateConfig)
}

func (rt *Router) runWorkflow(c *gin.Context) {
	var in workflow.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.WithRepErr(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, err.Error())
		return
	}

	run, err := rt.orchestrator.Execute(c.Request.Context(), in)
	if err != nil {
		var cfgErr *workflow.ConfigError
		if errors.As(err, &cfgErr) {
			httpx.WithRepErr(c, httpx.ConfigInvalid.Code, httpx.ConfigInvalid.Msg, cfgErr.Error())
			return
		}
		httpx.WithRepErr(c, httpx.Failed.Code, httpx.Failed.Msg, err.Error())
		return
	}
	httpx.WithRepDetail(c, run)
}

type researchRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// research previews the research step without running the pipeline.
func (rt *Router) research(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WithRepErr(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, err.Error())
		return
	}

	out, err := rt.researcher.Research(c.Request.Context(), req.Prompt)
	if err != nil {
		httpx.WithRepErr(c, httpx.UpstreamFailed.Code, httpx.UpstreamFailed.Msg, err.Error())
		return
	}
	httpx.WithRepDetail(c, gin.H{"report": out})
}

type writeScriptRequest struct {
	Report        string `json:"report" binding:"required"`
	LengthSeconds int    `json:"length_seconds"`
}

// writeScript previews the script writing step.
func (rt *Router) writeScript(c *gin.Context) {
	var req writeScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WithRepErr(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, err.Error())
		return
	}

	script, err := rt.writer.WriteScript(c.Request.Context(), req.Report, req.LengthSeconds)
	if err != nil {
		httpx.WithRepErr(c, httpx.UpstreamFailed.Code, httpx.UpstreamFailed.Msg, err.Error())
		return
	}
	httpx.WithRepDetail(c, script)
}

func (rt *Router) videoStatus(c *gin.Context) {
	id := c.Param("id")
	status, err := rt.renderer.VideoStatus(c.Request.Context(), id)
	if err != nil {
		httpx.WithRepErr(c, httpx.UpstreamFailed.Code, httpx.UpstreamFailed.Msg, err.Error())
		return
	}
	httpx.WithRepDetail(c, gin.H{
		"video_id":  id,
		"status":    status.State,
		"video_url": status.Artifact,
		"error":     status.Reason,
	})
}

func (rt *Router) listAvatars(c *gin.Context) {
	avatars, err := rt.avatars.ListTalkingPhotos(c.Request.Context())
	if err != nil {
		httpx.WithRepErr(c, httpx.UpstreamFailed.Code, httpx.UpstreamFailed.Msg, err.Error())
		return
	}
	httpx.WithRepDetail(c, avatars)
}

// showConfig reports which providers are configured. Secrets stay redacted.
func (rt *Router) showConfig(c *gin.Context) {
	p := rt.cfg.Providers
	platforms := make([]string, 0, len(p.Blotato.Accounts))
	for name := range p.Blotato.Accounts {
		platforms = append(platforms, name)
	}
	sort.Strings(platforms)
	httpx.WithRepDetail(c, gin.H{
		"perplexity": p.Perplexity.APIKey != "",
		"openai":     p.OpenAI.APIKey != "",
		"heygen":     p.HeyGen.APIKey != "",
		"blotato":    p.Blotato.APIKey != "",
		"platforms":  platforms,
	})
}

func (rt *Router) validateConfig(c *gin.Context) {
	report := conf.Validate(c.Request.Context(), rt.cfg.Providers, conf.Probes{})
	httpx.WithRepDetail(c, report)
}
