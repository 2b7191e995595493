package web

import (
	"context"
	"errors"
	"strings"
	"time"

	"readmeai/config"
	"readmeai/db"
	"readmeai/deps"
	"readmeai/errs"
	"readmeai/gitrepo"
	"readmeai/platform/shutdown"
	"readmeai/window"

	json "github.com/goccy/go-json"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"
	"golang.org/x/time/rate"
)

const (
	// remote clones allowed per minute, with a small burst
	clonesPerMinute = 6
	cloneBurst      = 2

	// analysisSlack is added to the clone timeout for the walk and parsers
	analysisSlack = time.Minute

	largestFiles = 10
)

var (
	errShuttingDown = errors.New("server is shutting down")
	errRateLimited  = errors.New("too many remote analyses, try again shortly")
	errNoRepository = errors.New("repository is required")
)

// Handlers serves analyses over HTTP. Every run is stored so its report can
// be fetched again by id.
type Handlers struct {
	cfg      *config.Config
	pipeline *config.Pipeline
	store    *db.DB
	limiter  *rate.Limiter
}

// NewHandlers wires the pipeline and an in-memory run store from cfg
func NewHandlers(cfg *config.Config) (*Handlers, error) {
	pipeline, err := cfg.Pipeline()
	if err != nil {
		return nil, err
	}
	store, err := db.Open("")
	if err != nil {
		return nil, serr.Wrap(err, "failed to open run store")
	}

	return &Handlers{
		cfg:      cfg,
		pipeline: pipeline,
		store:    store,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/clonesPerMinute), cloneBurst),
	}, nil
}

// Close releases the run store
func (h *Handlers) Close() error {
	return h.store.Close()
}

type analyzeRequest struct {
	Repository string `json:"repository"`
	Remote     *bool  `json:"remote,omitempty"`
	Summary    bool   `json:"summary"`
}

// isRemote honors an explicit flag and otherwise guesses from the repository
func (r analyzeRequest) isRemote() bool {
	if r.Remote != nil {
		return *r.Remote
	}
	return gitrepo.IsRemote(r.Repository)
}

func parseAnalyzeRequest(body []byte) (analyzeRequest, error) {
	var req analyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return req, serr.Wrap(err, "invalid request body")
	}
	req.Repository = strings.TrimSpace(req.Repository)
	if req.Repository == "" {
		return req, errNoRepository
	}
	return req, nil
}

// statusFor maps analysis errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNoRepository):
		return 400
	case errors.Is(err, db.ErrRunNotFound):
		return 404
	case errors.Is(err, errRateLimited):
		return 429
	case errs.IsRepositoryUnavailable(err):
		return 502
	case errors.Is(err, errShuttingDown):
		return 503
	}
	return 500
}

// analyze runs the pipeline for req and stores the run
func (h *Handlers) analyze(req analyzeRequest) (deps.Result, error) {
	if shutdown.CheckShutdown() {
		return deps.Result{}, errShuttingDown
	}
	remote := req.isRemote()
	if remote && !h.limiter.Allow() {
		return deps.Result{}, errRateLimited
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.CloneTimeout+analysisSlack)
	defer cancel()

	res, err := h.pipeline.Extractor.FromRepository(ctx, req.Repository, remote)
	if err != nil {
		return res, err
	}
	if err := h.store.SaveSnapshot(res.Snapshot, res.Dependencies); err != nil {
		// the analysis itself succeeded
		logger.LogErr(serr.Wrap(err, "run", res.Snapshot.ID), "failed to store run")
	}
	return res, nil
}

func (h *Handlers) analyzeHandler(c rweb.Context) error {
	req, err := parseAnalyzeRequest(c.Request().Body())
	if err != nil {
		return c.WriteError(err, 400)
	}

	res, err := h.analyze(req)
	if err != nil {
		logger.LogErr(serr.Wrap(err, "repository", req.Repository), "analysis failed")
		return c.WriteError(err, statusFor(err))
	}

	response := map[string]interface{}{
		"run_id":       res.Snapshot.ID,
		"repository":   res.Snapshot.Root,
		"remote":       res.Snapshot.Remote,
		"tokens":       res.Snapshot.TotalTokens(),
		"dependencies": res.Dependencies,
		"files":        res.Snapshot.Records,
	}
	if req.Summary {
		s := window.Build(res, h.pipeline.Encoder, h.cfg.ContextTokens)
		response["summary"] = s
		response["context"] = s.Text()
	}
	return c.WriteJSON(response)
}

func (h *Handlers) runReportHandler(c rweb.Context) error {
	rep, err := h.store.Report(c.Request().Param("id"), largestFiles)
	if err != nil {
		return c.WriteError(err, statusFor(err))
	}
	return c.WriteJSON(rep)
}

// reportPageHandler analyzes the repository named in the query and renders
// the stored run
func (h *Handlers) reportPageHandler(c rweb.Context) error {
	req := analyzeRequest{Repository: strings.TrimSpace(c.Request().QueryParam("repository"))}
	if req.Repository == "" {
		return c.WriteError(errNoRepository, 400)
	}
	if raw := c.Request().QueryParam("remote"); raw != "" {
		remote := raw == "on" || raw == "true" || raw == "1"
		req.Remote = &remote
	}

	res, err := h.analyze(req)
	if err != nil {
		logger.LogErr(serr.Wrap(err, "repository", req.Repository), "analysis failed")
		return c.WriteError(err, statusFor(err))
	}
	rep, err := h.store.Report(res.Snapshot.ID, largestFiles)
	if err != nil {
		return c.WriteError(err, statusFor(err))
	}
	return c.WriteHTML(renderReportPage(rep, res.Dependencies))
}

func (h *Handlers) indexHandler(c rweb.Context) error {
	return c.WriteHTML(renderIndexPage())
}

// appInfoHandler returns application information
func (h *Handlers) appInfoHandler(c rweb.Context) error {
	return c.WriteJSON(map[string]interface{}{
		"name":           "readmeai",
		"status":         "ok",
		"encoding":       h.pipeline.Encoder.Name(),
		"context_tokens": h.cfg.ContextTokens,
		"match_mode":     h.cfg.MatchMode,
	})
}
