// ABOUTME: Validator orchestrator sequencing direct attempts, relay fallback and discovery
// ABOUTME: Owns retry/backoff, error classification and cache population for feed validation

package validation

import (
	"context"
	"errors"
	"io"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"feedcheck-api/core/domain"
	cerrors "feedcheck-api/core/errors"
	"feedcheck-api/core/interfaces"
)

const maxBodySize = 5 << 20

// Config is the externally overridable validation tuning surface.
type Config struct {
	// InitialTimeout is the first attempt's timeout; each subsequent
	// attempt adds TimeoutStep on top
	InitialTimeout time.Duration

	// TimeoutStep is the escalation added per prior attempt
	TimeoutStep time.Duration

	// MaxAttempts bounds the direct attempt loop
	MaxAttempts int

	// BaseRetryDelay seeds the exponential backoff schedule
	BaseRetryDelay time.Duration

	// RetryCap bounds any single backoff delay
	RetryCap time.Duration

	// CacheTTL is the freshness window for cached results
	CacheTTL time.Duration

	// OriginHost is the host the service considers its own origin. When
	// set, direct attempts against other hosts are skipped and routed to
	// the relay pool. Empty disables the prediction.
	OriginHost string

	// LocalHosts are trusted exceptions never treated as cross-origin
	LocalHosts []string
}

// DefaultConfig returns the stock tuning values.
func DefaultConfig() Config {
	return Config{
		InitialTimeout: 5 * time.Second,
		TimeoutStep:    time.Second,
		MaxAttempts:    3,
		BaseRetryDelay: time.Second,
		RetryCap:       10 * time.Second,
		CacheTTL:       15 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.InitialTimeout <= 0 {
		c.InitialTimeout = def.InitialTimeout
	}
	if c.TimeoutStep <= 0 {
		c.TimeoutStep = def.TimeoutStep
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.BaseRetryDelay <= 0 {
		c.BaseRetryDelay = def.BaseRetryDelay
	}
	if c.RetryCap <= 0 {
		c.RetryCap = def.RetryCap
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	return c
}

// Service implements interfaces.Validator.
type Service struct {
	deps      interfaces.Dependencies
	cfg       Config
	parser    interfaces.FeedParser
	relay     interfaces.RelayClient
	discovery interfaces.DiscoveryEngine
	cache     *ResultCache

	// injectable for deterministic tests
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

// NewService creates a validator. relay and discovery may be nil, in which
// case the corresponding fallback stages are skipped.
func NewService(deps interfaces.Dependencies, cfg Config, parser interfaces.FeedParser, relayClient interfaces.RelayClient, discoveryEngine interfaces.DiscoveryEngine) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		deps:      deps,
		cfg:       cfg,
		parser:    parser,
		relay:     relayClient,
		discovery: discoveryEngine,
		cache:     NewResultCache(deps.Cache, deps.Logger, cfg.CacheTTL),
		sleep:     sleep,
		jitter:    defaultJitter,
	}
}

// Cache exposes the result cache for stats and admin surfaces.
func (s *Service) Cache() *ResultCache {
	return s.cache
}

// Validate checks whether target is a syndication feed.
func (s *Service) Validate(ctx context.Context, target string) *domain.ValidationResult {
	if cached := s.cache.Get(ctx, target); cached != nil {
		return cached
	}
	result := s.validateUncached(ctx, target)
	s.cache.Set(ctx, result)
	return result
}

// Revalidate bypasses and replaces any cached result for target.
func (s *Service) Revalidate(ctx context.Context, target string) *domain.ValidationResult {
	_ = s.cache.Invalidate(ctx, target)
	return s.Validate(ctx, target)
}

// ClearCache drops every cached validation result.
func (s *Service) ClearCache(ctx context.Context) error {
	_, err := s.cache.InvalidateAll(ctx)
	return err
}

// validateUncached runs the full direct/relay pipeline for one URL.
func (s *Service) validateUncached(ctx context.Context, target string) *domain.ValidationResult {
	start := time.Now()
	result := &domain.ValidationResult{URL: target, Status: domain.StatusChecking}

	defer func() {
		result.ElapsedMS = time.Since(start).Milliseconds()
		result.LastChecked = time.Now()
	}()

	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		verr := cerrors.NewValidationError(domain.ErrKindInvalidFormat, "not a valid http(s) URL",
			cerrors.ClassifyContext{URL: target, Method: domain.MethodDirect, Attempt: 1})
		result.AddAttempt(domain.ValidationAttempt{
			Timestamp: time.Now(),
			Method:    domain.MethodDirect,
			Error:     verr,
		})
		s.finalize(result, verr)
		return result
	}

	var lastErr *domain.ValidationError
	skippedDirect := s.crossOriginRestricted(parsed)

	if skippedDirect {
		// Direct fetch would fail anyway; record one synthetic attempt
		// for observability and go straight to the relay pool.
		lastErr = cerrors.NewValidationError(domain.ErrKindCrossOrigin,
			"direct attempt skipped: target host is cross-origin restricted",
			cerrors.ClassifyContext{URL: target, Method: domain.MethodDirect, Attempt: 1})
		result.AddAttempt(domain.ValidationAttempt{
			Timestamp: time.Now(),
			Method:    domain.MethodDirect,
			Error:     lastErr,
		})
	} else {
		lastErr = s.directLoop(ctx, target, result)
	}

	if !result.IsValid && s.shouldRelay(lastErr) {
		if verr := s.relayAttempt(ctx, target, result); verr != nil {
			lastErr = verr
		}
	}

	s.finalize(result, lastErr)
	return result
}

// directLoop issues up to MaxAttempts direct fetches with escalating
// timeouts, backing off between retryable failures. Non-retryable errors
// stop the loop without consuming remaining attempts.
func (s *Service) directLoop(ctx context.Context, target string, result *domain.ValidationResult) *domain.ValidationError {
	var lastErr *domain.ValidationError
	var pendingBackoff time.Duration

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		method := domain.MethodDirect
		if attempt > 1 {
			method = domain.MethodRetry
		}

		timeout := s.cfg.InitialTimeout + time.Duration(attempt-1)*s.cfg.TimeoutStep
		attemptStart := time.Now()
		info, status, verr := s.fetchAndParse(ctx, target, timeout, method, attempt)

		record := domain.ValidationAttempt{
			Timestamp:  attemptStart,
			Method:     method,
			Success:    verr == nil,
			Error:      verr,
			LatencyMS:  time.Since(attemptStart).Milliseconds(),
			StatusCode: status,
			BackoffMS:  pendingBackoff.Milliseconds(),
		}
		result.AddAttempt(record)

		if verr == nil {
			result.MarkValid(info.Title, info.Description, domain.ResultDirect)
			return nil
		}

		lastErr = verr
		if !cerrors.IsRetryable(verr) || attempt == s.cfg.MaxAttempts {
			return lastErr
		}

		pendingBackoff = backoffDelay(attempt, s.cfg.BaseRetryDelay, s.cfg.RetryCap, s.jitter)
		if err := s.sleep(ctx, pendingBackoff); err != nil {
			return lastErr
		}
		result.TotalRetries++
	}
	return lastErr
}

// fetchAndParse performs one probe: fetch with a hard per-attempt timeout,
// then hand the body to the feed parser.
func (s *Service) fetchAndParse(ctx context.Context, target string, timeout time.Duration, method domain.AttemptMethod, attempt int) (*interfaces.FeedInfo, int, *domain.ValidationError) {
	cctx := cerrors.ClassifyContext{URL: target, Method: method, Attempt: attempt}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := s.deps.HTTPClient.Get(fetchCtx, target)
	if err != nil {
		return nil, 0, cerrors.Classify(err, cctx)
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return nil, resp.StatusCode(), cerrors.ClassifyStatus(resp.StatusCode(), cctx)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body(), maxBodySize))
	if err != nil {
		return nil, resp.StatusCode(), cerrors.Classify(err, cctx)
	}

	info, err := s.parser.Parse(content)
	if err != nil {
		kind := domain.ErrKindParse
		if errors.Is(err, interfaces.ErrNotAFeed) {
			kind = domain.ErrKindInvalidFormat
		}
		return nil, resp.StatusCode(), cerrors.NewValidationError(kind, err.Error(), cctx)
	}

	return info, resp.StatusCode(), nil
}

// shouldRelay decides whether the relay pool is worth trying after direct
// attempts failed.
func (s *Service) shouldRelay(lastErr *domain.ValidationError) bool {
	if s.relay == nil || lastErr == nil {
		return false
	}
	switch lastErr.Kind {
	case domain.ErrKindCrossOrigin, domain.ErrKindNetwork, domain.ErrKindTimeout:
		return true
	}
	return false
}

// relayAttempt tries the relay pool once and appends its attempt record.
// Returns the classified error on failure, nil on success.
func (s *Service) relayAttempt(ctx context.Context, target string, result *domain.ValidationResult) *domain.ValidationError {
	attemptIdx := len(result.Attempts) + 1
	cctx := cerrors.ClassifyContext{URL: target, Method: domain.MethodRelay, Attempt: attemptIdx}
	attemptStart := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.InitialTimeout+time.Duration(s.cfg.MaxAttempts)*s.cfg.TimeoutStep)
	defer cancel()

	record := domain.ValidationAttempt{Timestamp: attemptStart, Method: domain.MethodRelay}

	relayResult, err := s.relay.FetchViaRelay(fetchCtx, target)
	if err != nil {
		verr := cerrors.NewValidationError(domain.ErrKindNetwork, err.Error(), cctx)
		record.Error = verr
		record.LatencyMS = time.Since(attemptStart).Milliseconds()
		result.AddAttempt(record)
		return verr
	}

	record.Relay = relayResult.Relay
	info, err := s.parser.Parse(relayResult.Content)
	if err != nil {
		kind := domain.ErrKindParse
		if errors.Is(err, interfaces.ErrNotAFeed) {
			kind = domain.ErrKindInvalidFormat
		}
		verr := cerrors.NewValidationError(kind, err.Error(), cctx)
		record.Error = verr
		record.LatencyMS = time.Since(attemptStart).Milliseconds()
		result.AddAttempt(record)
		return verr
	}

	record.Success = true
	record.LatencyMS = time.Since(attemptStart).Milliseconds()
	result.AddAttempt(record)
	result.MarkValid(info.Title, info.Description, domain.ResultRelay)
	return nil
}

// crossOriginRestricted predicts whether a direct fetch of target would be
// blocked by origin restrictions.
func (s *Service) crossOriginRestricted(target *url.URL) bool {
	if s.cfg.OriginHost == "" {
		return false
	}
	host := target.Hostname()
	if host == s.cfg.OriginHost || host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return false
	}
	for _, local := range s.cfg.LocalHosts {
		if host == local {
			return false
		}
	}
	return true
}

// finalize derives the public status from the terminal error.
func (s *Service) finalize(result *domain.ValidationResult, lastErr *domain.ValidationError) {
	if result.IsValid {
		result.FinalError = nil
		return
	}
	result.FinalError = lastErr
	if lastErr != nil {
		result.Status = lastErr.Status()
	} else {
		result.Status = domain.StatusInvalid
	}
}

// ValidateWithDiscovery wraps Validate with feed discovery on failure.
// Exactly one discovered candidate is adopted automatically; two or more
// pause for human disambiguation via StatusDiscoveryRequired; zero keeps
// the original failure so the caller never stalls.
func (s *Service) ValidateWithDiscovery(ctx context.Context, target string, onProgress interfaces.ProgressFunc) *domain.ValidationResult {
	progress := func(pct int, stage string) {
		if onProgress != nil {
			onProgress(pct, stage)
		}
	}

	progress(10, "validating")
	result := s.Validate(ctx, target)
	if result.IsValid || s.discovery == nil {
		progress(100, "done")
		return result
	}

	progress(30, "discovering")
	priorStatus := result.Status
	result.Status = domain.StatusDiscoveryInProgress

	outcome, err := s.discovery.DiscoverFromWebsite(ctx, target)
	if err != nil || len(outcome.Candidates) == 0 {
		// Discovery failures fold into the original failure; a dead end
		// never requires user input.
		result.Status = priorStatus
		progress(100, "done")
		return result
	}

	if len(outcome.Candidates) == 1 {
		progress(70, "validating discovered feed")
		adopted := s.Validate(ctx, outcome.Candidates[0].URL)
		adopted.Candidates = outcome.Candidates
		if adopted.IsValid {
			adopted.Method = domain.ResultDiscovery
			s.cache.Set(ctx, adopted)
			// The originally requested URL now resolves to the adopted feed.
			s.cache.SetFor(ctx, target, adopted)
		}
		progress(100, "done")
		return adopted
	}

	progress(90, "awaiting selection")
	result.Status = domain.StatusDiscoveryRequired
	result.IsValid = false
	result.Candidates = outcome.Candidates
	s.cache.Set(ctx, result)
	progress(100, "done")
	return result
}

// ValidateMany validates urls concurrently. Results are returned in input
// order regardless of completion order; the cache is the only shared state.
func (s *Service) ValidateMany(ctx context.Context, urls []string) []*domain.ValidationResult {
	results := make([]*domain.ValidationResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			results[i] = s.Validate(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Summary aggregates cached validation state for urls. URLs with no fresh
// cache entry count as checking.
func (s *Service) Summary(ctx context.Context, urls []string) domain.ValidationSummary {
	summary := domain.ValidationSummary{Total: len(urls)}
	for _, u := range urls {
		cached := s.cache.Get(ctx, u)
		if cached == nil {
			summary.Checking++
			continue
		}
		if cached.IsValid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		if summary.LastValidation == nil || cached.LastChecked.After(*summary.LastValidation) {
			t := cached.LastChecked
			summary.LastValidation = &t
		}
	}
	return summary
}
