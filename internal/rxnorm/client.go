package rxnorm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Drug is one search hit: a concept whose name matched the query.
type Drug struct {
	RxCUI string
	Name  string
	TTY   string
	Rank  int
}

// Concept is the property record of a single concept id.
type Concept struct {
	RxCUI   string
	Name    string
	Synonym string
	TTY     string
}

// Formulation is a strength-specific product related to a drug.
type Formulation struct {
	RxCUI      string
	Name       string
	TTY        string
	Strength   string
	DosageForm string
}

// Lookup is the drug-terminology boundary consumed by the application.
type Lookup interface {
	// Search resolves a free-text name into ranked drug concepts.
	Search(ctx context.Context, name string) ([]Drug, error)
	// Formulations lists clinical and branded products for a concept.
	Formulations(ctx context.Context, rxcui string) ([]Formulation, error)
	Properties(ctx context.Context, rxcui string) (*Concept, error)
}

// Client implements Lookup over the RxNav REST API.
type Client struct {
	cfg      Config
	http     *http.Client
	limiter  *rate.Limiter
	observer Observer
}

// NewClient creates a Client. A nil observer discards events.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		limiter:  rate.NewLimiter(limit, burst),
		observer: observer,
	}
}

type approximateResponse struct {
	ApproximateGroup struct {
		Candidate []struct {
			RxCUI string `json:"rxcui"`
			Rank  string `json:"rank"`
			Name  string `json:"name"`
		} `json:"candidate"`
	} `json:"approximateGroup"`
}

type conceptProperties struct {
	RxCUI   string `json:"rxcui"`
	Name    string `json:"name"`
	Synonym string `json:"synonym"`
	TTY     string `json:"tty"`
}

type propertiesResponse struct {
	Properties *conceptProperties `json:"properties"`
}

type relatedResponse struct {
	RelatedGroup struct {
		ConceptGroup []struct {
			TTY               string              `json:"tty"`
			ConceptProperties []conceptProperties `json:"conceptProperties"`
		} `json:"conceptGroup"`
	} `json:"relatedGroup"`
}

func (c *Client) Search(ctx context.Context, name string) ([]Drug, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyQuery
	}

	q := url.Values{}
	q.Set("term", name)
	q.Set("maxEntries", strconv.Itoa(c.cfg.MaxCandidates))
	var approx approximateResponse
	if err := c.get(ctx, "search", "/approximateTerm.json", q, &approx); err != nil {
		return nil, err
	}

	// Candidates repeat a concept once per source atom; keep the best rank.
	type candidate struct {
		rxcui string
		rank  int
	}
	var cands []candidate
	seen := make(map[string]bool)
	for _, cand := range approx.ApproximateGroup.Candidate {
		if cand.RxCUI == "" || seen[cand.RxCUI] {
			continue
		}
		seen[cand.RxCUI] = true
		rank, _ := strconv.Atoi(cand.Rank)
		cands = append(cands, candidate{rxcui: cand.RxCUI, rank: rank})
	}
	if len(cands) == 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrNoResults)
	}

	concepts := make([]*Concept, len(cands))
	g, gctx := errgroup.WithContext(ctx)
	if c.cfg.Concurrency > 0 {
		g.SetLimit(c.cfg.Concurrency)
	}
	for i, cand := range cands {
		g.Go(func() error {
			concept, err := c.Properties(gctx, cand.rxcui)
			if err != nil {
				if errors.Is(err, ErrNoResults) {
					return nil
				}
				return err
			}
			concepts[i] = concept
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	drugs := make([]Drug, 0, len(cands))
	names := make(map[string]bool)
	for i, concept := range concepts {
		if concept == nil || concept.Name == "" {
			continue
		}
		key := strings.ToLower(concept.Name)
		if names[key] {
			continue
		}
		names[key] = true
		drugs = append(drugs, Drug{RxCUI: concept.RxCUI, Name: concept.Name, TTY: concept.TTY, Rank: cands[i].rank})
	}
	sort.SliceStable(drugs, func(i, j int) bool { return drugs[i].Rank < drugs[j].Rank })
	if len(drugs) == 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrNoResults)
	}
	return drugs, nil
}

func (c *Client) Properties(ctx context.Context, rxcui string) (*Concept, error) {
	var resp propertiesResponse
	if err := c.get(ctx, "properties", "/rxcui/"+url.PathEscape(rxcui)+"/properties.json", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Properties == nil {
		return nil, fmt.Errorf("rxcui %s: %w", rxcui, ErrNoResults)
	}
	p := resp.Properties
	return &Concept{RxCUI: p.RxCUI, Name: p.Name, Synonym: p.Synonym, TTY: p.TTY}, nil
}

// Formulations returns the SCD (generic) products before the SBD (branded)
// ones, each group ordered by strength then name.
func (c *Client) Formulations(ctx context.Context, rxcui string) ([]Formulation, error) {
	q := url.Values{}
	q.Set("tty", "SCD SBD")
	var resp relatedResponse
	if err := c.get(ctx, "formulations", "/rxcui/"+url.PathEscape(rxcui)+"/related.json", q, &resp); err != nil {
		return nil, err
	}

	var out []Formulation
	seen := make(map[string]bool)
	for _, group := range resp.RelatedGroup.ConceptGroup {
		for _, p := range group.ConceptProperties {
			if p.RxCUI == "" || seen[p.RxCUI] {
				continue
			}
			seen[p.RxCUI] = true
			tty := p.TTY
			if tty == "" {
				tty = group.TTY
			}
			out = append(out, Formulation{
				RxCUI:      p.RxCUI,
				Name:       p.Name,
				TTY:        tty,
				Strength:   ExtractStrength(p.Name),
				DosageForm: ExtractDosageForm(p.Name),
			})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("rxcui %s formulations: %w", rxcui, ErrNoResults)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TTY != out[j].TTY {
			return out[i].TTY == "SCD"
		}
		si, sj := strengthValue(out[i].Strength), strengthValue(out[j].Strength)
		if si != sj {
			return si < sj
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// get performs one rate-limited GET and decodes the JSON body into dst.
// Transport failures are retried up to MaxRetries times; status and decode
// errors are not.
func (c *Client) get(ctx context.Context, op, path string, q url.Values, dst any) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var err error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		err = c.doRequest(ctx, path, q, dst)
		if err == nil || !errors.Is(err, ErrUnavailable) || ctx.Err() != nil {
			break
		}
	}

	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		Path:      path,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *Client) doRequest(ctx context.Context, path string, q url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	u := strings.TrimRight(c.cfg.Endpoint, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrBadStatus, resp.StatusCode)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
