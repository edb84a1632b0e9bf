package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"leadintel/server/internal/benchmark"
	"leadintel/server/internal/callscript"
	"leadintel/server/internal/cma"
	"leadintel/server/internal/geometry"
	"leadintel/server/internal/ingest"
	"leadintel/server/internal/market"
	"leadintel/server/internal/models"
	"leadintel/server/internal/narrative"
	"leadintel/server/internal/retry"
)

// SectionStatus reports how one upstream fetch of a report went.
type SectionStatus string

const (
	StatusOK               SectionStatus = "ok"
	StatusInsufficientData SectionStatus = "insufficient-data"
	StatusTimeout          SectionStatus = "timeout"
	StatusUnavailable      SectionStatus = "unavailable"
)

type Section struct {
	Status    SectionStatus `json:"status"`
	Retryable bool          `json:"retryable,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// Sections holds the status of each independently fetched part of a report.
type Sections struct {
	Comps            Section `json:"comps"`
	AgentPerformance Section `json:"agent_performance"`
	TopAgents        Section `json:"top_agents"`
	Inventory        Section `json:"inventory"`
}

// Report is everything the dashboard shows for one subject property.
type Report struct {
	Subject               models.SubjectProperty `json:"subject"`
	Sections              Sections               `json:"sections"`
	CMA                   cma.Analysis           `json:"cma"`
	Market                models.MarketSnapshot  `json:"market"`
	InventoryLabel        string                 `json:"inventory_label,omitempty"`
	InventoryTalkingPoint string                 `json:"inventory_talking_point,omitempty"`
	Benchmark             *benchmark.Result      `json:"benchmark,omitempty"`
	TopAgents             []models.TopAgent      `json:"top_agents"`
	Script                callscript.Script      `json:"script"`
	TalkingPoints         narrative.Result       `json:"talking_points"`
	GeneratedAt           time.Time              `json:"generated_at"`
}

// ScriptInputs returns the inputs the report's script was rendered from.
func (r *Report) ScriptInputs() callscript.Inputs {
	return callscript.Inputs{
		Subject:   r.Subject,
		Analysis:  r.CMA,
		Benchmark: r.Benchmark,
		Market:    r.Market,
		Now:       r.GeneratedAt,
	}
}

// BuildReport fetches comps, agent performance, the agent ranking and active
// inventory concurrently. A failed fetch only marks its own section; the
// rest of the report is still computed.
func (s *Service) BuildReport(ctx context.Context, subject models.SubjectProperty, tone callscript.Tone, length callscript.Length) (*Report, error) {
	if subject.Address == "" && subject.Zip == "" {
		return nil, ErrInsufficientInput
	}

	r := &Report{Subject: subject, TopAgents: []models.TopAgent{}, GeneratedAt: s.now()}
	log := s.logger.WithFields(logrus.Fields{"address": subject.Address, "zip": subject.Zip})

	var (
		pool      []models.Comp
		agentRaw  *models.RawAgentPerformance
		inventory int
	)

	// Every goroutine returns nil so one failure never cancels the others.
	var g errgroup.Group

	g.Go(func() error {
		if subject.Zip == "" {
			r.Sections.Comps = insufficient("No zip code for comparable sales")
			return nil
		}
		var err error
		pool, err = s.compPool(ctx, subject.Zip, r.GeneratedAt)
		r.Sections.Comps = s.section(log, "comps", err)
		return nil
	})

	g.Go(func() error {
		if subject.Zip == "" || subject.ListAgentEmail == "" || subject.ListAgentPhone == "" {
			r.Sections.AgentPerformance = insufficient("Listing agent contact or zip code missing")
			return nil
		}
		var err error
		agentRaw, err = fetch(ctx, s, func(ctx context.Context) (*models.RawAgentPerformance, error) {
			return s.source.AgentPerformance(ctx, subject.ListAgentEmail, subject.ListAgentPhone, subject.Zip)
		})
		r.Sections.AgentPerformance = s.section(log, "agent_performance", err)
		return nil
	})

	g.Go(func() error {
		if subject.Zip == "" {
			r.Sections.TopAgents = insufficient("No zip code for agent ranking")
			return nil
		}
		agents, err := s.TopAgents(ctx, subject.Zip, subject.ListAgentName, subject.ListAgentPhone)
		r.Sections.TopAgents = s.section(log, "top_agents", err)
		if err == nil {
			r.TopAgents = agents
		}
		return nil
	})

	g.Go(func() error {
		if subject.Zip == "" {
			r.Sections.Inventory = insufficient("No zip code for active inventory")
			return nil
		}
		var err error
		inventory, err = fetch(ctx, s, func(ctx context.Context) (int, error) {
			return s.source.ActiveInventory(ctx, subject.Zip)
		})
		r.Sections.Inventory = s.section(log, "inventory", err)
		return nil
	})

	_ = g.Wait()

	r.CMA = s.analyze(subject, pool)
	if r.Sections.Comps.Status == StatusOK && len(r.CMA.Comps) == 0 {
		r.Sections.Comps = insufficient(fmt.Sprintf("No comparable sales in the last %d months", s.config.CMA.CompWindowMonths))
	}

	r.Market = market.Summarize(pool, inventory)
	if r.Sections.Inventory.Status == StatusOK {
		r.InventoryLabel = market.InventoryLabel(inventory)
		r.InventoryTalkingPoint = market.InventoryTalkingPoint(inventory, subject.City)
	}

	if r.Sections.AgentPerformance.Status == StatusOK {
		agent, zip, activity := ingest.AgentPerformance(agentRaw)
		r.Benchmark = benchmark.Compute(agent, zip, activity)
		if r.Benchmark == nil {
			r.Sections.AgentPerformance = insufficient("No performance record for the listing agent")
		}
	}

	r.Script = callscript.Build(r.ScriptInputs(), tone, length)
	r.TalkingPoints = s.narrative.TalkingPoints(ctx, subject, r.Script.FactPack)
	return r, nil
}

// Script re-renders the call script of an existing report with a new tone
// and length. No data is fetched.
func (s *Service) Script(r *Report, tone callscript.Tone, length callscript.Length) callscript.Script {
	return callscript.Build(r.ScriptInputs(), tone, length)
}

// analyze selects and prices comps for subject. Selected comps carry their
// distance to the subject and are ordered most recent sale first.
func (s *Service) analyze(subject models.SubjectProperty, pool []models.Comp) cma.Analysis {
	sel := s.policy.Select(subject, pool)
	sel.Comps = geometry.AnnotateDistances(subject, sel.Comps)

	analysis := cma.Analyze(subject, sel)
	analysis.Comps = cma.SortBySoldDate(analysis.Comps)
	return analysis
}

func (s *Service) section(log *logrus.Entry, name string, err error) Section {
	if err == nil {
		return Section{Status: StatusOK}
	}

	log.WithField("section", name).WithError(err).Error("Report section fetch failed")
	if retry.IsTimeout(err) {
		return Section{Status: StatusTimeout, Retryable: true, Message: "Request timed out, try again"}
	}
	return Section{Status: StatusUnavailable, Message: "Service temporarily unavailable"}
}

func insufficient(message string) Section {
	return Section{Status: StatusInsufficientData, Message: message}
}
