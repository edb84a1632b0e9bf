// Package narrative produces the key talking points shown above the call
// script. Points come from a generative model when one is configured and
// fall back to sentences built from the listing itself.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"leadintel/server/internal/format"
	"leadintel/server/internal/models"
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"

	pointCount = 3
)

var (
	errNoClient     = errors.New("no narrative client configured")
	errTooFewPoints = errors.New("model returned too few talking points")
)

// Result is the set of talking points and where they came from.
type Result struct {
	Points []string `json:"points"`
	Source string   `json:"source"`
}

// Generator asks the client for talking points, bounded by timeout.
type Generator struct {
	client  Client
	timeout time.Duration
	logger  *logrus.Logger
}

// NewGenerator creates a Generator. A nil client always yields the fallback.
func NewGenerator(client Client, timeout time.Duration, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Generator{client: client, timeout: timeout, logger: logger}
}

// TalkingPoints never fails: any client error, timeout or unusable response
// is logged and replaced by Fallback.
func (g *Generator) TalkingPoints(ctx context.Context, subject models.SubjectProperty, fp models.FactPack) Result {
	points, err := g.generate(ctx, subject, fp)
	if err != nil {
		entry := g.logger.WithFields(logrus.Fields{"address": subject.Address})
		if errors.Is(err, errNoClient) {
			entry.Debug("Using fallback talking points")
		} else {
			entry.WithError(err).Warn("Talking point generation failed, using fallback")
		}
		return Result{Points: Fallback(subject, fp), Source: SourceFallback}
	}
	return Result{Points: points, Source: SourceAI}
}

func (g *Generator) generate(ctx context.Context, subject models.SubjectProperty, fp models.FactPack) ([]string, error) {
	if g.client == nil {
		return nil, errNoClient
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.client.Complete(ctx, Prompt(subject, fp))
	if err != nil {
		return nil, err
	}
	return parsePoints(text)
}

// Prompt renders the request sent to the model.
func Prompt(subject models.SubjectProperty, fp models.FactPack) string {
	var sb strings.Builder
	sb.WriteString("Generate 3 strategic talking points for a real estate agent calling a seller whose listing just expired.\n\n")
	sb.WriteString("Property context:\n")
	fmt.Fprintf(&sb, "- Address: %s\n", subject.Address)
	fmt.Fprintf(&sb, "- Type: %s\n", subject.PropertyType)
	fmt.Fprintf(&sb, "- Days on market: %d\n", subject.DaysOnMarket)
	fmt.Fprintf(&sb, "- Original price: %s\n", format.Money(subject.OriginalListPrice))
	fmt.Fprintf(&sb, "- Final price: %s\n", format.Money(subject.Ask()))
	fmt.Fprintf(&sb, "- Price drop: %s\n", format.Percent(subject.PriceCutPct()))
	if fp.CompCount > 0 {
		fmt.Fprintf(&sb, "- Comparable sales: %d, median %s, range %s\n",
			fp.CompCount, format.Money(fp.CompMedian), format.Range(fp.CompMin, fp.CompMax))
	}
	if fp.MarketMedianDOM > 0 {
		fmt.Fprintf(&sb, "- Zip median days on market: %d\n", fp.MarketMedianDOM)
	}
	if fp.HasAgent {
		fmt.Fprintf(&sb, "- Listing agent days on market vs zip: %+.0f days\n", fp.AgentDOMDelta)
		fmt.Fprintf(&sb, "- Listing agent price reductions vs zip: %s\n", format.SignedPercent(fp.AgentPriceCutDelta))
	}
	sb.WriteString("\nRequirements:\n")
	sb.WriteString("- Professional, data-driven tone.\n")
	sb.WriteString("- One concise sentence per point.\n")
	sb.WriteString(`- Respond with JSON only: {"talkingPoints": ["...", "...", "..."]}`)
	return sb.String()
}

// Fallback returns the locally built talking points for subject. Comparable
// sales and zip days on market are cited when fp carries them.
func Fallback(subject models.SubjectProperty, fp models.FactPack) []string {
	pricing := fmt.Sprintf("Address the discrepancy between the %s initial ask and the %s final list price",
		format.Money(subject.OriginalListPrice), format.Money(subject.Ask()))
	if fp.CompMedian > 0 {
		pricing += fmt.Sprintf(", against a %s median for recent comparable sales", format.Money(fp.CompMedian))
	}

	exposure := fmt.Sprintf("Focus on the %d-day market exposure period", subject.DaysOnMarket)
	if fp.MarketMedianDOM > 0 {
		exposure += fmt.Sprintf(" (the zip median is %d days)", fp.MarketMedianDOM)
	}

	return []string{
		pricing + ".",
		exposure + " and why the current local demand didn't absorb the property at this price.",
		`Propose a "market reset" strategy to overcome the stigma of the expired status and re-engage qualified local buyers.`,
	}
}

// parsePoints extracts the talkingPoints array, tolerating code fences and
// text around the JSON object.
func parsePoints(text string) ([]string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, errors.New("no JSON object in response")
	}

	var payload struct {
		TalkingPoints []string `json:"talkingPoints"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("decode talking points: %w", err)
	}

	points := make([]string, 0, pointCount)
	for _, p := range payload.TalkingPoints {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
		if len(points) == pointCount {
			break
		}
	}
	if len(points) < pointCount {
		return nil, errTooFewPoints
	}
	return points, nil
}
