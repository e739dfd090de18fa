package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Engine runs the extraction heuristic. It holds only the injected
// collaborator and a logger, so concurrent calls share no mutable state.
type Engine struct {
	extractor Extractor
	logger    *zap.Logger
}

func NewEngine(extractor Extractor, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		extractor: extractor,
		logger:    logger,
	}
}

// ExtractDocument runs the full heuristic over one piece of text: eligibility
// gate, flavor classification, collaborator call, item normalization, total
// reconciliation, and currency inference. Every failure kind is downgraded
// into the returned Result; the method never propagates a fault.
func (e *Engine) ExtractDocument(ctx context.Context, text string, attached bool) Result {
	text = strings.TrimSpace(text)

	if err := checkEligibility(text, attached); err != nil {
		return resultFromError(err)
	}

	lower := strings.ToLower(text)
	flavor := classifyFlavor(lower)

	raw, err := e.extractor.Extract(ctx, buildPrompt(text, flavor))
	if err != nil {
		e.logger.Warn("financial extraction call failed", zap.Error(err))
		return resultFromError(fmt.Errorf("%w: %v", ErrExtractionFailed, err))
	}

	cand, err := parseCandidate(raw)
	if err != nil {
		if !errors.Is(err, ErrNoFinancialData) {
			e.logger.Warn("financial extraction returned unusable content", zap.Error(err))
		}
		return resultFromError(err)
	}

	items := normalizeItems(cand.Items)
	total := reconcileTotal(flavor, items, parseAmount(cand.Total))

	// No items and nothing to total: the run produced no useful result.
	if len(items) == 0 && total == 0 {
		return Result{Status: StatusNoData}
	}

	doc := &Document{
		Items:      items,
		GrandTotal: total,
		Currency:   inferCurrency(cand.Currency, lower),
		Flavor:     flavor,
	}

	e.logger.Debug("financial document extracted",
		zap.String("flavor", string(doc.Flavor)),
		zap.Int("items", len(doc.Items)),
		zap.Float64("grand_total", doc.GrandTotal),
		zap.String("currency", doc.Currency),
	)

	return Result{Status: StatusExtracted, Document: doc}
}

// resultFromError maps the error taxonomy onto result statuses. Only
// collaborator failures keep their cause; the recoverable no-data kinds
// carry no error at all.
func resultFromError(err error) Result {
	switch {
	case errors.Is(err, ErrNoFinancialData):
		return Result{Status: StatusNoData}
	case errors.Is(err, ErrUnreadableDocument):
		return Result{Status: StatusUnreadable}
	default:
		return Result{Status: StatusFailed, Err: err}
	}
}
