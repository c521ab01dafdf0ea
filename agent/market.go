package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNoTickers is returned when there is nothing to ask the model about.
var ErrNoTickers = errors.New("no ticker to look up, add transactions or favorites first")

const (
	pricesSystem    = "Terminal financeiro."
	dividendsSystem = "Analista de Proventos."
	newsSystem      = "Agregador de notícias."
	importSystem    = "Extraia dados da nota. Retorne JSON: { ticker, type, quantity, price, date, fees, assetType, broker }"
)

func pricesPrompt(tickers []string) string {
	return fmt.Sprintf(`Pesquise o PREÇO ATUAL e a VARIAÇÃO DIÁRIA (%%) de hoje para: %s. Retorne JSON (sem markdown): { "TICKER": { "price": 0.00, "change": 0.00 } }`,
		strings.Join(tickers, ", "))
}

func dividendsPrompt(tickers []string, today date.Date) string {
	return fmt.Sprintf(`CONTEXTO: Hoje é %s.
TAREFA: Para os ativos %s:
1. Próximo provento (Data e Valor).
2. Soma total de proventos nos últimos 12 meses.

RETORNE APENAS JSON:
{
  "dividends": [{ "ticker": "AAA", "date": "YYYY-MM-DD", "type": "Dividendo", "value": 0.50, "info": "R$ 0,50" }],
  "yearlyTotal": { "AAA": 2.45, "BBB": 1.20 }
}`, today.Format("02/01/2006"), strings.Join(tickers, ", "))
}

func newsPrompt(tickers []string) string {
	return fmt.Sprintf(`Pesquise notícias financeiras recentes sobre: %s. Retorne APENAS JSON: { "news": [{ "ticker": "PETR4", "date": "2024-05-20", "title": "Título", "summary": "Resumo", "source": "Fonte" }] }`,
		strings.Join(tickers, ", "))
}

// Market runs the market research collaborators.
type Market struct {
	gen Generator
	log *logrus.Logger
	// NewID identifies news items.
	NewID func() string
}

// NewMarket returns the market collaborators backed by gen.
func NewMarket(gen Generator, log *logrus.Logger) *Market {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Market{gen: gen, log: log, NewID: uuid.NewString}
}

// Prices asks for the latest quote of tickers.
func (m *Market) Prices(ctx context.Context, tickers []string) (PriceUpdate, error) {
	if len(tickers) == 0 {
		return PriceUpdate{}, ErrNoTickers
	}
	text, err := m.gen.Generate(ctx, pricesPrompt(tickers), pricesSystem, true)
	if err != nil {
		return PriceUpdate{}, fmt.Errorf("price lookup failed: %w", err)
	}
	switch r := ParsePrices(text).(type) {
	case PriceUpdate:
		for _, t := range r.Skipped {
			m.log.WithField("ticker", t).Warn("no usable price in model answer")
		}
		return r, nil
	case *ParseFailed:
		m.log.WithField("raw", r.Raw).Warn(r.Reason)
		return PriceUpdate{}, r
	default:
		return PriceUpdate{}, fmt.Errorf("unexpected result %T", r)
	}
}

// Dividends asks for the next distributions and the trailing twelve months
// distributions of tickers.
func (m *Market) Dividends(ctx context.Context, tickers []string, today date.Date) (DividendForecast, error) {
	if len(tickers) == 0 {
		return DividendForecast{}, ErrNoTickers
	}
	text, err := m.gen.Generate(ctx, dividendsPrompt(tickers, today), dividendsSystem, true)
	if err != nil {
		return DividendForecast{}, fmt.Errorf("dividend forecast failed: %w", err)
	}
	switch r := ParseDividends(text).(type) {
	case DividendForecast:
		return r, nil
	case *ParseFailed:
		m.log.WithField("raw", r.Raw).Warn(r.Reason)
		return DividendForecast{}, r
	default:
		return DividendForecast{}, fmt.Errorf("unexpected result %T", r)
	}
}

// Update refreshes the snapshot market data: quotes for the held tickers
// and the favorites, dividend forecast for the held tickers only. Failures
// of one lookup do not prevent the other.
func (m *Market) Update(ctx context.Context, s *carteira.Snapshot, held []string, today date.Date) error {
	watch := s.Watchlist(held)
	if len(watch) == 0 {
		return ErrNoTickers
	}
	var errs error
	if prices, err := m.Prices(ctx, watch); err != nil {
		errs = errors.Join(errs, err)
	} else {
		s.SetPrices(prices.Quotes)
		m.log.WithField("count", len(prices.Quotes)).Info("prices updated")
	}
	if len(held) > 0 {
		if forecast, err := m.Dividends(ctx, held, today); err != nil {
			errs = errors.Join(errs, err)
		} else {
			s.SetForecast(forecast.Predictions, forecast.Trailing)
			m.log.WithField("count", len(forecast.Predictions)).Info("dividend forecast updated")
		}
	}
	return errs
}

// News asks for recent news about tickers.
func (m *Market) News(ctx context.Context, tickers []string) ([]carteira.NewsItem, error) {
	if len(tickers) == 0 {
		return nil, ErrNoTickers
	}
	text, err := m.gen.Generate(ctx, newsPrompt(tickers), newsSystem, true)
	if err != nil {
		return nil, fmt.Errorf("news lookup failed: %w", err)
	}
	switch r := ParseNews(text, m.NewID).(type) {
	case NewsUpdate:
		return r.Items, nil
	case *ParseFailed:
		m.log.WithField("raw", r.Raw).Warn(r.Reason)
		return nil, r
	default:
		return nil, fmt.Errorf("unexpected result %T", r)
	}
}

// Import reads a transaction out of a brokerage note pasted as text.
func (m *Market) Import(ctx context.Context, note string, today date.Date) (ImportedTransactionDraft, error) {
	if strings.TrimSpace(note) == "" {
		return ImportedTransactionDraft{}, errors.New("empty note")
	}
	text, err := m.gen.Generate(ctx, note, importSystem, false)
	if err != nil {
		return ImportedTransactionDraft{}, fmt.Errorf("import failed: %w", err)
	}
	switch r := ParseImport(text, today).(type) {
	case ImportedTransactionDraft:
		return r, nil
	case *ParseFailed:
		m.log.WithField("raw", r.Raw).Warn(r.Reason)
		return ImportedTransactionDraft{}, r
	default:
		return ImportedTransactionDraft{}, fmt.Errorf("unexpected result %T", r)
	}
}
