package usecase

import (
	"context"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	applogger "StockCast/pkg/logger"
)

// Directory is the provider surface discovery needs.
type Directory interface {
	Lookup(ctx context.Context, ticker string) (*models.TickerInfo, error)
	Search(ctx context.Context, query string, limit int) ([]models.TickerInfo, error)
}

// sectorCatalog is the static browse taxonomy. A database-backed
// classification would replace this; the API shape stays the same.
var sectorCatalog = []models.Sector{
	{Name: "Technology", Industries: []string{"Software", "Hardware", "Semiconductors", "Internet Services", "IT Services", "Computer Systems", "Electronic Components"}},
	{Name: "Healthcare", Industries: []string{"Pharmaceuticals", "Biotechnology", "Medical Devices", "Healthcare Services", "Health Insurance"}},
	{Name: "Financial Services", Industries: []string{"Banks", "Insurance", "Investment Banking", "Asset Management", "Credit Services", "Real Estate"}},
	{Name: "Consumer Cyclical", Industries: []string{"Retail", "Automotive", "Airlines", "Hotels & Restaurants", "Media & Entertainment", "Apparel"}},
	{Name: "Consumer Defensive", Industries: []string{"Food & Beverages", "Household Products", "Personal Care", "Discount Stores", "Grocery Stores"}},
	{Name: "Industrials", Industries: []string{"Aerospace & Defense", "Manufacturing", "Transportation", "Construction", "Industrial Equipment"}},
	{Name: "Energy", Industries: []string{"Oil & Gas", "Renewable Energy", "Utilities", "Coal"}},
	{Name: "Materials", Industries: []string{"Metals & Mining", "Chemicals", "Construction Materials", "Paper & Packaging"}},
	{Name: "Real Estate", Industries: []string{"REITs", "Real Estate Development", "Real Estate Services"}},
	{Name: "Communication Services", Industries: []string{"Telecommunications", "Media", "Internet Services"}},
	{Name: "Utilities", Industries: []string{"Electric Utilities", "Gas Utilities", "Water Utilities", "Renewable Utilities"}},
}

// popularTickers seeds autocomplete and sector browsing without a provider
// round-trip per keystroke.
var popularTickers = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX",
	"JPM", "JNJ", "V", "PG", "UNH", "HD", "MA", "DIS", "ADBE", "CRM",
	"PYPL", "INTC", "CMCSA", "PFE", "VZ", "KO", "PEP", "T", "ABT",
	"CSCO", "AVGO", "TMO", "ACN", "TXN", "LLY", "ABBV", "COST", "WMT",
}

var sectorTickers = map[string][]string{
	"Technology":             {"AAPL", "MSFT", "GOOGL", "NVDA", "ADBE", "CRM", "INTC", "CSCO", "AVGO", "TXN"},
	"Healthcare":             {"JNJ", "PFE", "ABT", "TMO", "LLY", "ABBV"},
	"Financial Services":     {"JPM", "V", "MA", "PYPL"},
	"Consumer Cyclical":      {"AMZN", "TSLA", "HD", "DIS", "COST"},
	"Consumer Defensive":     {"PG", "KO", "PEP", "WMT"},
	"Communication Services": {"META", "NFLX", "CMCSA", "VZ", "T"},
}

// DiscoveryUseCase serves ticker search, autocomplete suggestions, and the
// sector browse surface.
type DiscoveryUseCase struct {
	dir     Directory
	l       *applogger.Logger
	timeout time.Duration
}

func NewDiscoveryUseCase(dir Directory, l *applogger.Logger) *DiscoveryUseCase {
	return &DiscoveryUseCase{dir: dir, l: l, timeout: 10 * time.Second}
}

// Search finds tickers by symbol or company name through the provider's
// search endpoint, topped up with prefix matches from the popular list when
// the provider comes back thin.
func (uc *DiscoveryUseCase) Search(ctx context.Context, query string, limit int) ([]models.TickerInfo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.TickerInfo{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	results, err := uc.dir.Search(ctx, query, limit)
	if err != nil {
		uc.l.Warn("discovery: provider search failed",
			applogger.String("query", query),
			applogger.Error(err),
		)
		results = nil
	}

	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		seen[r.Ticker] = struct{}{}
	}

	upper := strings.ToUpper(query)
	for _, t := range popularTickers {
		if len(results) >= limit {
			break
		}
		if _, dup := seen[t]; dup || !strings.HasPrefix(t, upper) {
			continue
		}
		results = append(results, models.TickerInfo{Ticker: t})
		seen[t] = struct{}{}
	}

	if results == nil {
		results = []models.TickerInfo{}
	}
	return results, nil
}

// Suggest returns autocomplete rows from the popular list. No provider calls:
// this endpoint fires on every keystroke.
func (uc *DiscoveryUseCase) Suggest(query string, limit int) []models.Suggestion {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return []models.Suggestion{}
	}
	if limit <= 0 {
		limit = 10
	}

	out := make([]models.Suggestion, 0, limit)
	for _, t := range popularTickers {
		if len(out) >= limit {
			break
		}
		if strings.HasPrefix(t, query) {
			out = append(out, models.Suggestion{Ticker: t, MatchType: "ticker"})
		}
	}
	return out
}

// Sectors returns the browse taxonomy.
func (uc *DiscoveryUseCase) Sectors() []models.Sector {
	return sectorCatalog
}

// SectorTickers lists known constituents of a sector, enriched with live
// quote detail where the provider answers. Unknown sectors return empty.
func (uc *DiscoveryUseCase) SectorTickers(ctx context.Context, sector string, limit int) ([]models.TickerInfo, error) {
	tickers, ok := sectorTickers[sector]
	if !ok {
		return []models.TickerInfo{}, nil
	}
	if limit <= 0 || limit > len(tickers) {
		limit = len(tickers)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	out := make([]models.TickerInfo, 0, limit)
	for _, t := range tickers[:limit] {
		info, err := uc.dir.Lookup(ctx, t)
		if err != nil {
			// a single bad symbol must not sink the listing
			out = append(out, models.TickerInfo{Ticker: t, Sector: sector})
			continue
		}
		info.Sector = sector
		out = append(out, *info)
	}
	return out, nil
}

// ScreenParams filters the screening universe. Zero values mean unbounded.
type ScreenParams struct {
	Sector    string
	MinPrice  float64
	MaxPrice  float64
	MinMktCap int64
	Limit     int
}

// Screen filters the popular-ticker universe by sector, price range, and
// market cap. Lookup failures skip the symbol rather than failing the screen.
func (uc *DiscoveryUseCase) Screen(ctx context.Context, p ScreenParams) ([]models.TickerInfo, error) {
	universe := popularTickers
	if p.Sector != "" {
		if s, ok := sectorTickers[p.Sector]; ok {
			universe = s
		} else {
			return []models.TickerInfo{}, nil
		}
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	out := make([]models.TickerInfo, 0, p.Limit)
	for _, t := range universe {
		if len(out) >= p.Limit {
			break
		}
		info, err := uc.dir.Lookup(ctx, t)
		if err != nil || info == nil {
			continue
		}
		if p.MinPrice > 0 && info.Price < p.MinPrice {
			continue
		}
		if p.MaxPrice > 0 && info.Price > p.MaxPrice {
			continue
		}
		if p.MinMktCap > 0 && info.MarketCap < p.MinMktCap {
			continue
		}
		if p.Sector != "" {
			info.Sector = p.Sector
		}
		out = append(out, *info)
	}
	return out, nil
}

// Lookup returns quote-level detail for one ticker.
func (uc *DiscoveryUseCase) Lookup(ctx context.Context, ticker string) (*models.TickerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.dir.Lookup(ctx, ticker)
}
