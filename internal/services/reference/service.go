// Package reference loads and serves the IDX reference data: the
// sub-sector to sector map and the listed-company directory. Both are
// read from local files and refreshed on a cron schedule so handlers
// always resolve against a recent snapshot without blocking on IO.
package reference

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/common"
)

// Company is one listed-company directory entry.
type Company struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	SubSector string  `json:"sub_sector"`
	MarketCap float64 `json:"market_cap,omitempty"`
}

// sectorsFile is the on-disk shape of the sector map:
//
//	[sectors]
//	"banks" = "financials"
type sectorsFile struct {
	Sectors map[string]string `toml:"sectors"`
}

// Service holds the current reference snapshot behind a read lock.
type Service struct {
	sectorsPath   string
	companiesPath string
	logger        arbor.ILogger

	mu        sync.RWMutex
	sectors   map[string]string  // sub-sector -> sector
	companies map[string]Company // ticker (with .JK) -> company

	cron *cron.Cron
}

// NewService loads both files eagerly; startup fails fast on unreadable
// reference data rather than serving unresolvable sub-sectors.
func NewService(cfg common.ReferenceConfig, logger arbor.ILogger) (*Service, error) {
	s := &Service{
		sectorsPath:   cfg.SectorsFile,
		companiesPath: cfg.CompaniesFile,
		logger:        logger,
		sectors:       make(map[string]string),
		companies:     make(map[string]Company),
	}

	if err := s.Refresh(); err != nil {
		return nil, err
	}

	if cfg.RefreshSchedule != "" {
		s.cron = cron.New()
		_, err := s.cron.AddFunc(cfg.RefreshSchedule, func() {
			if err := s.Refresh(); err != nil {
				s.logger.Warn().Err(err).Msg("Reference data refresh failed")
			}
		})
		if err != nil {
			return nil, fmt.Errorf("invalid reference refresh schedule %q: %w", cfg.RefreshSchedule, err)
		}
		s.cron.Start()
	}

	return s, nil
}

// Refresh re-reads both files and swaps the snapshot atomically.
func (s *Service) Refresh() error {
	sectors, err := loadSectors(s.sectorsPath)
	if err != nil {
		return fmt.Errorf("loading sectors: %w", err)
	}

	companies, err := loadCompanies(s.companiesPath)
	if err != nil {
		return fmt.Errorf("loading companies: %w", err)
	}

	s.mu.Lock()
	s.sectors = sectors
	s.companies = companies
	s.mu.Unlock()

	s.logger.Info().
		Int("sub_sectors", len(sectors)).
		Int("companies", len(companies)).
		Msg("Reference data loaded")
	return nil
}

// Stop halts the refresh schedule.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// SectorFor resolves a sub-sector to its sector. Unknown sub-sectors
// resolve to the empty string; callers store the filing anyway.
func (s *Service) SectorFor(subSector string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sectors[normalizeKey(subSector)]
}

// SubSectorByTicker returns the directory sub-sector for a ticker, or ""
// when the ticker is not listed.
func (s *Service) SubSectorByTicker(ticker string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.companies[common.NormalizeTicker(ticker)]; ok {
		return c.SubSector
	}
	return ""
}

// CompanyName returns the directory name for a ticker, or "".
func (s *Service) CompanyName(ticker string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.companies[common.NormalizeTicker(ticker)]; ok {
		return c.Name
	}
	return ""
}

// IsListed reports whether a ticker is in the company directory.
func (s *Service) IsListed(ticker string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.companies[common.NormalizeTicker(ticker)]
	return ok
}

// TopCompanySymbols returns up to n symbols ordered by market cap
// descending. The list feeds the article relevance gate.
func (s *Service) TopCompanySymbols(n int) []string {
	s.mu.RLock()
	all := make([]Company, 0, len(s.companies))
	for _, c := range s.companies {
		all = append(all, c)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].MarketCap != all[j].MarketCap {
			return all[i].MarketCap > all[j].MarketCap
		}
		return all[i].Symbol < all[j].Symbol
	})

	if n > len(all) {
		n = len(all)
	}
	symbols := make([]string, n)
	for i := 0; i < n; i++ {
		symbols[i] = all[i].Symbol
	}
	return symbols
}

func loadSectors(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file sectorsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	sectors := make(map[string]string, len(file.Sectors))
	for sub, sector := range file.Sectors {
		sectors[normalizeKey(sub)] = sector
	}
	return sectors, nil
}

func loadCompanies(path string) (map[string]Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var list []Company
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	companies := make(map[string]Company, len(list))
	for _, c := range list {
		c.Symbol = common.NormalizeTicker(c.Symbol)
		companies[c.Symbol] = c
	}
	return companies, nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
