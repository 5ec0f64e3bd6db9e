package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/bgabor/legiostat/internal/fetch"
	"github.com/bgabor/legiostat/internal/model"
	"github.com/bgabor/legiostat/internal/season"
)

// Dossier is the in-memory artifact produced for one player: stat rows for
// every season the source exposes, plus match rows for the seasons inside
// the sync scope. Nothing is persisted yet; PlayerID fields are unset.
type Dossier struct {
	ExternalID  string
	Seasons     []season.Season
	FieldStats  []model.CompetitionStat
	KeeperStats []model.GoalkeeperStat
	Matches     []model.PlayerMatch
}

// Orchestrator coordinates the per-player fetch-parse-merge-classify flow.
type Orchestrator struct {
	fetcher *fetch.Fetcher
	baseURL string
	logger  *slog.Logger
}

// NewOrchestrator creates an orchestrator over the shared fetcher.
func NewOrchestrator(fetcher *fetch.Fetcher, baseURL string, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// playerIDRe matches the opaque player key inside a source player URL.
var playerIDRe = regexp.MustCompile(`/en/players/([0-9a-f]{8})(?:/|$)`)

// ScrapePlayer builds the dossier for one player. When the player has no
// known external id, the source's search is consulted first. An empty
// scope means every season the source exposes: the scope is then derived
// from the seasons found on the stats page. Fetch, parse, and lookup
// failures abort the whole dossier; a partially scraped player is never
// returned.
func (o *Orchestrator) ScrapePlayer(ctx context.Context, b *fetch.Browser, p model.Player, scope []season.Season) (*Dossier, error) {
	externalID := ""
	if p.ExternalID != nil {
		externalID = *p.ExternalID
	}
	if externalID == "" {
		id, err := o.resolveExternalID(ctx, b, p.Name)
		if err != nil {
			return nil, fmt.Errorf("player %d (%s): %w", p.ID, p.Name, err)
		}
		externalID = id
		o.logger.Info("Resolved player on source", "player_id", p.ID, "name", p.Name, "external_id", externalID)
	}

	dossier := &Dossier{ExternalID: externalID}

	// Main page: the all-competitions view hosts every section's tables.
	statsURL := o.allCompetitionsURL(externalID, p.Name)
	html, err := o.fetcher.Fetch(ctx, b, statsURL)
	if err != nil {
		return nil, fmt.Errorf("player %d (%s): %w", p.ID, p.Name, err)
	}

	if err := o.parseStatSections(statsURL, html, p.IsGoalkeeper, dossier); err != nil {
		return nil, fmt.Errorf("player %d (%s): %w", p.ID, p.Name, err)
	}

	if len(scope) == 0 {
		scope = seasonsFromStats(dossier)
	}
	dossier.Seasons = scope

	// Matchlogs, one page per season in scope.
	seen := make(map[model.MatchKey]bool)
	for _, s := range scope {
		logURL := o.matchlogURL(externalID, p.Name, s)
		html, err := o.fetcher.Fetch(ctx, b, logURL)
		if err != nil {
			return nil, fmt.Errorf("player %d (%s) matchlog %s: %w", p.ID, p.Name, s.Label(), err)
		}
		matches, err := ParseMatchlog(logURL, html)
		if err != nil {
			return nil, fmt.Errorf("player %d (%s) matchlog %s: %w", p.ID, p.Name, s.Label(), err)
		}
		for _, m := range matches {
			key := m.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			dossier.Matches = append(dossier.Matches, m)
		}
	}

	return dossier, nil
}

// ScrapeMatchlogs builds a dossier holding only match rows for the scoped
// seasons, skipping the main stats page. Used by the matchlogs refresh,
// which runs more often than the full stat sync.
func (o *Orchestrator) ScrapeMatchlogs(ctx context.Context, b *fetch.Browser, p model.Player, scope []season.Season) (*Dossier, error) {
	externalID := ""
	if p.ExternalID != nil {
		externalID = *p.ExternalID
	}
	if externalID == "" {
		id, err := o.resolveExternalID(ctx, b, p.Name)
		if err != nil {
			return nil, fmt.Errorf("player %d (%s): %w", p.ID, p.Name, err)
		}
		externalID = id
		o.logger.Info("Resolved player on source", "player_id", p.ID, "name", p.Name, "external_id", externalID)
	}

	dossier := &Dossier{ExternalID: externalID, Seasons: scope}
	seen := make(map[model.MatchKey]bool)
	for _, s := range scope {
		logURL := o.matchlogURL(externalID, p.Name, s)
		html, err := o.fetcher.Fetch(ctx, b, logURL)
		if err != nil {
			return nil, fmt.Errorf("player %d (%s) matchlog %s: %w", p.ID, p.Name, s.Label(), err)
		}
		matches, err := ParseMatchlog(logURL, html)
		if err != nil {
			return nil, fmt.Errorf("player %d (%s) matchlog %s: %w", p.ID, p.Name, s.Label(), err)
		}
		for _, m := range matches {
			key := m.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			dossier.Matches = append(dossier.Matches, m)
		}
	}
	return dossier, nil
}

// parseStatSections parses, merges, and classifies all four sections of the
// main page into the dossier.
func (o *Orchestrator) parseStatSections(pageURL, html string, isGoalkeeper bool, dossier *Dossier) error {
	kinds := []TableKind{KindStandard, KindShooting, KindPlayingTime}
	if isGoalkeeper {
		kinds = append(kinds, KindKeeper)
	}

	var ids []string
	for _, sec := range Sections {
		for _, kind := range kinds {
			ids = append(ids, sec.TableID(kind))
		}
	}

	tables, err := ParseTables(html, ids)
	if err != nil {
		return err
	}

	seenStats := make(map[model.StatKey]bool)
	anyRows := false
	for _, sec := range Sections {
		sectionTables := make(map[TableKind][]Row, len(kinds))
		for _, kind := range kinds {
			if rows, ok := tables[sec.TableID(kind)]; ok {
				sectionTables[kind] = rows
			}
		}
		if len(sectionTables) == 0 {
			continue
		}

		merged := MergeSection(sectionTables)
		field, keeper, errs := BuildStatRows(sec, merged, isGoalkeeper)
		for _, err := range errs {
			o.logger.Warn("Dropping unclassifiable stat row", "url", pageURL, "error", err)
		}

		// In-memory dedupe against source-side repetition.
		for _, row := range field {
			key := model.StatKey{Season: row.Season, CompetitionType: row.CompetitionType, CompetitionName: row.CompetitionName}
			if seenStats[key] {
				continue
			}
			seenStats[key] = true
			dossier.FieldStats = append(dossier.FieldStats, row)
			anyRows = true
		}
		for _, row := range keeper {
			key := model.StatKey{Season: row.Season, CompetitionType: row.CompetitionType, CompetitionName: row.CompetitionName}
			if seenStats[key] {
				continue
			}
			seenStats[key] = true
			dossier.KeeperStats = append(dossier.KeeperStats, row)
			anyRows = true
		}
	}

	if !anyRows {
		return newParseError(pageURL, "no stat tables found in any section", html)
	}
	return nil
}

// resolveExternalID runs the source's search. An unambiguous hit redirects
// straight to the player page; otherwise the first player link on the
// results page is taken when it is the only one.
func (o *Orchestrator) resolveExternalID(ctx context.Context, b *fetch.Browser, name string) (string, error) {
	searchURL := fmt.Sprintf("%s/en/search/search.fm?search=%s", o.baseURL, url.QueryEscape(name))
	html, location, err := o.fetcher.FetchWithLocation(ctx, b, searchURL)
	if err != nil {
		return "", err
	}

	// Redirected directly to the player page.
	if m := playerIDRe.FindStringSubmatch(location); m != nil {
		return m[1], nil
	}

	ids := uniquePlayerIDs(html)
	switch len(ids) {
	case 1:
		return ids[0], nil
	case 0:
		return "", &LookupError{PlayerName: name, Reason: "no player result on source search"}
	default:
		return "", &LookupError{PlayerName: name, Reason: fmt.Sprintf("ambiguous search: %d candidates", len(ids))}
	}
}

// seasonsFromStats derives the full-history scope from the stats page:
// every distinct span-form season on a stat row. Calendar-year national
// team labels are skipped; those matches live inside the span windows.
func seasonsFromStats(d *Dossier) []season.Season {
	labels := make(map[string]bool)
	for _, r := range d.FieldStats {
		labels[r.Season] = true
	}
	for _, r := range d.KeeperStats {
		labels[r.Season] = true
	}

	var out []season.Season
	for label := range labels {
		sn, err := season.Parse(label)
		if err != nil || sn.Kind != season.Seasonal {
			continue
		}
		out = append(out, sn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartYear < out[j].StartYear })
	return out
}

func uniquePlayerIDs(html string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range playerIDRe.FindAllStringSubmatch(html, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

// --------------------------------------------------------------------------
// URL builders
// --------------------------------------------------------------------------

func (o *Orchestrator) allCompetitionsURL(externalID, name string) string {
	return fmt.Sprintf("%s/en/players/%s/all_comps/%s-Stats---All-Competitions",
		o.baseURL, externalID, slugify(name))
}

func (o *Orchestrator) matchlogURL(externalID, name string, s season.Season) string {
	return fmt.Sprintf("%s/en/players/%s/matchlogs/%s/%s-Match-Logs",
		o.baseURL, externalID, s.Label(), slugify(name))
}

var nonSlugRe = regexp.MustCompile(`[^A-Za-z0-9]+`)

func slugify(name string) string {
	return strings.Trim(nonSlugRe.ReplaceAllString(name, "-"), "-")
}
