package fotmob

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/kyak15/soccer-analytics/internal/domain/match"
)

const (
	DefaultBaseURL    = "https://www.fotmob.com"
	DefaultLeagueID   = 47
	DefaultLeagueSlug = "premier-league"

	fixtureRowSelector = "a[data-testid='livescores-match']"
	lineupTabLabel     = "Lineup"
	matchDetailsPath   = "/matchDetails?"
	lineupFragmentTail = ":tab=lineup"
)

var playerIDParamRegex = regexp.MustCompile(`playerId=(\d+)`)

type SiteConfig struct {
	BaseURL    string
	LeagueID   int
	LeagueSlug string
}

// Site holds what the pipeline knows about FotMob pages: where a league round
// lives, how fixture rows look, and which network responses carry match data.
type Site struct {
	base       *url.URL
	baseURL    string
	leagueID   int
	leagueSlug string
}

func NewSite(cfg SiteConfig) (*Site, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, crerr.Wrapf(err, "parse fotmob base url %q", baseURL)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, crerr.Newf("fotmob base url %q must be absolute", baseURL)
	}

	leagueID := cfg.LeagueID
	if leagueID <= 0 {
		leagueID = DefaultLeagueID
	}
	slug := strings.Trim(strings.TrimSpace(cfg.LeagueSlug), "/")
	if slug == "" {
		slug = DefaultLeagueSlug
	}

	return &Site{base: base, baseURL: baseURL, leagueID: leagueID, leagueSlug: slug}, nil
}

func (s *Site) RoundURL(round int) string {
	return fmt.Sprintf("%s/leagues/%d/fixtures/%s?group=by-round&round=%d", s.baseURL, s.leagueID, s.leagueSlug, round)
}

func (s *Site) FixtureRowSelector() string {
	return fixtureRowSelector
}

func (s *Site) LineupTabLabel() string {
	return lineupTabLabel
}

// MatchReference resolves a fixture-row href into the canonical lineup URL
// <url without fragment>#<matchId>:tab=lineup.
func (s *Site) MatchReference(href string) (match.Reference, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return match.Reference{}, false
	}
	u, err := s.base.Parse(href)
	if err != nil {
		return match.Reference{}, false
	}

	matchID := fragmentMatchID(u.Fragment)
	if matchID == "" {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		matchID = segments[len(segments)-1]
	}
	if matchID == "" {
		return match.Reference{}, false
	}

	u.Fragment = ""
	u.RawFragment = ""
	return match.Reference{
		MatchID: matchID,
		URL:     u.String() + "#" + matchID + lineupFragmentTail,
	}, true
}

// MatchIDFromURL reads the match id from the fragment of a canonical match
// URL.
func (s *Site) MatchIDFromURL(matchURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(matchURL))
	if err != nil {
		return "", crerr.Wrapf(err, "parse match url %q", matchURL)
	}
	if u.Fragment == "" {
		return "", crerr.Newf("match url %q has no fragment", matchURL)
	}
	matchID := fragmentMatchID(u.Fragment)
	if matchID == "" {
		return "", crerr.Newf("match url %q has an empty match id", matchURL)
	}
	return matchID, nil
}

func (s *Site) IsMatchDetailsResponse(rawURL, matchID string) bool {
	return strings.Contains(rawURL, matchDetailsPath) && hasMatchID(rawURL, matchID)
}

// PlayerIDFromResponse reports the player id of a per-player stats response
// for matchID. Match details responses never count.
func (s *Site) PlayerIDFromResponse(rawURL, matchID string) (string, bool) {
	if s.IsMatchDetailsResponse(rawURL, matchID) || !hasMatchID(rawURL, matchID) {
		return "", false
	}
	m := playerIDParamRegex.FindStringSubmatch(rawURL)
	if len(m) != 2 {
		return "", false
	}
	return m[1], true
}

func fragmentMatchID(fragment string) string {
	id, _, _ := strings.Cut(fragment, ":")
	return strings.TrimSpace(id)
}

func hasMatchID(rawURL, matchID string) bool {
	if matchID == "" {
		return false
	}
	if u, err := url.Parse(rawURL); err == nil {
		for _, v := range u.Query()["matchId"] {
			if v == matchID {
				return true
			}
		}
		return false
	}
	return strings.Contains(rawURL, "matchId="+matchID)
}
