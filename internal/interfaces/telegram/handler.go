package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
)

// MaxMessageLength is Telegram's limit for a single text message.
const MaxMessageLength = 4096

const dateLayout = "2006-01-02 15:04"

const helpText = "⚽ Football Bot Help:\n" +
	"/fixtures [team] - Upcoming matches\n" +
	"/results [team] - Recent results (last 5)\n" +
	"/standings [league_id] - League table (default: PL)"

// FixtureQueries is the read side the bot answers from.
type FixtureQueries interface {
	UpcomingFixtures(ctx context.Context, team string, limit int) ([]fixture.UpcomingFixture, error)
	RecentResults(ctx context.Context, team string, limit int) ([]fixture.Result, error)
	Standings(ctx context.Context, leagueID int64) ([]fixture.Standing, error)
}

type Handler struct {
	queries FixtureQueries
	logger  *logging.Logger
}

func NewHandler(queries FixtureQueries, logger *logging.Logger) *Handler {
	return &Handler{
		queries: queries,
		logger:  logging.OrNop(logger),
	}
}

// HandleMessage builds the reply for a command message. Non-command messages
// and unknown commands produce no reply.
func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) (tgbotapi.MessageConfig, bool) {
	if msg == nil || !msg.IsCommand() {
		return tgbotapi.MessageConfig{}, false
	}

	text, ok := h.Reply(ctx, msg.Command(), msg.CommandArguments())
	if !ok {
		return tgbotapi.MessageConfig{}, false
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID
	return reply, true
}

// Reply answers one command. The returned text never exceeds MaxMessageLength.
func (h *Handler) Reply(ctx context.Context, command, args string) (string, bool) {
	args = strings.Join(strings.Fields(args), " ")

	switch strings.ToLower(strings.TrimSpace(command)) {
	case "start", "help":
		return helpText, true
	case "fixtures":
		return truncate(h.fixtures(ctx, args)), true
	case "results":
		return truncate(h.results(ctx, args)), true
	case "standings":
		return truncate(h.standings(ctx, args)), true
	default:
		return "", false
	}
}

func (h *Handler) fixtures(ctx context.Context, team string) string {
	items, err := h.queries.UpcomingFixtures(ctx, team, fixture.DefaultUpcomingLimit)
	if err != nil {
		h.logger.ErrorContext(ctx, "fixtures command failed", "team", team, "error", err)
		return "❌ Error fetching fixtures"
	}
	if len(items) == 0 {
		return "No upcoming fixtures found"
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("🗓 Upcoming Fixtures:\n\n")
	for i, item := range items {
		if i > 0 {
			_, _ = buf.WriteString("\n\n")
		}
		venue := "Unknown venue"
		if item.VenueName != nil && strings.TrimSpace(*item.VenueName) != "" {
			venue = *item.VenueName
		}
		_, _ = fmt.Fprintf(buf, "⚔ %s vs %s\n📅 %s\n🏟 %s",
			item.HomeTeam, item.AwayTeam, item.Date.UTC().Format(dateLayout), venue)
	}
	return buf.String()
}

func (h *Handler) results(ctx context.Context, team string) string {
	items, err := h.queries.RecentResults(ctx, team, fixture.DefaultResultsLimit)
	if err != nil {
		h.logger.ErrorContext(ctx, "results command failed", "team", team, "error", err)
		return "❌ Error fetching results"
	}
	if len(items) == 0 {
		return "No recent results found"
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("📊 Recent Results:\n\n")
	for i, item := range items {
		if i > 0 {
			_, _ = buf.WriteString("\n\n")
		}
		_, _ = fmt.Fprintf(buf, "⚽ %s %s-%s %s\n📅 %s",
			item.HomeTeam, goals(item.HomeGoals), goals(item.AwayGoals), item.AwayTeam,
			item.Date.UTC().Format(dateLayout))
	}
	return buf.String()
}

func (h *Handler) standings(ctx context.Context, args string) string {
	leagueID := int64(fixture.DefaultLeagueID)
	if args != "" {
		first := strings.Fields(args)[0]
		parsed, err := strconv.ParseInt(first, 10, 64)
		if err != nil || parsed <= 0 {
			return "❌ League id must be a positive number"
		}
		leagueID = parsed
	}

	rows, err := h.queries.Standings(ctx, leagueID)
	if err != nil {
		h.logger.ErrorContext(ctx, "standings command failed", "league_id", leagueID, "error", err)
		return "❌ Error fetching standings"
	}
	if len(rows) == 0 {
		return "Standings not available for this league"
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("🏆 League Standings:\n\n")
	for i, row := range rows {
		if i >= fixture.MaxStandingsRows {
			break
		}
		if i > 0 {
			_ = buf.WriteByte('\n')
		}
		_, _ = fmt.Fprintf(buf, "%d. %s - Pts: %d (GP: %d)", i+1, row.TeamName, row.Points, row.GamesPlayed)
	}
	return buf.String()
}

func goals(v *int) string {
	if v == nil {
		return "?"
	}
	return strconv.Itoa(*v)
}

// truncate cuts text to MaxMessageLength runes without splitting a rune.
func truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxMessageLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxMessageLength])
}
