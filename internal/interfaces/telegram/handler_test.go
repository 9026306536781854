package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
)

type stubQueries struct {
	upcoming  []fixture.UpcomingFixture
	results   []fixture.Result
	standings []fixture.Standing
	err       error

	lastTeam   string
	lastLimit  int
	lastLeague int64
}

func (s *stubQueries) UpcomingFixtures(_ context.Context, team string, limit int) ([]fixture.UpcomingFixture, error) {
	s.lastTeam, s.lastLimit = team, limit
	return s.upcoming, s.err
}

func (s *stubQueries) RecentResults(_ context.Context, team string, limit int) ([]fixture.Result, error) {
	s.lastTeam, s.lastLimit = team, limit
	return s.results, s.err
}

func (s *stubQueries) Standings(_ context.Context, leagueID int64) ([]fixture.Standing, error) {
	s.lastLeague = leagueID
	return s.standings, s.err
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestHandler_Fixtures(t *testing.T) {
	queries := &stubQueries{
		upcoming: []fixture.UpcomingFixture{
			{
				HomeTeam:  "Arsenal",
				AwayTeam:  "Liverpool",
				Date:      time.Date(2030, 1, 5, 17, 30, 0, 0, time.UTC),
				VenueName: strPtr("Emirates Stadium"),
			},
			{
				HomeTeam: "Chelsea",
				AwayTeam: "Everton",
				Date:     time.Date(2030, 1, 6, 14, 0, 0, 0, time.UTC),
			},
		},
	}
	h := NewHandler(queries, nil)

	got, ok := h.Reply(context.Background(), "fixtures", "  manchester   united ")
	if !ok {
		t.Fatalf("expected a reply")
	}
	want := "🗓 Upcoming Fixtures:\n\n" +
		"⚔ Arsenal vs Liverpool\n📅 2030-01-05 17:30\n🏟 Emirates Stadium\n\n" +
		"⚔ Chelsea vs Everton\n📅 2030-01-06 14:00\n🏟 Unknown venue"
	if got != want {
		t.Fatalf("unexpected reply:\n%q\nwant:\n%q", got, want)
	}
	if queries.lastTeam != "manchester united" || queries.lastLimit != fixture.DefaultUpcomingLimit {
		t.Fatalf("unexpected query: team=%q limit=%d", queries.lastTeam, queries.lastLimit)
	}
}

func TestHandler_Results(t *testing.T) {
	queries := &stubQueries{
		results: []fixture.Result{
			{
				HomeTeam:  "Arsenal",
				AwayTeam:  "Chelsea",
				HomeGoals: intPtr(2),
				AwayGoals: intPtr(1),
				Date:      time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC),
			},
		},
	}

	got, _ := NewHandler(queries, nil).Reply(context.Background(), "results", "")
	want := "📊 Recent Results:\n\n⚽ Arsenal 2-1 Chelsea\n📅 2024-03-02 15:00"
	if got != want {
		t.Fatalf("unexpected reply: %q", got)
	}
	if queries.lastTeam != "" || queries.lastLimit != fixture.DefaultResultsLimit {
		t.Fatalf("unexpected query: team=%q limit=%d", queries.lastTeam, queries.lastLimit)
	}
}

func TestHandler_Standings(t *testing.T) {
	queries := &stubQueries{
		standings: []fixture.Standing{
			{TeamName: "Arsenal", Points: 4, GamesPlayed: 2},
			{TeamName: "Liverpool", Points: 1, GamesPlayed: 1},
		},
	}
	h := NewHandler(queries, nil)

	got, _ := h.Reply(context.Background(), "standings", "")
	want := "🏆 League Standings:\n\n1. Arsenal - Pts: 4 (GP: 2)\n2. Liverpool - Pts: 1 (GP: 1)"
	if got != want {
		t.Fatalf("unexpected reply: %q", got)
	}
	if queries.lastLeague != fixture.DefaultLeagueID {
		t.Fatalf("expected default league, got %d", queries.lastLeague)
	}

	_, _ = h.Reply(context.Background(), "standings", "140")
	if queries.lastLeague != 140 {
		t.Fatalf("expected league 140, got %d", queries.lastLeague)
	}

	got, _ = h.Reply(context.Background(), "standings", "premier")
	if !strings.HasPrefix(got, "❌") {
		t.Fatalf("expected error reply for bad league id, got %q", got)
	}
}

func TestHandler_EmptyAndFailureReplies(t *testing.T) {
	tests := []struct {
		name    string
		command string
		err     error
		want    string
	}{
		{name: "no fixtures", command: "fixtures", want: "No upcoming fixtures found"},
		{name: "no results", command: "results", want: "No recent results found"},
		{name: "no standings", command: "standings", want: "Standings not available for this league"},
		{name: "fixtures failed", command: "fixtures", err: errors.New("db locked"), want: "❌ Error fetching fixtures"},
		{name: "results failed", command: "results", err: errors.New("db locked"), want: "❌ Error fetching results"},
		{name: "standings failed", command: "standings", err: errors.New("db locked"), want: "❌ Error fetching standings"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NewHandler(&stubQueries{err: tc.err}, nil).Reply(context.Background(), tc.command, "")
			if !ok || got != tc.want {
				t.Fatalf("unexpected reply: ok=%v got=%q", ok, got)
			}
		})
	}
}

func TestHandler_HelpAndUnknown(t *testing.T) {
	h := NewHandler(&stubQueries{}, nil)

	for _, command := range []string{"start", "help", "START"} {
		got, ok := h.Reply(context.Background(), command, "")
		if !ok || !strings.Contains(got, "/standings [league_id]") {
			t.Fatalf("%s: unexpected help reply: %q", command, got)
		}
	}
	if _, ok := h.Reply(context.Background(), "weather", ""); ok {
		t.Fatalf("unknown command must not reply")
	}
}

func TestHandler_TruncatesLongReplies(t *testing.T) {
	items := make([]fixture.UpcomingFixture, 0, 200)
	for i := 0; i < 200; i++ {
		items = append(items, fixture.UpcomingFixture{
			HomeTeam: strings.Repeat("Wolverhampton Wanderers ", 2),
			AwayTeam: "Brighton & Hove Albion",
			Date:     time.Date(2030, 1, 5, 12, 0, 0, 0, time.UTC),
		})
	}

	got, _ := NewHandler(&stubQueries{upcoming: items}, nil).Reply(context.Background(), "fixtures", "")
	if n := utf8.RuneCountInString(got); n != MaxMessageLength {
		t.Fatalf("expected %d runes, got %d", MaxMessageLength, n)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncated reply is not valid utf-8")
	}
}

type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func commandMessage(chatID int64, text string) *tgbotapi.Message {
	command := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		MessageID: 7,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(command)},
		},
	}
}

func TestServe_RepliesToCommandsOnly(t *testing.T) {
	queries := &stubQueries{standings: []fixture.Standing{{TeamName: "Arsenal", Points: 3, GamesPlayed: 1}}}
	sender := &recordingSender{}

	updates := make(chan tgbotapi.Update, 3)
	updates <- tgbotapi.Update{UpdateID: 1, Message: commandMessage(42, "/standings 39")}
	updates <- tgbotapi.Update{UpdateID: 2, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}, Text: "hello"}}
	updates <- tgbotapi.Update{UpdateID: 3}
	close(updates)

	if err := Serve(context.Background(), updates, sender, NewHandler(queries, nil), nil); err != nil {
		t.Fatalf("serve: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected one reply, got %d", len(sender.sent))
	}
	reply := sender.sent[0]
	if reply.ChatID != 42 || reply.ReplyToMessageID != 7 {
		t.Fatalf("unexpected reply routing: %+v", reply)
	}
	if !strings.Contains(reply.Text, "1. Arsenal - Pts: 3 (GP: 1)") {
		t.Fatalf("unexpected reply text: %q", reply.Text)
	}
}
