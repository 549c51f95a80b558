package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/poker-night/internal/game"
	"github.com/mauv0809/poker-night/internal/metrics"
	"github.com/mauv0809/poker-night/internal/notifier"
	"github.com/mauv0809/poker-night/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendSeatingNotification announces a freshly drawn table.
func (s *Notifier) SendSeatingNotification(g *game.Game, dryRun bool) error {
	return s.sendMessage(s.formatSeatingNotification(g), dryRun)
}

// SendResultNotification announces a settled game with its payouts.
func (s *Notifier) SendResultNotification(g *game.Game, payouts game.Payouts, dryRun bool) error {
	return s.sendMessage(s.formatResultNotification(g, payouts), dryRun)
}

// SendLeaderboard posts the current standings.
func (s *Notifier) SendLeaderboard(all []stats.PlayerStats, dryRun bool) error {
	return s.sendMessage(s.formatLeaderboard(all), dryRun)
}

// formatSeatingNotification creates the Slack message for a new seating using Block Kit.
func (s *Notifier) formatSeatingNotification(g *game.Game) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🃏 Table is set! 🃏", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var seats []string
	for i, player := range g.Seating {
		seats = append(seats, fmt.Sprintf("%d. %s", i+1, player))
	}
	seatsText := "Seating order:\n" + strings.Join(seats, "\n")
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", seatsText, true, false), nil, nil))

	if g.BuyIn > 0 {
		buyInText := fmt.Sprintf("💰 Buy-in: %.2f (pot %.2f)", g.BuyIn, g.BuyIn*float64(len(g.Seating)))
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", buyInText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatResultNotification creates the Slack message for a settled game using Block Kit.
func (s *Notifier) formatResultNotification(g *game.Game, payouts game.Payouts) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Game finished! 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var lines []string
	lines = append(lines, fmt.Sprintf("🥇 %s", g.First))
	if g.Second != "" {
		lines = append(lines, fmt.Sprintf("🥈 %s", g.Second))
	}
	if g.Third != "" {
		lines = append(lines, fmt.Sprintf("🥉 %s", g.Third))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	if payouts.TotalPot > 0 {
		potText := fmt.Sprintf("💰 %s takes the pot: %.2f", g.First, payouts.First)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", potText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates the Slack message for the standings using Block Kit.
func (s *Notifier) formatLeaderboard(all []stats.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🃏 Poker night standings 🃏", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(all) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No games played yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for i, ps := range all {
		lines = append(lines, fmt.Sprintf("%d. %s: net %.2f, %d wins in %d games", i+1, ps.Player, ps.NetProfit, ps.Wins, ps.GamesPlayed))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
