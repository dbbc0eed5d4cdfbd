package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

const maxBodyPreview = 500

type Config struct {
	BotToken  string
	ChannelID string
	// APIURL overrides the Slack API base URL. It must end with a slash.
	APIURL string
}

type Slack struct {
	api       *slack.Client
	channelID string
}

func NewSlack(cfg Config) *Slack {
	var opts []slack.Option
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}
	return &Slack{
		api:       slack.New(cfg.BotToken, opts...),
		channelID: cfg.ChannelID,
	}
}

func (s *Slack) UpstreamFailure(ctx context.Context, f Failure) error {
	_, ts, err := s.api.PostMessageContext(ctx, s.channelID, slack.MsgOptionBlocks(failureBlocks(f, time.Now())...))
	if err != nil {
		log.Err(err).Str("channel", s.channelID).Msg("Failed to post Slack message")
		return fmt.Errorf("slack post failed: %w", err)
	}

	log.Info().
		Str("channel", s.channelID).
		Str("timestamp", ts).
		Msg("Upstream failure posted to Slack")
	return nil
}

func failureBlocks(f Failure, at time.Time) []slack.Block {
	title := "🔴 ClauseCat upstream failure"
	detail := fmt.Sprintf("*Status:* %d\n*Clause length:* %d", f.StatusCode, f.ClauseLength)
	if f.Err != nil {
		detail = fmt.Sprintf("*Error:* %s\n*Clause length:* %d", f.Err, f.ClauseLength)
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, false, false)),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", detail, false, false), nil, nil),
	}

	if f.Body != "" {
		body := f.Body
		if len(body) > maxBodyPreview {
			body = body[:maxBodyPreview] + "…"
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Response:*\n```%s```", body), false, false),
			nil, nil,
		))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("mrkdwn",
			fmt.Sprintf("Reported at: %s", at.UTC().Format(time.RFC1123)),
			false, false),
	))

	return blocks
}
