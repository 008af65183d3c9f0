package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/appdex-dev/appdex/internal/registry"
	"github.com/appdex-dev/appdex/internal/types"
)

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const slackUsername = "Appdex Monitor"

// SendStatusChangeNotification posts a Slack message when an application's
// reachability flips. A no-op when SLACK_WEBHOOK_URL is unset.
func SendStatusChangeNotification(change registry.StatusChange) error {
	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")

	if webhookURL == "" {
		return nil
	}

	color := "danger"
	icon := ":rotating_light:"
	headline := fmt.Sprintf(":rotating_light: *%s is DOWN*", change.Application.Name)

	if change.To == types.StatusUp {
		color = "good"
		icon = ":white_check_mark:"
		headline = fmt.Sprintf(":white_check_mark: *%s is back UP*", change.Application.Name)
	}

	payload := SlackWebhookRequest{
		Username:  slackUsername,
		IconEmoji: icon,
		Text:      headline,
		Attachments: []SlackAttachment{
			{
				Color: color,
				Title: change.Application.Name,
				Text:  fmt.Sprintf("Status changed from %s to %s", change.From, change.To),
				Fields: []SlackField{
					{Title: "Application ID", Value: change.Application.ApplicationID, Short: true},
					{Title: "Product Line", Value: change.Application.ProductLine, Short: true},
					{Title: "Technical Owner", Value: change.Application.TechnicalOwner, Short: true},
					{Title: "Prod URL", Value: change.Application.ProdURL, Short: false},
				},
				Footer:    "Appdex",
				Timestamp: time.Now().Unix(),
			},
		},
	}

	return sendSlackWebhook(webhookURL, payload)
}

func sendSlackWebhook(webhookURL string, payload SlackWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
