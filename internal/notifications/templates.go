// Package notifications renders the outbound customer and operator messages
// and defines the delivery payload shared by its adapters.
package notifications

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS,
		"templates/shipment-approval-request.txt.tmpl",
		"templates/daily-report-notification.txt.tmpl",
	))
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS,
		"templates/order-received-email.html.tmpl",
		"templates/shipment-confirmed-email.html.tmpl",
		"templates/shipment-rejected-email.html.tmpl",
		"templates/feedback-request-email.html.tmpl",
	))
)

// Message is one rendered outbound notification.
type Message struct {
	Topic     string `json:"topic"`
	Recipient string `json:"recipient,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	HTML      bool   `json:"html"`
}

// Topics group messages by their delivery channel.
const (
	TopicShipmentApproval = "shipment-approval"
	TopicCustomerEmail    = "customer-email"
	TopicOperatorAlert    = "operator-alert"
	TopicDailyReport      = "daily-report"
)

// RenderText executes one of the embedded text templates.
func RenderText(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderHTML executes one of the embedded HTML templates.
func RenderHTML(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
