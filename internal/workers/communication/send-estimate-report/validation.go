// internal/workers/communication/send-estimate-report/validation.go
package sendestimatereport

import "estimation-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"channel", "reportText"},
		Properties: map[string]validation.Property{
			"channel": {
				Type:        "string",
				Description: "Delivery channel",
				Enum:        []string{"email", "webhook", "topic"},
			},
			"recipient": {
				Type:        "string",
				Description: "Email address or webhook URL; unused for the topic channel",
				MaxLength:   intPtr(2048),
			},
			"subject": {
				Type:        "string",
				Description: "Subject line override (defaults to the report headline)",
				MaxLength:   intPtr(500),
			},
			"report": {
				Type:        "object",
				Description: "Structured estimate report, forwarded to webhook consumers",
			},
			"reportText": {
				Type:        "string",
				Description: "Rendered plain-text report body",
				MinLength:   intPtr(1),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"delivered": {
				Type:        "boolean",
				Description: "Whether the report reached the channel",
			},
			"channel": {
				Type:        "string",
				Description: "Channel the report was delivered on",
			},
			"messageId": {
				Type:        "string",
				Description: "Provider message identifier",
			},
			"deliveredAt": {
				Type:        "string",
				Description: "Delivery timestamp (RFC 3339)",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
