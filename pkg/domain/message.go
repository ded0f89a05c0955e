package domain

import (
	"encoding/json"
	"fmt"
)

// MessageType tags an outbound notification.
type MessageType string

const (
	MessageLocale MessageType = "locale"
	MessageRoute  MessageType = "route"
)

// Message is the envelope posted to the parent context.
type Message struct {
	Name string      `json:"name"`
	Type MessageType `json:"type"`
	Data string      `json:"data"`
}

// Route is the navigation context of the host application.
type Route struct {
	Name string `json:"name" mapstructure:"name"`
	Path string `json:"path" mapstructure:"path"`
}

// NewLocaleMessage builds a locale notification.
func NewLocaleMessage(locale string) Message {
	return Message{Name: MessageName, Type: MessageLocale, Data: locale}
}

// NewRouteMessage builds a route notification whose data is the JSON-encoded route.
func NewRouteMessage(route Route) (Message, error) {
	data, err := json.Marshal(route)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal route: %w", err)
	}
	return Message{Name: MessageName, Type: MessageRoute, Data: string(data)}, nil
}
