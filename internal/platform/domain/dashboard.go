package domain

import "encoding/json"

type Dashboard struct {
	Slug        string
	Title       string
	Description string
	Config      json.RawMessage
}
