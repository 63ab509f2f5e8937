package models

import "time"

type Activity struct {
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Actor       string    `json:"actor"`
	TargetID    string    `json:"targetId"`
	TargetModel string    `json:"targetModel"`
	CreatedAt   time.Time `json:"createdAt"`
}
