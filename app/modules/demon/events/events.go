// Package demonevents defines the topics and payloads the demon module
// publishes after successful units of work.
package demonevents

import (
	demondomain "github.com/demonlist-club/demonlist-backend/app/modules/demon/domain"
)

// Topics for demon events.
const (
	DemonCreatedTopic = "demonlist.demon.created"
	DemonMovedTopic   = "demonlist.demon.moved"
	DemonUpdatedTopic = "demonlist.demon.updated"
	DemonDeletedTopic = "demonlist.demon.deleted"
)

// DemonCreatedPayloadV1 announces a freshly inserted demon.
type DemonCreatedPayloadV1 struct {
	Demon demondomain.Demon `json:"demon"`
}

// DemonMovedPayloadV1 announces a position change.
type DemonMovedPayloadV1 struct {
	DemonID int64 `json:"demon_id"`
	From    int   `json:"from"`
	To      int   `json:"to"`
}

// DemonUpdatedPayloadV1 announces a metadata patch.
type DemonUpdatedPayloadV1 struct {
	Demon demondomain.Demon `json:"demon"`
}

// DemonDeletedPayloadV1 announces a deletion and the position the list was
// compacted at.
type DemonDeletedPayloadV1 struct {
	DemonID  int64 `json:"demon_id"`
	Position int   `json:"position"`
}

// DemonOperationFailedPayloadV1 is the failure payload for demon operations.
type DemonOperationFailedPayloadV1 struct {
	Operation string `json:"operation"`
	DemonID   int64  `json:"demon_id,omitempty"`
	Reason    string `json:"reason"`

	// Maximal carries the highest legal position for position rejections.
	Maximal int `json:"maximal,omitempty"`
}

// Reason codes for DemonOperationFailedPayloadV1.
const (
	ReasonInvalidRequirement = "INVALID_REQUIREMENT"
	ReasonInvalidLevelID     = "INVALID_LEVEL_ID"
	ReasonInvalidPosition    = "INVALID_POSITION"
	ReasonInvalidDifficulty  = "INVALID_DIFFICULTY"
	ReasonDemonNotFound      = "DEMON_NOT_FOUND"
)
