// Package recordevents defines the topics and payloads the record module
// publishes after successful units of work.
package recordevents

import (
	recorddomain "github.com/demonlist-club/demonlist-backend/app/modules/record/domain"
)

// Topics for record events.
const (
	RecordCreatedTopic       = "demonlist.record.created"
	RecordStatusChangedTopic = "demonlist.record.status_changed"
)

// RecordCreatedPayloadV1 announces a record persisted by the submission
// pipeline.
type RecordCreatedPayloadV1 struct {
	Record recorddomain.FullRecord `json:"record"`
}

// RecordStatusChangedPayloadV1 announces a lifecycle transition.
type RecordStatusChangedPayloadV1 struct {
	RecordID int64               `json:"record_id"`
	PlayerID int64               `json:"player_id"`
	From     recorddomain.Status `json:"from"`
	To       recorddomain.Status `json:"to"`
}

// RecordSubmissionFailedPayloadV1 is the failure payload for rejected
// submissions. Reason is a stable machine-readable code; the optional fields
// carry the structured context a client needs to self-correct.
type RecordSubmissionFailedPayloadV1 struct {
	DemonID int64  `json:"demon_id"`
	Player  string `json:"player,omitempty"`
	Reason  string `json:"reason"`

	// Requirement carries the demon's requirement for INVALID_PROGRESS.
	Requirement int `json:"requirement,omitempty"`

	// Detail carries the collaborator's error message for VIDEO_REJECTED.
	Detail string `json:"detail,omitempty"`
}

// RecordStatusChangeFailedPayloadV1 is the failure payload for lifecycle
// transitions.
type RecordStatusChangeFailedPayloadV1 struct {
	RecordID int64  `json:"record_id"`
	Reason   string `json:"reason"`
}

// Reason codes for RecordStatusChangeFailedPayloadV1.
const (
	ReasonRecordNotFound = "RECORD_NOT_FOUND"
	ReasonInvalidStatus  = "INVALID_STATUS"
)

// Reason codes for RecordSubmissionFailedPayloadV1.
const (
	ReasonPlayerBanned          = "PLAYER_BANNED"
	ReasonSubmitLegacy          = "SUBMIT_LEGACY"
	ReasonNon100Extended        = "NON_100_EXTENDED"
	ReasonInvalidProgress       = "INVALID_PROGRESS"
	ReasonInvalidEnjoyment      = "INVALID_ENJOYMENT"
	ReasonMalformedRawURL       = "MALFORMED_RAW_URL"
	ReasonRawFootageRequired    = "RAW_FOOTAGE_REQUIRED"
	ReasonDemonNotFound         = "DEMON_NOT_FOUND"
	ReasonVideoRejected         = "VIDEO_REJECTED"
	ReasonBannedFromSubmissions = "BANNED_FROM_SUBMISSIONS"
	ReasonRateLimited           = "RATE_LIMITED"
)
