package observability

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEvent is one append-only record of tb_audit_event (§6, §8
// property 8: "recomputing event hashes and HMACs in sequence reproduces
// the stored values; altering any event breaks the chain exactly at
// that event"). EventID is assigned once, by NewAuditEvent, the same
// "UUID primary key per row" convention the teacher's own entity schema
// declares via google/uuid's ID-default fields; PrevHash/Hash/HMAC are
// computed by the AuditChain that appends the event, never set by the
// caller.
type AuditEvent struct {
	EventID   string    `json:"event_id"`
	TenantID  string    `json:"tenant_id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`

	PrevHash string `json:"prev_hash"`
	Hash     string `json:"hash"`
	HMAC     string `json:"hmac"`
}

// NewAuditEvent stamps a fresh, randomly generated EventID onto e,
// mirroring the teacher's field.UUID()-typed entity ID default
// (google/uuid's Random-version UUID). Callers build e's remaining
// fields and pass the result to AuditChain.Append.
func NewAuditEvent(e AuditEvent) AuditEvent {
	e.EventID = uuid.NewString()
	return e
}

// AuditChain appends AuditEvents into a per-tenant hash+HMAC chain:
// each event's Hash covers its own fields plus the previous event's
// Hash, and HMAC authenticates that Hash with a server-held secret so a
// reader can verify the whole chain without trusting the storage layer.
// This is hand-rolled on crypto/sha256 and crypto/hmac rather than an
// ecosystem chained-log library: nothing in the retrieved pack provides
// one, and the construction itself (hash-of-hash-plus-HMAC chaining) is
// a handful of stdlib calls, not a reimplementation of something the
// ecosystem already solves well.
type AuditChain struct {
	secret   []byte
	lastHash map[string]string // tenantID -> last event's Hash
}

// NewAuditChain creates an AuditChain keyed by secret, the HMAC key
// every event's integrity tag is computed against (§6: KMS providers
// supply this key; sourcing it is out of this module's scope).
func NewAuditChain(secret []byte) *AuditChain {
	return &AuditChain{secret: secret, lastHash: make(map[string]string)}
}

// Append computes e's PrevHash/Hash/HMAC from the chain's current state
// for e.TenantID and records Hash as that tenant's new chain tip. The
// returned AuditEvent is the one to persist into tb_audit_event;
// Append itself does not touch storage.
func (c *AuditChain) Append(e AuditEvent) (AuditEvent, error) {
	e.PrevHash = c.lastHash[e.TenantID]

	payload, err := canonicalPayload(e)
	if err != nil {
		return AuditEvent{}, fmt.Errorf("observability: audit event: %w", err)
	}

	sum := sha256.Sum256(append([]byte(e.PrevHash), payload...))
	e.Hash = hex.EncodeToString(sum[:])

	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(e.Hash))
	e.HMAC = hex.EncodeToString(mac.Sum(nil))

	c.lastHash[e.TenantID] = e.Hash
	return e, nil
}

// VerifyChain replays events in stored order and confirms each one's
// Hash and HMAC reproduce from its fields and its predecessor's Hash,
// returning the index of the first event that fails to verify, or -1 if
// the whole chain is intact.
func VerifyChain(secret []byte, events []AuditEvent) (int, error) {
	prevHash := ""
	for i, e := range events {
		if e.PrevHash != prevHash {
			return i, nil
		}
		withoutHash := e
		withoutHash.Hash = ""
		withoutHash.HMAC = ""

		payload, err := canonicalPayload(withoutHash)
		if err != nil {
			return i, fmt.Errorf("observability: audit event %d: %w", i, err)
		}
		sum := sha256.Sum256(append([]byte(e.PrevHash), payload...))
		wantHash := hex.EncodeToString(sum[:])
		if !hmac.Equal([]byte(wantHash), []byte(e.Hash)) {
			return i, nil
		}

		mac := hmac.New(sha256.New, secret)
		mac.Write([]byte(e.Hash))
		wantHMAC := hex.EncodeToString(mac.Sum(nil))
		if !hmac.Equal([]byte(wantHMAC), []byte(e.HMAC)) {
			return i, nil
		}

		prevHash = e.Hash
	}
	return -1, nil
}

// canonicalPayload serializes the event fields covered by its hash,
// excluding PrevHash/Hash/HMAC which are either the chain linkage or
// the values being computed.
func canonicalPayload(e AuditEvent) ([]byte, error) {
	e.PrevHash, e.Hash, e.HMAC = "", "", ""
	return json.Marshal(e)
}
