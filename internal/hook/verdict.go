package hook

import (
	"encoding/json"
)

// Decision is the verdict decision. The zero value means "undefined": the
// agent proceeds without an explicit approval.
type Decision string

const (
	DecisionNone    Decision = ""
	DecisionApprove Decision = "approve"
	DecisionBlock   Decision = "block"
)

// NormalizeDecision maps a decoded decision to a Decision. A JSON null
// (nil) becomes DecisionNone; any string passes through unchanged.
func NormalizeDecision(d *string) Decision {
	if d == nil {
		return DecisionNone
	}
	return Decision(*d)
}

// Verdict is the single JSON document printed for each hook event.
type Verdict struct {
	Decision   Decision `json:"decision,omitempty"`
	Reason     string   `json:"reason"`
	Continue   *bool    `json:"continue,omitempty"`
	StopReason string   `json:"stopReason,omitempty"`
}

// NoOp is the verdict that neither blocks nor approves.
func NoOp() Verdict {
	return Verdict{Decision: DecisionNone, Reason: ""}
}

// Block returns a blocking verdict with the given reason.
func Block(reason string) Verdict {
	return Verdict{Decision: DecisionBlock, Reason: reason}
}

// Stop returns a verdict that ends the agent turn with stopReason.
func Stop(stopReason string) Verdict {
	f := false
	return Verdict{Decision: DecisionNone, Continue: &f, StopReason: stopReason}
}

// Blocks reports whether the verdict prevents the operation. Undefined and
// approve decisions both let it through.
func (v Verdict) Blocks() bool {
	return v.Decision == DecisionBlock
}

// JSON encodes the verdict on one line.
func (v Verdict) JSON() []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"reason":""}`)
	}
	return data
}
