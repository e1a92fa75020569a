package hook

import (
	"encoding/json"
	"reflect"
	"testing"
)

func assertJSONEq(t *testing.T, want, got string) {
	t.Helper()
	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("bad expected JSON %s: %v", want, err)
	}
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("expected JSON, got %s: %v", got, err)
	}
	if !reflect.DeepEqual(w, g) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNormalizeDecision(t *testing.T) {
	block := "block"
	approve := "approve"
	odd := "maybe"

	tests := []struct {
		in   *string
		want Decision
	}{
		{nil, DecisionNone},
		{&block, DecisionBlock},
		{&approve, DecisionApprove},
		{&odd, Decision("maybe")},
	}
	for _, tt := range tests {
		once := NormalizeDecision(tt.in)
		if once != tt.want {
			t.Errorf("expected %q, got %q", tt.want, once)
		}
		s := string(once)
		if twice := NormalizeDecision(&s); twice != once {
			t.Errorf("expected normalization to be idempotent, got %q then %q", once, twice)
		}
	}
}

func TestVerdictJSON(t *testing.T) {
	assertJSONEq(t, `{"reason":""}`, string(NoOp().JSON()))
	assertJSONEq(t, `{"decision":"block","reason":"no"}`, string(Block("no").JSON()))
	assertJSONEq(t, `{"reason":"","continue":false,"stopReason":"TDD Guard disabled"}`, string(Stop("TDD Guard disabled").JSON()))
}

func TestVerdictBlocks(t *testing.T) {
	if NoOp().Blocks() {
		t.Error("expected no-op not to block")
	}
	if (Verdict{Decision: DecisionApprove}).Blocks() {
		t.Error("expected approve not to block")
	}
	if !Block("x").Blocks() {
		t.Error("expected block to block")
	}
}
