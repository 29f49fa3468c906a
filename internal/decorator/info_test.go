package decorator

import (
	"testing"

	"github.com/jsdecor/declower/internal/ast"
)

func TestBucketOrdering(t *testing.T) {
	cases := []struct {
		kind     DecoratorKind
		isStatic bool
		want     int
	}{
		{KindMethod, true, 0},
		{KindGetter, true, 0},
		{KindAccessor, true, 0},
		{KindMethod, false, 1},
		{KindSetter, false, 1},
		{KindField, true, 2},
		{KindField, false, 3},
	}
	for _, c := range cases {
		if got := bucket(c.kind, c.isStatic); got != c.want {
			t.Errorf("bucket(%v, static=%v) = %d, want %d", c.kind, c.isStatic, got, c.want)
		}
	}
}

func TestOrderDecoratorInfosRespectsBucketsAndSourceOrder(t *testing.T) {
	mk := func(kind DecoratorKind, isStatic bool, idx int) *DecoratorInfo {
		return &DecoratorInfo{Kind: kind, IsStatic: isStatic, sourceIndex: idx}
	}
	// Deliberately scrambled input: an instance field first, then a static
	// method, then a static field, then an instance accessor.
	in := []*DecoratorInfo{
		mk(KindField, false, 0),
		mk(KindMethod, true, 1),
		mk(KindField, true, 2),
		mk(KindAccessor, false, 3),
	}
	out := orderDecoratorInfos(in)

	want := []struct {
		kind     DecoratorKind
		isStatic bool
	}{
		{KindMethod, true},    // bucket 0
		{KindAccessor, false}, // bucket 1
		{KindField, true},     // bucket 2
		{KindField, false},    // bucket 3
	}
	if len(out) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(out))
	}
	for i, w := range want {
		if out[i].Kind != w.kind || out[i].IsStatic != w.isStatic {
			t.Errorf("position %d: got kind=%v static=%v, want kind=%v static=%v", i, out[i].Kind, out[i].IsStatic, w.kind, w.isStatic)
		}
	}
}

func TestOrderDecoratorInfosIsStableWithinBucket(t *testing.T) {
	a := &DecoratorInfo{Kind: KindField, IsStatic: false, sourceIndex: 0}
	b := &DecoratorInfo{Kind: KindField, IsStatic: false, sourceIndex: 1}
	out := orderDecoratorInfos([]*DecoratorInfo{b, a})
	if out[0] != a || out[1] != b {
		t.Fatal("expected source-order tiebreak within the same bucket")
	}
}

func TestEncodeFlagPre2305UsesLiteralFiveForStatic(t *testing.T) {
	policy := policies[Version202301]
	info := &DecoratorInfo{Kind: KindMethod, IsStatic: true}
	if got, want := info.EncodeFlag(policy), int(KindMethod)+5; got != want {
		t.Errorf("EncodeFlag() = %d, want %d", got, want)
	}
}

func TestEncodeFlag2305UsesBit3ForStatic(t *testing.T) {
	policy := policies[Version202305]
	info := &DecoratorInfo{Kind: KindMethod, IsStatic: true}
	if got, want := info.EncodeFlag(policy), int(KindMethod)|(1<<3); got != want {
		t.Errorf("EncodeFlag() = %d, want %d", got, want)
	}
}

func TestEncodeFlagThisBitOnlyWhenPolicyTracksReceivers(t *testing.T) {
	info := &DecoratorInfo{Kind: KindField, DecoratorsThis: []ast.Expr{{Data: ast.EThisShared}}}
	// Pre-2305 policies never track receivers, so the bit must stay clear
	// even though this element has a recorded receiver.
	if got, want := info.EncodeFlag(policies[Version202301]), int(KindField); got != want {
		t.Errorf("EncodeFlag() = %d, want %d (this bit must be ignored pre-2305)", got, want)
	}
}

func TestEncodeFlagSetsThisBitWhenReceiverPresent(t *testing.T) {
	policy := policies[Version202305]
	info := &DecoratorInfo{Kind: KindField, DecoratorsThis: []ast.Expr{{Data: ast.EThisShared}}}
	if got, want := info.EncodeFlag(policy), int(KindField)|(1<<4); got != want {
		t.Errorf("EncodeFlag() = %d, want %d", got, want)
	}
}
