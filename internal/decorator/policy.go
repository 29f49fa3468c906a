// Package decorator is the CORE of this module: the decorator lowering
// pass described by spec §4. It takes a class AST node (declaration or
// expression, decorated anywhere on itself or its members) and rewrites it
// in place into the equivalent undecorated program plus injected static
// blocks, helper calls, and auxiliary declarations.
//
// The six phases (P1 Entry & binding rewrite, P2 Element survey, P3
// Auto-accessor desugar, P4 Decorator extraction, P5 Emission, P6
// Validation) are split one file per phase, mirroring the teacher's
// js_parser_lower_class.go, which performs the closely related
// class-field/private-member/standard-decorator lowering for esbuild in
// exactly this sequenced, single-class, mutate-in-place style.
package decorator

import (
	"fmt"

	"github.com/jsdecor/declower/internal/helpers"
)

// Version is one of the four spec revisions the pass can target (§1, §6).
type Version string

const (
	Version202112 Version = "2021-12"
	Version202203 Version = "2022-03"
	Version202301 Version = "2023-01"
	Version202305 Version = "2023-05"
)

func (v Version) Valid() bool {
	switch v {
	case Version202112, Version202203, Version202301, Version202305:
		return true
	}
	return false
}

// minHostVersion is the lowest host-compiler version that may request each
// spec revision (§6's plugin-construction assertion).
var minHostVersion = map[Version]string{
	Version202112: "7.16.0",
	Version202203: "7.19.0",
	Version202301: "7.21.0",
	Version202305: "7.21.0",
}

// VersionPolicy collects every point where the four revisions' emitted
// shapes diverge (§9 DESIGN NOTES: "A table of VersionPolicy{helper,
// encode_flag, track_this, emit_super} makes the branching explicit").
type VersionPolicy struct {
	Version Version

	// Helper is the top-level "apply decorators" runtime function for this
	// revision (§4.6).
	Helper string

	// FlatArrayShape is true for 2021-12/2022-03(non-R), whose helper
	// returns one concatenated array destructured positionally instead of
	// the `{ e: [...], c: [...] }` / `call.e` / `call.c` shapes used by
	// applyDecs2203R and from 2023-01 onward (§4.6).
	FlatArrayShape bool

	// TracksThis is true only for 2023-05: decorator expressions that are
	// `super.x`/`this.x` member expressions get a separate recorded
	// receiver (DecoratorInfo.DecoratorsThis, §3/§4.5).
	TracksThis bool

	// EmitsSuperClass is true only for 2023-05: the emission call passes
	// the (possibly memoized) superclass through as an explicit argument
	// (§4.6).
	EmitsSuperClass bool

	// StaticBitIsFlag is true for 2023-05 and later: "static" is bit 3 of
	// the element flag. When false (2021-12/2022-03/2023-01), the older
	// runtimes instead expect the literal 5 added to the kind (§4.6.1).
	StaticBitIsFlag bool

	// SupportsMetadata is set only for 2023-05. Nothing in the pass reads
	// it: no metadata object is threaded through the emitted call.
	SupportsMetadata bool
}

var policies = map[Version]VersionPolicy{
	Version202112: {
		Version: Version202112, Helper: helpers.ApplyDecs, FlatArrayShape: true,
	},
	Version202203: {
		Version: Version202203, Helper: helpers.ApplyDecs2203, FlatArrayShape: true,
	},
	Version202301: {
		Version: Version202301, Helper: helpers.ApplyDecs2301, FlatArrayShape: false,
	},
	Version202305: {
		Version: Version202305, Helper: helpers.ApplyDecs2305, FlatArrayShape: false,
		TracksThis: true, EmitsSuperClass: true, StaticBitIsFlag: true, SupportsMetadata: true,
	},
}

// policyFor returns the VersionPolicy for v, and for 2022-03 prefers the
// "R" (return-based) helper variant when the caller indicates the runtime
// supports it (§4.6: "applyDecs2203R when available, otherwise the older
// applyDecs2203").
func policyFor(v Version, prefer2203R bool) VersionPolicy {
	p := policies[v]
	if v == Version202203 && prefer2203R {
		p.Helper = helpers.ApplyDecs2203R
		p.FlatArrayShape = false
	}
	return p
}

// Options configures pass construction (§6).
type Options struct {
	// Version selects the spec revision to emit.
	Version Version

	// HostVersion is the embedding compiler's semantic version, checked
	// against minHostVersion for the selected Version.
	HostVersion string

	// ConstantSuper is the "assumption" flag controlling how `super`
	// references are rewritten inside extracted private method bodies
	// (§6). It defaults from the deprecated Loose option per the §9 open
	// question ("assumption wins").
	ConstantSuper bool

	// Loose is the deprecated predecessor of ConstantSuper. It is only
	// consulted when ConstantSuper was left at its zero value AND Loose is
	// explicitly set; see the §9 open-question resolution in DESIGN.md.
	Loose bool

	// Prefer2203R selects applyDecs2203R over the legacy applyDecs2203 for
	// Version202203 (§4.6).
	Prefer2203R bool
}

// resolveConstantSuper implements the §9 open question: "assumption wins".
// ConstantSuper is authoritative whenever it is explicitly true; Loose is
// only a fallback default for callers that never set ConstantSuper.
func (o Options) resolveConstantSuper() bool {
	return o.ConstantSuper || o.Loose
}

// ConfigError reports an invalid Version or an HostVersion too old for it
// (spec §7.2: "Configuration error ... Reported once at pass
// construction").
type ConfigError struct{ Text string }

func (e *ConfigError) Error() string { return e.Text }

// compareVersions does a simple dotted-numeric comparison; both inputs are
// expected to be well-formed "major.minor.patch" strings as produced by the
// host compiler's own version reporting.
func compareVersions(a, b string) int {
	var aParts, bParts [3]int
	fmt.Sscanf(a, "%d.%d.%d", &aParts[0], &aParts[1], &aParts[2])
	fmt.Sscanf(b, "%d.%d.%d", &bParts[0], &bParts[1], &bParts[2])
	for i := 0; i < 3; i++ {
		if aParts[i] != bParts[i] {
			if aParts[i] < bParts[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
