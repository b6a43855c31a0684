package tpm

import "github.com/google/go-tpm/tpmutil"

// Handle is a TPM object, session, or hierarchy handle (a big-endian u32
// on the wire). tpmutil.Handle is reused here rather than redefined so
// that values already produced by go-tpm callers (e.g. well-known
// hierarchy handles) plug directly into this module's commands.
type Handle = tpmutil.Handle

// Well-known permanent handles (TPM 2.0 Part 2 Table 28).
const (
	HandleOwner      Handle = 0x40000001
	HandleEndorsement Handle = 0x4000000B
	HandlePlatform   Handle = 0x4000000C
	HandleNull       Handle = 0x40000007
)

// Command codes (TPM_CC_*) this module implements, per TPM 2.0 Part 2
// §6.5.2. Values are spec literals, not re-derived from any library.
const (
	ccCreatePrimary    uint32 = 0x00000131
	ccStartAuthSession uint32 = 0x00000176
	ccFlushContext     uint32 = 0x00000165
	ccGetCapability    uint32 = 0x0000017A
	ccGetRandom        uint32 = 0x0000017B
	ccPCRRead          uint32 = 0x0000017E
)

// cmdAttrs describes how many handles a command consumes, whether the
// response carries a handle, and whether an authorization area is
// expected in the command. This mirrors the bit-27:25 (input handle
// count) and bit-28 (response handle present) fields of TPMA_CC without
// reproducing the full attribute structure, since only the handle/
// response-handle shape is needed to split the wire layout. Execute
// cross-checks hasResponseHandle against responseEntry.outHandles and
// refuses to run a command with hasAuthArea set when no session was
// supplied, so both fields are load-bearing rather than descriptive.
type cmdAttrs struct {
	inputHandles    int
	hasResponseHandle bool
	hasAuthArea     bool
}

var commandAttrs = map[uint32]cmdAttrs{
	ccGetRandom:        {inputHandles: 0, hasResponseHandle: false, hasAuthArea: false},
	ccGetCapability:    {inputHandles: 0, hasResponseHandle: false, hasAuthArea: false},
	ccPCRRead:          {inputHandles: 0, hasResponseHandle: false, hasAuthArea: false},
	ccStartAuthSession: {inputHandles: 2, hasResponseHandle: true, hasAuthArea: false},
	ccCreatePrimary:    {inputHandles: 1, hasResponseHandle: true, hasAuthArea: true},
	// FlushContext's target handle is carried in the parameter area, not
	// the handle area (TPM 2.0 Part 3 §28.8.1) — an exception to the
	// usual handle-count convention that the executor must respect.
	ccFlushContext: {inputHandles: 0, hasResponseHandle: false, hasAuthArea: false},
}

func attrsFor(code uint32) (cmdAttrs, bool) {
	a, ok := commandAttrs[code]
	return a, ok
}
