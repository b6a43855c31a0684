package tpm

import "vccore/pkg/wire"

// CommandInput is a TPM 2.0 command body: the handle area and parameter
// area an Executor needs to assemble a full command, plus the command
// code that selects both the wire layout and the matching
// ResponseCodec entry.
type CommandInput interface {
	CommandCode() uint32
	WriteHandles(w *wire.Writer)
	WriteParameters(w *wire.Writer)
}

// GetRandomInput requests bytesRequested bytes from the TPM's RNG.
type GetRandomInput struct {
	BytesRequested uint16
}

func (GetRandomInput) CommandCode() uint32                 { return ccGetRandom }
func (GetRandomInput) WriteHandles(w *wire.Writer)          {}
func (c GetRandomInput) WriteParameters(w *wire.Writer)     { w.WriteUint16(c.BytesRequested) }

// GetRandomResponse carries the TPM2B_DIGEST the TPM returned.
type GetRandomResponse struct {
	RandomBytes []byte
}

// GetCapabilityInput queries one category of TPM capability data.
type GetCapabilityInput struct {
	Capability     uint32
	Property       uint32
	PropertyCount  uint32
}

func (GetCapabilityInput) CommandCode() uint32        { return ccGetCapability }
func (GetCapabilityInput) WriteHandles(w *wire.Writer) {}
func (c GetCapabilityInput) WriteParameters(w *wire.Writer) {
	w.WriteUint32(c.Capability)
	w.WriteUint32(c.Property)
	w.WriteUint32(c.PropertyCount)
}

// GetCapabilityResponse is the TPM's (more-data flag, opaque capability
// data) pair. CapabilityData is left as raw TPMS_CAPABILITY_DATA bytes:
// its internal shape is a tagged union keyed by Capability, which this
// module does not need to interpret to satisfy the executor's contract.
type GetCapabilityResponse struct {
	MoreData       bool
	CapabilityData []byte
}

// PCRSelection is one TPMS_PCR_SELECTION entry: a hash algorithm and the
// bitmap of PCR indices selected within it.
type PCRSelection struct {
	HashAlg uint16
	PCRs    []byte // TPMS_PCR_SELECT bitmap, sizeOfSelect bytes
}

// PCRReadInput requests the current value of the PCRs named by Selection.
type PCRReadInput struct {
	Selection []PCRSelection
}

func (PCRReadInput) CommandCode() uint32        { return ccPCRRead }
func (PCRReadInput) WriteHandles(w *wire.Writer) {}
func (c PCRReadInput) WriteParameters(w *wire.Writer) {
	writePCRSelectionList(w, c.Selection)
}

func writePCRSelectionList(w *wire.Writer, sel []PCRSelection) {
	w.WriteUint32(uint32(len(sel)))
	for _, s := range sel {
		w.WriteUint16(s.HashAlg)
		w.WriteUint8(uint8(len(s.PCRs)))
		w.WriteBytes(s.PCRs)
	}
}

func readPCRSelectionList(r *wire.Reader) ([]PCRSelection, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	sel := make([]PCRSelection, 0, count)
	for i := uint32(0); i < count; i++ {
		alg, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		n, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		bitmap, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		sel = append(sel, PCRSelection{HashAlg: alg, PCRs: append([]byte(nil), bitmap...)})
	}
	return sel, nil
}

// PCRReadResponse is the TPM's (update counter, echoed selection,
// concatenated digests) reply.
type PCRReadResponse struct {
	PCRUpdateCounter uint32
	Selection        []PCRSelection
	Digests          [][]byte
}

// SymmetricDef names the symmetric algorithm/key size a session binds,
// e.g. {Algorithm: 0x0006 /* TPM_ALG_AES */, KeyBits: 128}. A null
// symmetric def (Algorithm 0x0010, TPM_ALG_NULL) disables parameter
// encryption for the session.
type SymmetricDef struct {
	Algorithm uint16
	KeyBits   uint16
}

// StartAuthSessionInput begins a TPM session bound or salted against
// TPMKey/Bind, two handles in the handle area (TPM_RH_NULL for either
// when unused).
type StartAuthSessionInput struct {
	TPMKey        Handle
	Bind          Handle
	NonceCaller   []byte
	EncryptedSalt []byte
	SessionType   uint8
	Symmetric     SymmetricDef
	AuthHash      uint16
}

func (StartAuthSessionInput) CommandCode() uint32 { return ccStartAuthSession }
func (c StartAuthSessionInput) WriteHandles(w *wire.Writer) {
	w.WriteUint32(uint32(c.TPMKey))
	w.WriteUint32(uint32(c.Bind))
}
func (c StartAuthSessionInput) WriteParameters(w *wire.Writer) {
	w.WriteLengthPrefixed16(c.NonceCaller)
	w.WriteLengthPrefixed16(c.EncryptedSalt)
	w.WriteUint8(c.SessionType)
	w.WriteUint16(c.Symmetric.Algorithm)
	w.WriteUint16(c.Symmetric.KeyBits)
	w.WriteUint16(c.AuthHash)
}

// StartAuthSessionResponse carries the new session handle and the TPM's
// nonce.
type StartAuthSessionResponse struct {
	SessionHandle Handle
	NonceTPM      []byte
}

// CreatePrimaryInput derives a new primary object under Hierarchy.
// InSensitive/InPublic/OutsideInfo are already-serialized
// TPM2B_SENSITIVE_CREATE/TPM2B_PUBLIC/TPM2B_DATA blobs; this module
// treats them as opaque since their internal template shapes belong to
// a key-management layer above the wire codec.
type CreatePrimaryInput struct {
	Hierarchy       Handle
	InSensitive     []byte
	InPublic        []byte
	OutsideInfo     []byte
	CreationPCR     []PCRSelection
}

func (CreatePrimaryInput) CommandCode() uint32 { return ccCreatePrimary }
func (c CreatePrimaryInput) WriteHandles(w *wire.Writer) {
	w.WriteUint32(uint32(c.Hierarchy))
}
func (c CreatePrimaryInput) WriteParameters(w *wire.Writer) {
	w.WriteLengthPrefixed16(c.InSensitive)
	w.WriteLengthPrefixed16(c.InPublic)
	w.WriteLengthPrefixed16(c.OutsideInfo)
	writePCRSelectionList(w, c.CreationPCR)
}

// CreatePrimaryResponse carries the new object's handle and the blobs
// the TPM returned describing it; each is kept as opaque TPM2B bytes for
// the same reason as CreatePrimaryInput's template fields.
type CreatePrimaryResponse struct {
	ObjectHandle Handle
	OutPublic    []byte
	CreationData []byte
	CreationHash []byte
	CreationTicket []byte
	Name         []byte
}

// FlushContextInput releases a transient object, session, or sequence
// object. Its target handle lives in the parameter area, not the handle
// area — TPM 2.0 Part 3 §28.8.1's one exception to the usual handle
// convention, and the reason FlushContext's cmdAttrs entry declares zero
// input handles even though it operates on one.
type FlushContextInput struct {
	FlushHandle Handle
}

func (FlushContextInput) CommandCode() uint32        { return ccFlushContext }
func (FlushContextInput) WriteHandles(w *wire.Writer) {}
func (c FlushContextInput) WriteParameters(w *wire.Writer) {
	w.WriteUint32(uint32(c.FlushHandle))
}
