package tpm

import "vccore/pkg/wire"

// responseEntry is one ResponseCodec registration: how many handles the
// response carries ahead of its parameter area, and a parser for that
// parameter area.
type responseEntry struct {
	outHandles int
	parse      func(r *wire.Reader, handles []Handle) (any, error)
}

var responseRegistry = map[uint32]responseEntry{
	ccGetRandom: {
		outHandles: 0,
		parse: func(r *wire.Reader, _ []Handle) (any, error) {
			digest, err := r.ReadLengthPrefixed16()
			if err != nil {
				return nil, err
			}
			return GetRandomResponse{RandomBytes: append([]byte(nil), digest...)}, nil
		},
	},
	ccGetCapability: {
		outHandles: 0,
		parse: func(r *wire.Reader, _ []Handle) (any, error) {
			moreData, err := r.ReadUint8()
			if err != nil {
				return nil, err
			}
			data, err := r.ReadBytes(r.Remaining())
			if err != nil {
				return nil, err
			}
			return GetCapabilityResponse{MoreData: moreData != 0, CapabilityData: append([]byte(nil), data...)}, nil
		},
	},
	ccPCRRead: {
		outHandles: 0,
		parse: func(r *wire.Reader, _ []Handle) (any, error) {
			counter, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			selection, err := readPCRSelectionList(r)
			if err != nil {
				return nil, err
			}
			digestCount, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			digests := make([][]byte, 0, digestCount)
			for i := uint32(0); i < digestCount; i++ {
				d, err := r.ReadLengthPrefixed16()
				if err != nil {
					return nil, err
				}
				digests = append(digests, append([]byte(nil), d...))
			}
			return PCRReadResponse{PCRUpdateCounter: counter, Selection: selection, Digests: digests}, nil
		},
	},
	ccStartAuthSession: {
		outHandles: 1,
		parse: func(r *wire.Reader, handles []Handle) (any, error) {
			nonce, err := r.ReadLengthPrefixed16()
			if err != nil {
				return nil, err
			}
			return StartAuthSessionResponse{SessionHandle: handles[0], NonceTPM: append([]byte(nil), nonce...)}, nil
		},
	},
	ccCreatePrimary: {
		outHandles: 1,
		parse: func(r *wire.Reader, handles []Handle) (any, error) {
			outPublic, err := r.ReadLengthPrefixed16()
			if err != nil {
				return nil, err
			}
			creationData, err := r.ReadLengthPrefixed16()
			if err != nil {
				return nil, err
			}
			creationHash, err := r.ReadLengthPrefixed16()
			if err != nil {
				return nil, err
			}
			creationTicket, err := r.ReadLengthPrefixed16()
			if err != nil {
				return nil, err
			}
			name, err := r.ReadLengthPrefixed16()
			if err != nil {
				return nil, err
			}
			return CreatePrimaryResponse{
				ObjectHandle:   handles[0],
				OutPublic:      append([]byte(nil), outPublic...),
				CreationData:   append([]byte(nil), creationData...),
				CreationHash:   append([]byte(nil), creationHash...),
				CreationTicket: append([]byte(nil), creationTicket...),
				Name:           append([]byte(nil), name...),
			}, nil
		},
	},
	ccFlushContext: {
		outHandles: 0,
		parse: func(r *wire.Reader, _ []Handle) (any, error) {
			return struct{}{}, nil
		},
	},
}

func responseEntryFor(code uint32) (responseEntry, bool) {
	e, ok := responseRegistry[code]
	return e, ok
}
