package protocol

// This file encodes the shared domain value types referenced by
// multiple request/response/event payloads (spec §3).

// BreakpointKind enumerates the kinds of breakpoint spec (spec §3.3).
type BreakpointKind uint8

const (
	BPKindLine BreakpointKind = iota
	BPKindAddress
	BPKindFunction
	BPKindSymbol
	BPKindSymbolRegex
	BPKindWatchpoint
)

// SourceLocation names a file+line, with an optional column — the
// column field is the additive, backward-compatible extension spec §9
// allows but doesn't require.
type SourceLocation struct {
	FilePath string
	Line     int32
	Column   *int32
}

func (s SourceLocation) encode(w *Writer) {
	w.WriteString(s.FilePath)
	w.WriteInt32(s.Line)
	if s.Column != nil {
		w.WriteBool(true)
		w.WriteInt32(*s.Column)
	} else {
		w.WriteBool(false)
	}
}

func decodeSourceLocation(r *Reader) (SourceLocation, error) {
	var s SourceLocation
	var err error
	if s.FilePath, err = r.ReadString(); err != nil {
		return s, err
	}
	if s.Line, err = r.ReadInt32(); err != nil {
		return s, err
	}
	hasCol, err := r.ReadBool()
	if err != nil {
		return s, err
	}
	if hasCol {
		col, err := r.ReadInt32()
		if err != nil {
			return s, err
		}
		s.Column = &col
	}
	return s, nil
}

// BreakpointSpec is the kind-specific payload of an AddBreakpoint
// request (spec §3.3).
type BreakpointSpec struct {
	Kind BreakpointKind

	// LINE
	Line SourceLocation

	// ADDRESS
	Address uint64

	// FUNCTION
	FunctionName string
	Mangled      bool

	// SYMBOL / SYMBOL_REGEX
	Pattern string
	IsRegex bool

	// WATCHPOINT
	WatchAddress uint64
	WatchSize    uint32
	WatchRead    bool
	WatchWrite   bool
}

func (s BreakpointSpec) Encode(w *Writer) {
	w.WriteUint8(uint8(s.Kind))
	switch s.Kind {
	case BPKindLine:
		s.Line.encode(w)
	case BPKindAddress:
		w.WriteUint64(s.Address)
	case BPKindFunction:
		w.WriteString(s.FunctionName)
		w.WriteBool(s.Mangled)
	case BPKindSymbol, BPKindSymbolRegex:
		w.WriteString(s.Pattern)
		w.WriteBool(s.IsRegex)
	case BPKindWatchpoint:
		w.WriteUint64(s.WatchAddress)
		w.WriteUint32(s.WatchSize)
		w.WriteBool(s.WatchRead)
		w.WriteBool(s.WatchWrite)
	}
}

func DecodeBreakpointSpec(r *Reader) (BreakpointSpec, error) {
	var s BreakpointSpec
	kind, err := r.ReadUint8()
	if err != nil {
		return s, err
	}
	s.Kind = BreakpointKind(kind)
	switch s.Kind {
	case BPKindLine:
		loc, err := decodeSourceLocation(r)
		if err != nil {
			return s, err
		}
		s.Line = loc
	case BPKindAddress:
		if s.Address, err = r.ReadUint64(); err != nil {
			return s, err
		}
	case BPKindFunction:
		if s.FunctionName, err = r.ReadString(); err != nil {
			return s, err
		}
		if s.Mangled, err = r.ReadBool(); err != nil {
			return s, err
		}
	case BPKindSymbol, BPKindSymbolRegex:
		if s.Pattern, err = r.ReadString(); err != nil {
			return s, err
		}
		if s.IsRegex, err = r.ReadBool(); err != nil {
			return s, err
		}
	case BPKindWatchpoint:
		if s.WatchAddress, err = r.ReadUint64(); err != nil {
			return s, err
		}
		if s.WatchSize, err = r.ReadUint32(); err != nil {
			return s, err
		}
		if s.WatchRead, err = r.ReadBool(); err != nil {
			return s, err
		}
		if s.WatchWrite, err = r.ReadBool(); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Location is a resolved physical address for a breakpoint (spec §3.3).
type Location struct {
	LocationID     uint64
	Address        uint64
	Resolved       bool
	SourceLocation *SourceLocation
}

func (l Location) Encode(w *Writer) {
	w.WriteUint64(l.LocationID)
	w.WriteUint64(l.Address)
	w.WriteBool(l.Resolved)
	if l.SourceLocation != nil {
		w.WriteBool(true)
		l.SourceLocation.encode(w)
	} else {
		w.WriteBool(false)
	}
}

func DecodeLocation(r *Reader) (Location, error) {
	var l Location
	var err error
	if l.LocationID, err = r.ReadUint64(); err != nil {
		return l, err
	}
	if l.Address, err = r.ReadUint64(); err != nil {
		return l, err
	}
	if l.Resolved, err = r.ReadBool(); err != nil {
		return l, err
	}
	has, err := r.ReadBool()
	if err != nil {
		return l, err
	}
	if has {
		loc, err := decodeSourceLocation(r)
		if err != nil {
			return l, err
		}
		l.SourceLocation = &loc
	}
	return l, nil
}

func encodeLocations(w *Writer, locs []Location) {
	w.WriteUint32(uint32(len(locs)))
	for _, l := range locs {
		l.Encode(w)
	}
}

func decodeLocations(r *Reader) ([]Location, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	out := make([]Location, 0, n)
	for i := uint32(0); i < n; i++ {
		l, err := DecodeLocation(r)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Breakpoint is the full protocol-level breakpoint model (spec §3.3).
type Breakpoint struct {
	ID                uint64
	Spec              BreakpointSpec
	Condition         *string
	IgnoreCount       uint32
	ThreadRestriction *uint64
	Enabled           bool
	Locations         []Location
	HitCount          uint32
}

func (b Breakpoint) Encode(w *Writer) {
	w.WriteUint64(b.ID)
	b.Spec.Encode(w)
	w.WriteOptString(b.Condition)
	w.WriteUint32(b.IgnoreCount)
	if b.ThreadRestriction != nil {
		w.WriteBool(true)
		w.WriteUint64(*b.ThreadRestriction)
	} else {
		w.WriteBool(false)
	}
	w.WriteBool(b.Enabled)
	encodeLocations(w, b.Locations)
	w.WriteUint32(b.HitCount)
}

func DecodeBreakpoint(r *Reader) (Breakpoint, error) {
	var b Breakpoint
	var err error
	if b.ID, err = r.ReadUint64(); err != nil {
		return b, err
	}
	if b.Spec, err = DecodeBreakpointSpec(r); err != nil {
		return b, err
	}
	if b.Condition, err = r.ReadOptString(); err != nil {
		return b, err
	}
	if b.IgnoreCount, err = r.ReadUint32(); err != nil {
		return b, err
	}
	hasThread, err := r.ReadBool()
	if err != nil {
		return b, err
	}
	if hasThread {
		tid, err := r.ReadUint64()
		if err != nil {
			return b, err
		}
		b.ThreadRestriction = &tid
	}
	if b.Enabled, err = r.ReadBool(); err != nil {
		return b, err
	}
	if b.Locations, err = decodeLocations(r); err != nil {
		return b, err
	}
	if b.HitCount, err = r.ReadUint32(); err != nil {
		return b, err
	}
	return b, nil
}

// StopReason tags the variant of StopInfo populated (spec §3.5).
type StopReason uint8

const (
	StopReasonBreakpoint StopReason = iota
	StopReasonWatchpoint
	StopReasonSignal
	StopReasonException
	StopReasonStep
	StopReasonPlanComplete
	StopReasonExec
	StopReasonTrace
)

// StopInfo is the tagged union describing why a thread stopped
// (spec §3.5). Only the engine-reported variant's fields are
// meaningful; Description is always populated as a fallback.
type StopInfo struct {
	Reason      StopReason
	BPID        uint64
	LocID       uint64
	WPID        uint64
	AccessWrite bool
	Signo       int32
	SignalName  string
	Description string
}

func (s StopInfo) Encode(w *Writer) {
	w.WriteUint8(uint8(s.Reason))
	w.WriteUint64(s.BPID)
	w.WriteUint64(s.LocID)
	w.WriteUint64(s.WPID)
	w.WriteBool(s.AccessWrite)
	w.WriteInt32(s.Signo)
	w.WriteString(s.SignalName)
	w.WriteString(s.Description)
}

func DecodeStopInfo(r *Reader) (StopInfo, error) {
	var s StopInfo
	var err error
	reason, err := r.ReadUint8()
	if err != nil {
		return s, err
	}
	s.Reason = StopReason(reason)
	if s.BPID, err = r.ReadUint64(); err != nil {
		return s, err
	}
	if s.LocID, err = r.ReadUint64(); err != nil {
		return s, err
	}
	if s.WPID, err = r.ReadUint64(); err != nil {
		return s, err
	}
	if s.AccessWrite, err = r.ReadBool(); err != nil {
		return s, err
	}
	if s.Signo, err = r.ReadInt32(); err != nil {
		return s, err
	}
	if s.SignalName, err = r.ReadString(); err != nil {
		return s, err
	}
	if s.Description, err = r.ReadString(); err != nil {
		return s, err
	}
	return s, nil
}

// Thread is the protocol view of a debuggee thread (spec §3.5).
type Thread struct {
	ID       uint64
	NativeTID uint64
	Name     string
	State    string
	StopInfo *StopInfo
}

func (t Thread) Encode(w *Writer) {
	w.WriteUint64(t.ID)
	w.WriteUint64(t.NativeTID)
	w.WriteString(t.Name)
	w.WriteString(t.State)
	if t.StopInfo != nil {
		w.WriteBool(true)
		t.StopInfo.Encode(w)
	} else {
		w.WriteBool(false)
	}
}

func DecodeThread(r *Reader) (Thread, error) {
	var t Thread
	var err error
	if t.ID, err = r.ReadUint64(); err != nil {
		return t, err
	}
	if t.NativeTID, err = r.ReadUint64(); err != nil {
		return t, err
	}
	if t.Name, err = r.ReadString(); err != nil {
		return t, err
	}
	if t.State, err = r.ReadString(); err != nil {
		return t, err
	}
	has, err := r.ReadBool()
	if err != nil {
		return t, err
	}
	if has {
		si, err := DecodeStopInfo(r)
		if err != nil {
			return t, err
		}
		t.StopInfo = &si
	}
	return t, nil
}

// Frame is a stack frame, always retrieved on demand (spec §3.5).
type Frame struct {
	ID             uint64
	FunctionName   string
	SourceLocation *SourceLocation
	PC             uint64
}

func (f Frame) Encode(w *Writer) {
	w.WriteUint64(f.ID)
	w.WriteString(f.FunctionName)
	if f.SourceLocation != nil {
		w.WriteBool(true)
		f.SourceLocation.encode(w)
	} else {
		w.WriteBool(false)
	}
	w.WriteUint64(f.PC)
}

func DecodeFrame(r *Reader) (Frame, error) {
	var f Frame
	var err error
	if f.ID, err = r.ReadUint64(); err != nil {
		return f, err
	}
	if f.FunctionName, err = r.ReadString(); err != nil {
		return f, err
	}
	has, err := r.ReadBool()
	if err != nil {
		return f, err
	}
	if has {
		loc, err := decodeSourceLocation(r)
		if err != nil {
			return f, err
		}
		f.SourceLocation = &loc
	}
	if f.PC, err = r.ReadUint64(); err != nil {
		return f, err
	}
	return f, nil
}

// Value models a lazy variable-inspection node (spec §3.4). ChildrenCount
// of -1 means "unknown, fetch children to discover".
type Value struct {
	ID               uint64
	Name             string
	TypeName         string
	Summary          string
	RawValue         string
	ChildrenCount    int32
	HasMoreChildren  bool
	Address          *uint64
}

func (v Value) Encode(w *Writer) {
	w.WriteUint64(v.ID)
	w.WriteString(v.Name)
	w.WriteString(v.TypeName)
	w.WriteString(v.Summary)
	w.WriteString(v.RawValue)
	w.WriteInt32(v.ChildrenCount)
	w.WriteBool(v.HasMoreChildren)
	if v.Address != nil {
		w.WriteBool(true)
		w.WriteUint64(*v.Address)
	} else {
		w.WriteBool(false)
	}
}

func DecodeValue(r *Reader) (Value, error) {
	var v Value
	var err error
	if v.ID, err = r.ReadUint64(); err != nil {
		return v, err
	}
	if v.Name, err = r.ReadString(); err != nil {
		return v, err
	}
	if v.TypeName, err = r.ReadString(); err != nil {
		return v, err
	}
	if v.Summary, err = r.ReadString(); err != nil {
		return v, err
	}
	if v.RawValue, err = r.ReadString(); err != nil {
		return v, err
	}
	if v.ChildrenCount, err = r.ReadInt32(); err != nil {
		return v, err
	}
	if v.HasMoreChildren, err = r.ReadBool(); err != nil {
		return v, err
	}
	has, err := r.ReadBool()
	if err != nil {
		return v, err
	}
	if has {
		addr, err := r.ReadUint64()
		if err != nil {
			return v, err
		}
		v.Address = &addr
	}
	return v, nil
}

func encodeValues(w *Writer, vals []Value) {
	w.WriteUint32(uint32(len(vals)))
	for _, v := range vals {
		v.Encode(w)
	}
}

func decodeValues(r *Reader) ([]Value, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := DecodeValue(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FilteringPolicy controls which engine values are exposed in
// variable enumerations (spec §3.4/§4.6).
type FilteringPolicy struct {
	RecognizedArguments  bool
	RuntimeSupportValues bool
	ArtificialValues     bool
}

func (p FilteringPolicy) Encode(w *Writer) {
	w.WriteBool(p.RecognizedArguments)
	w.WriteBool(p.RuntimeSupportValues)
	w.WriteBool(p.ArtificialValues)
}

func DecodeFilteringPolicy(r *Reader) (FilteringPolicy, error) {
	var p FilteringPolicy
	var err error
	if p.RecognizedArguments, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p.RuntimeSupportValues, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p.ArtificialValues, err = r.ReadBool(); err != nil {
		return p, err
	}
	return p, nil
}
