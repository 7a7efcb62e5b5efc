package protocol

// RequestVariant numbers the oneof of request payloads (spec §4.2,
// §4.8). Numbering is fixed and append-only: never renumber an
// existing entry, only add past the end.
type RequestVariant uint16

const (
	ReqUnknown RequestVariant = iota // 0 is never a real variant; decode failure maps here

	// Target & process
	ReqCreateTarget
	ReqAttach
	ReqAttachByName
	ReqLoadCore
	ReqLaunch
	ReqDetach
	ReqKill
	ReqExit
	ReqConnectPlatform
	ReqConnectProcess

	// Execution
	ReqContinue
	ReqSuspend
	ReqStepIn
	ReqStepOver
	ReqStepOut
	ReqStepScripted
	ReqJumpToLine
	ReqJumpToAddress

	// Breakpoints
	ReqAddBreakpoint
	ReqRemoveBreakpoint
	ReqAddWatchpoint
	ReqRemoveWatchpoint
	ReqSetCondition
	ReqSetIgnoreCount
	ReqSetEnabled
	ReqSetThreadRestriction

	// Threads/frames
	ReqGetThreads
	ReqGetFrames
	ReqFreezeThread
	ReqUnfreezeThread

	// Values
	ReqVariables
	ReqValueChildren
	ReqValueData
	ReqValueDescription
	ReqValueAddress
	ReqChildrenCount
	ReqArraySlice
	ReqSetValueFilteringPolicy
	ReqEvaluate

	// Memory/disassembly
	ReqDumpMemory
	ReqWriteMemory
	ReqDisassemble
	ReqDumpSections
	ReqGetContextInfo

	// Registers
	ReqGetRegisters
	ReqGetRegisterSets
	ReqGetArchitecture

	// Console/commands
	ReqHandleConsoleCommand
	ReqHandleCompletion
	ReqDispatchInput
	ReqResizeConsole

	// Signals/symbols/shell
	ReqHandleSignal
	ReqExecuteShellCommand
	ReqCancelSymbolsDownload

	reqVariantCount
)

// Name returns a human-readable variant name for logs.
func (v RequestVariant) Name() string {
	if n, ok := requestVariantNames[v]; ok {
		return n
	}
	return "Unknown"
}

var requestVariantNames = map[RequestVariant]string{
	ReqCreateTarget:            "CreateTarget",
	ReqAttach:                  "Attach",
	ReqAttachByName:            "AttachByName",
	ReqLoadCore:                "LoadCore",
	ReqLaunch:                  "Launch",
	ReqDetach:                  "Detach",
	ReqKill:                    "Kill",
	ReqExit:                    "Exit",
	ReqConnectPlatform:         "ConnectPlatform",
	ReqConnectProcess:          "ConnectProcess",
	ReqContinue:                "Continue",
	ReqSuspend:                 "Suspend",
	ReqStepIn:                  "StepIn",
	ReqStepOver:                "StepOver",
	ReqStepOut:                 "StepOut",
	ReqStepScripted:            "StepScripted",
	ReqJumpToLine:              "JumpToLine",
	ReqJumpToAddress:           "JumpToAddress",
	ReqAddBreakpoint:           "AddBreakpoint",
	ReqRemoveBreakpoint:        "RemoveBreakpoint",
	ReqAddWatchpoint:           "AddWatchpoint",
	ReqRemoveWatchpoint:        "RemoveWatchpoint",
	ReqSetCondition:            "SetCondition",
	ReqSetIgnoreCount:          "SetIgnoreCount",
	ReqSetEnabled:              "SetEnabled",
	ReqSetThreadRestriction:    "SetThreadRestriction",
	ReqGetThreads:              "GetThreads",
	ReqGetFrames:               "GetFrames",
	ReqFreezeThread:            "FreezeThread",
	ReqUnfreezeThread:          "UnfreezeThread",
	ReqVariables:               "Variables",
	ReqValueChildren:           "ValueChildren",
	ReqValueData:               "ValueData",
	ReqValueDescription:        "ValueDescription",
	ReqValueAddress:            "ValueAddress",
	ReqChildrenCount:           "ChildrenCount",
	ReqArraySlice:              "ArraySlice",
	ReqSetValueFilteringPolicy: "SetValueFilteringPolicy",
	ReqEvaluate:                "Evaluate",
	ReqDumpMemory:              "DumpMemory",
	ReqWriteMemory:             "WriteMemory",
	ReqDisassemble:             "Disassemble",
	ReqDumpSections:            "DumpSections",
	ReqGetContextInfo:          "GetContextInfo",
	ReqGetRegisters:            "GetRegisters",
	ReqGetRegisterSets:         "GetRegisterSets",
	ReqGetArchitecture:         "GetArchitecture",
	ReqHandleConsoleCommand:    "HandleConsoleCommand",
	ReqHandleCompletion:        "HandleCompletion",
	ReqDispatchInput:           "DispatchInput",
	ReqResizeConsole:           "ResizeConsole",
	ReqHandleSignal:            "HandleSignal",
	ReqExecuteShellCommand:     "ExecuteShellCommand",
	ReqCancelSymbolsDownload:   "CancelSymbolsDownload",
}

// EventVariant numbers the oneof of unsolicited event payloads
// (spec §4.7).
type EventVariant uint16

const (
	EvtUnknown EventVariant = iota

	EvtInitialized
	EvtProcessRunning
	EvtStopped
	EvtProcessExited
	EvtBreakpointAdded
	EvtBreakpointChanged
	EvtBreakpointRemoved
	EvtBreakpointLocationsResolved
	EvtModuleLoaded
	EvtModuleUnloaded
	EvtStdout
	EvtStderr

	evtVariantCount
)

func (v EventVariant) Name() string {
	if n, ok := eventVariantNames[v]; ok {
		return n
	}
	return "Unknown"
}

var eventVariantNames = map[EventVariant]string{
	EvtInitialized:                 "Initialized",
	EvtProcessRunning:              "ProcessRunning",
	EvtStopped:                     "Stopped",
	EvtProcessExited:               "ProcessExited",
	EvtBreakpointAdded:             "BreakpointAdded",
	EvtBreakpointChanged:           "BreakpointChanged",
	EvtBreakpointRemoved:           "BreakpointRemoved",
	EvtBreakpointLocationsResolved: "BreakpointLocationsResolved",
	EvtModuleLoaded:                "ModuleLoaded",
	EvtModuleUnloaded:              "ModuleUnloaded",
	EvtStdout:                      "Stdout",
	EvtStderr:                      "Stderr",
}
