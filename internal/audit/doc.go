// Package audit records what callers did to their tasks.
//
// Handlers call Recorder.Record once per successful operation. The default
// Recorder is a Dispatcher: Record hands the event to a bounded queue and
// returns immediately, and a fixed set of workers writes queued events to a
// Sink. Recording is best effort. A full queue drops the event, and sink
// failures are logged and counted but never reach the caller.
package audit
