package harness

// Trace event types.
const (
	EventCompiled = "compiled"
	EventError    = "error"
	EventExecuted = "executed"
)

// TraceEvent records one step of a scenario run.
type TraceEvent struct {
	Type    string `json:"type"`
	Entry   string `json:"entry"`
	Dialect string `json:"dialect,omitempty"`
	SQL     string `json:"sql,omitempty"`

	// Params holds {name, value} pairs in binding order.
	Params []any `json:"params,omitempty"`

	// Code is the compile error code of an error event.
	Code string `json:"code,omitempty"`

	// Rows counts rows returned or affected by an executed event.
	Rows int64 `json:"rows,omitempty"`

	Seq int64 `json:"seq"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace lists compilations and executions in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds failed assertion messages.
	Errors []string `json:"errors,omitempty"`

	// Rows maps an entry name to its SQLite row count.
	Rows map[string]int64 `json:"rows,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Rows:   make(map[string]int64),
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) add(e TraceEvent) {
	e.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, e)
}

// find returns the event of the given type for an entry and dialect.
// An empty dialect matches any.
func (r *Result) find(typ, entry, dialect string) (TraceEvent, bool) {
	for _, e := range r.Trace {
		if e.Type == typ && e.Entry == entry && (dialect == "" || e.Dialect == dialect) {
			return e, true
		}
	}
	return TraceEvent{}, false
}
