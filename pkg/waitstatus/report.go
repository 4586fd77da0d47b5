//go:build !plan9
// +build !plan9

package waitstatus

// Report is a serialisable view of a Status. Fields whose gate does not
// hold are left nil rather than filled with meaningless values.
type Report struct {
	Raw         uint32 `json:"raw"`
	Cause       string `json:"cause"`
	Exited      bool   `json:"exited"`
	ExitCode    *int   `json:"exit_code,omitempty"`
	Signaled    bool   `json:"signaled"`
	Signal      *int   `json:"signal,omitempty"`
	SignalName  string `json:"signal_name,omitempty"`
	CoreDumped  *bool  `json:"core_dumped,omitempty"`
	Description string `json:"description"`
}

// Report builds the Report for s.
func (s Status) Report() Report {
	r := Report{
		Raw:         uint32(s),
		Cause:       s.Cause().String(),
		Exited:      s.Exited(),
		Signaled:    s.Signaled(),
		Description: s.String(),
	}
	if r.Exited {
		code := s.ExitCode()
		r.ExitCode = &code
	}
	if r.Signaled {
		sig := int(s.Signal())
		core := s.CoreDumped()
		r.Signal = &sig
		r.SignalName = s.Signal().String()
		r.CoreDumped = &core
	}
	return r
}
